package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pbimodel/internal/relationships"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

func TestLoad_AllFields(t *testing.T) {
	dir := t.TempDir()
	content := `pbip_name: Superstore
template_dir: tmpl
output_dir: build
indent: "    "
relationships:
  keep: ["Orders.Region=People.Region"]
  drop_date_tables: true
  date_table_prefixes: ["Auto_"]
  cross_filter: force
  cross_filter_value: bothDirections
  naming: guid
auto_relationships:
  - from: Orders.Product_ID
    to: Products.Product_ID
columns:
  lineage_tags: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := LoadOrDefault(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Superstore", cfg.PBIPName)
	assert.Equal(t, "tmpl", cfg.TemplateDir)
	assert.Equal(t, "build", cfg.OutputDir)
	assert.Equal(t, "    ", cfg.Indent)
	assert.True(t, cfg.Columns.LineageTags)

	policy, err := cfg.RelationshipPolicy()
	require.NoError(t, err)
	assert.True(t, policy.DropDateTables)
	assert.Equal(t, []string{"Auto_"}, policy.DateTablePrefixes)
	assert.Equal(t, relationships.CrossFilterForce, policy.CrossFilter)
	assert.Equal(t, "bothDirections", policy.CrossFilterValue)
	assert.Equal(t, relationships.NamingGUID, policy.Naming)
	require.Len(t, policy.Keep, 1)
	assert.Equal(t, "Orders.Region=People.Region", policy.Keep[0].String())

	pairs, err := cfg.AutoPairs()
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "Products", pairs[0].To.Table)
}

func TestLoad_MinimalYAMLGetsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("pbip_name: X\n"), 0644))

	cfg, err := LoadOrDefault(dir)
	require.NoError(t, err)

	assert.Equal(t, "X", cfg.PBIPName)
	assert.Equal(t, pbimodel.DefaultTemplateDir, cfg.TemplateDir)
	assert.Equal(t, pbimodel.DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, pbimodel.DefaultIndent, cfg.Indent)
	assert.Equal(t, pbimodel.DefaultDateTablePrefixes, cfg.Relationships.DateTablePrefixes)
	assert.Equal(t, "preserve", cfg.Relationships.CrossFilter)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)

	cfg, err = LoadOrDefault(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{{invalid"), 0644))

	cfg, err := Load(dir)
	assert.ErrorIs(t, err, pbimodel.ErrInvalidConfig)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(""), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, ProjectConfig{}, *cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProjectConfig)
	}{
		{"indent with text", func(c *ProjectConfig) { c.Indent = "--" }},
		{"cross filter", func(c *ProjectConfig) { c.Relationships.CrossFilter = "both" }},
		{"naming", func(c *ProjectConfig) { c.Relationships.Naming = "numbers" }},
		{"keep entry", func(c *ProjectConfig) { c.Relationships.Keep = []string{"Orders.Region"} }},
		{"auto relationship", func(c *ProjectConfig) {
			c.AutoRelationships = []AutoRelationship{{From: "Orders", To: "People.Region"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), pbimodel.ErrInvalidConfig)
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{EnvPBIPName: "FromEnv", EnvOutputDir: ""}
	cfg := Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, "FromEnv", cfg.PBIPName)
	assert.Equal(t, pbimodel.DefaultOutputDir, cfg.OutputDir)
}
