package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/pbimodel/internal/relationships"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type RelationshipsConfig struct {
	Keep              []string `yaml:"keep,omitempty"`
	DropDateTables    bool     `yaml:"drop_date_tables"`
	DateTablePrefixes []string `yaml:"date_table_prefixes,omitempty"`
	CrossFilter       string   `yaml:"cross_filter,omitempty"`
	CrossFilterValue  string   `yaml:"cross_filter_value,omitempty"`
	Naming            string   `yaml:"naming,omitempty"`
}

type AutoRelationship struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type ColumnsConfig struct {
	LineageTags bool `yaml:"lineage_tags"`
}

type ProjectConfig struct {
	PBIPName          string              `yaml:"pbip_name,omitempty"`
	TemplateDir       string              `yaml:"template_dir,omitempty"`
	OutputDir         string              `yaml:"output_dir,omitempty"`
	Indent            string              `yaml:"indent,omitempty"`
	Relationships     RelationshipsConfig `yaml:"relationships"`
	AutoRelationships []AutoRelationship  `yaml:"auto_relationships,omitempty"`
	Columns           ColumnsConfig       `yaml:"columns"`
}

const ConfigFileName = pbimodel.ConfigFileName

// Environment variables consulted by ApplyEnv.
const (
	EnvPBIPName    = "PBIMODEL_PBIP_NAME"
	EnvTemplateDir = "PBIMODEL_TEMPLATE_DIR"
	EnvOutputDir   = "PBIMODEL_OUTPUT_DIR"
)

func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", pbimodel.ErrInvalidConfig, configPath, err)
	}
	return &cfg, nil
}

// LoadOrDefault loads the config in dir, falling back to Default when the
// file does not exist. Defaults fill every field the file leaves empty.
func LoadOrDefault(dir string) (*ProjectConfig, error) {
	cfg, err := Load(dir)
	if errors.Is(err, ErrConfigNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *ProjectConfig {
	cfg := &ProjectConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *ProjectConfig) applyDefaults() {
	if c.PBIPName == "" {
		c.PBIPName = pbimodel.DefaultPBIPName
	}
	if c.TemplateDir == "" {
		c.TemplateDir = pbimodel.DefaultTemplateDir
	}
	if c.OutputDir == "" {
		c.OutputDir = pbimodel.DefaultOutputDir
	}
	if c.Indent == "" {
		c.Indent = pbimodel.DefaultIndent
	}
	if len(c.Relationships.DateTablePrefixes) == 0 {
		c.Relationships.DateTablePrefixes = append([]string(nil), pbimodel.DefaultDateTablePrefixes...)
	}
	if c.Relationships.CrossFilter == "" {
		c.Relationships.CrossFilter = string(relationships.CrossFilterPreserve)
	}
	if c.Relationships.CrossFilterValue == "" {
		c.Relationships.CrossFilterValue = pbimodel.DefaultCrossFilterValue
	}
	if c.Relationships.Naming == "" {
		c.Relationships.Naming = string(relationships.NamingDescriptive)
	}
}

// ApplyEnv overrides path settings from the environment. lookup is
// os.LookupEnv outside tests.
func (c *ProjectConfig) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvPBIPName); ok && v != "" {
		c.PBIPName = v
	}
	if v, ok := lookup(EnvTemplateDir); ok && v != "" {
		c.TemplateDir = v
	}
	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		c.OutputDir = v
	}
}

// Validate checks enumerated values and the keep and auto-relationship entries.
func (c *ProjectConfig) Validate() error {
	if strings.TrimSpace(c.Indent) != "" {
		return fmt.Errorf("%w: indent must contain only spaces or tabs, got %q", pbimodel.ErrInvalidConfig, c.Indent)
	}
	if _, err := c.RelationshipPolicy(); err != nil {
		return err
	}
	if _, err := c.AutoPairs(); err != nil {
		return err
	}
	return nil
}

// RelationshipPolicy builds the relationship filter policy.
func (c *ProjectConfig) RelationshipPolicy() (relationships.Policy, error) {
	p := relationships.DefaultPolicy()
	p.DropDateTables = c.Relationships.DropDateTables
	if len(c.Relationships.DateTablePrefixes) > 0 {
		p.DateTablePrefixes = c.Relationships.DateTablePrefixes
	}
	if c.Relationships.CrossFilter != "" {
		p.CrossFilter = relationships.CrossFilterMode(c.Relationships.CrossFilter)
	}
	if c.Relationships.CrossFilterValue != "" {
		p.CrossFilterValue = c.Relationships.CrossFilterValue
	}
	if c.Relationships.Naming != "" {
		p.Naming = relationships.Naming(c.Relationships.Naming)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}

	for _, entry := range c.Relationships.Keep {
		pair, err := relationships.ParsePair(entry)
		if err != nil {
			return p, fmt.Errorf("%w: %v", pbimodel.ErrInvalidConfig, err)
		}
		p.Keep = append(p.Keep, pair)
	}
	return p, nil
}

// AutoPairs parses the configured auto-relationships.
func (c *ProjectConfig) AutoPairs() ([]relationships.Pair, error) {
	var out []relationships.Pair
	for i, a := range c.AutoRelationships {
		pair, err := relationships.ParsePair(a.From + "=" + a.To)
		if err != nil {
			return nil, fmt.Errorf("%w: auto_relationships[%d]: %v", pbimodel.ErrInvalidConfig, i, err)
		}
		out = append(out, pair)
	}
	return out, nil
}
