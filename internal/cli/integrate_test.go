package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

func TestIntegrateAndBuild(t *testing.T) {
	dir := newProject(t)
	cols := writeFile(t, filepath.Join(dir, "in", "Orders_columns.txt"), ordersColumns)
	people := writeFile(t, filepath.Join(dir, "in", "People_columns.txt"), peopleColumns)
	xml := writeFile(t, filepath.Join(dir, "datasource.xml"), datasourceXML)

	_, err := execute(t, "integrate", "People", "--project", dir, "--columns", people, "--xml", xml)
	require.NoError(t, err)
	out, err := execute(t, "integrate", "Orders", "--project", dir, "--columns", cols, "--xml", xml)
	require.NoError(t, err)

	tablePath := strings.TrimSpace(out)
	require.FileExists(t, tablePath)
	table := readFile(t, tablePath)
	assert.True(t, strings.HasPrefix(table, "table Orders\n"))
	assert.Contains(t, table, "column Row_ID")
	assert.Contains(t, table, pbimodel.TableAnnotation)

	rels := readFile(t, filepath.Join(filepath.Dir(filepath.Dir(tablePath)), pbimodel.RelationshipsFileName))
	assert.Contains(t, rels, "fromColumn: Orders.Region")
	assert.Contains(t, rels, "toColumn: People.Region")

	out, err = execute(t, "build", "--project", dir)
	require.NoError(t, err)
	manifest := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(dir, "OUT_PBIP", "sales", "sales.pbip"), manifest)
	assert.FileExists(t, manifest)

	model := readFile(t, filepath.Join(dir, "OUT_PBIP", "sales", "sales.SemanticModel", "definition", "model.tmdl"))
	assert.Contains(t, model, "Orders")
	assert.Contains(t, model, "People")
	assert.NotContains(t, model, "@@")
	assert.Equal(t, table, readFile(t, filepath.Join(dir, "OUT_PBIP", "sales", "sales.SemanticModel", "definition", "tables", "Orders.tmdl")))
}

func TestIntegrate_Idempotent(t *testing.T) {
	dir := newProject(t)
	cols := writeFile(t, filepath.Join(dir, "cols.txt"), ordersColumns)

	out, err := execute(t, "integrate", "Orders", "--project", dir, "--columns", cols)
	require.NoError(t, err)
	first := readFile(t, strings.TrimSpace(out))

	out, err = execute(t, "integrate", "Orders", "--project", dir, "--columns", cols)
	require.NoError(t, err)
	assert.Equal(t, first, readFile(t, strings.TrimSpace(out)))
}

func TestIntegrate_NoUsableColumns(t *testing.T) {
	dir := newProject(t)
	cols := writeFile(t, filepath.Join(dir, "cols.yaml"), "columns:\n  - name: \"\"\n")

	_, err := execute(t, "integrate", "Orders", "--project", dir, "--columns", cols)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pbimodel.ErrInputShape))
	assert.Equal(t, pbimodel.ExitInputShape, pbimodel.ExitCodeForError(err))
	assert.NoDirExists(t, filepath.Join(dir, "OUT_PBIP"))
}

func TestIntegrate_UnknownTable(t *testing.T) {
	dir := newProject(t)
	cols := writeFile(t, filepath.Join(dir, "cols.txt"), ordersColumns)
	xml := writeFile(t, filepath.Join(dir, "datasource.xml"), datasourceXML)

	_, err := execute(t, "integrate", "Missing", "--project", dir, "--columns", cols, "--xml", xml)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pbimodel.ErrTableNotFound))
}

func TestIntegrate_JoinWaitsForOtherTable(t *testing.T) {
	dir := newProject(t)
	cols := writeFile(t, filepath.Join(dir, "cols.txt"), ordersColumns)
	xml := writeFile(t, filepath.Join(dir, "datasource.xml"), datasourceXML)

	out, err := execute(t, "integrate", "Orders", "--project", dir, "--columns", cols, "--xml", xml)
	require.NoError(t, err)
	tablePath := strings.TrimSpace(out)
	rels := readFile(t, filepath.Join(filepath.Dir(filepath.Dir(tablePath)), pbimodel.RelationshipsFileName))
	assert.NotContains(t, rels, "People")
}

func TestIntegrate_KeepListRemovesEverything(t *testing.T) {
	dir := newProject(t)
	cols := writeFile(t, filepath.Join(dir, "cols.txt"), ordersColumns)
	people := writeFile(t, filepath.Join(dir, "people.txt"), peopleColumns)
	xml := writeFile(t, filepath.Join(dir, "datasource.xml"), datasourceXML)

	_, err := execute(t, "integrate", "People", "--project", dir, "--columns", people, "--xml", xml)
	require.NoError(t, err)
	_, err = execute(t, "integrate", "Orders", "--project", dir, "--columns", cols, "--xml", xml, "--keep", "A.x=B.y")
	require.Error(t, err)
	assert.Equal(t, pbimodel.ExitEmptyResult, pbimodel.ExitCodeForError(err))
}

func TestIntegrate_InvalidKeepEntry(t *testing.T) {
	dir := newProject(t)
	cols := writeFile(t, filepath.Join(dir, "cols.txt"), ordersColumns)

	_, err := execute(t, "integrate", "Orders", "--project", dir, "--columns", cols, "--keep", "Orders.Region")
	require.Error(t, err)
	assert.Equal(t, pbimodel.ExitConfigError, pbimodel.ExitCodeForError(err))
}

func TestIntegrate_MissingColumnsFlag(t *testing.T) {
	_, err := execute(t, "integrate", "Orders")
	require.Error(t, err)
	assert.Equal(t, pbimodel.ExitUsageError, pbimodel.ExitCodeForError(err))
}

func TestBuild_MissingTemplate(t *testing.T) {
	dir := newProject(t)
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "pbip_template")))

	_, err := execute(t, "build", "--project", dir)
	require.Error(t, err)
	assert.Equal(t, pbimodel.ExitMissingTemplate, pbimodel.ExitCodeForError(err))
}

func TestBuild_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pbimodel.yaml"), "relationships:\n  naming: sideways\n")

	_, err := execute(t, "build", "--project", dir)
	require.Error(t, err)
	assert.Equal(t, pbimodel.ExitConfigError, pbimodel.ExitCodeForError(err))
}

func TestBuild_EnvOverridesName(t *testing.T) {
	dir := newProject(t)
	cols := writeFile(t, filepath.Join(dir, "cols.txt"), ordersColumns)
	t.Setenv("PBIMODEL_PBIP_NAME", "Quarterly")

	_, err := execute(t, "integrate", "Orders", "--project", dir, "--columns", cols)
	require.NoError(t, err)
	out, err := execute(t, "build", "--project", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "OUT_PBIP", "Quarterly", "Quarterly.pbip"), strings.TrimSpace(out))
}
