package assemble

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vvka-141/pbimodel/internal/files/filesystem"
	"github.com/vvka-141/pbimodel/internal/relationships"
	"github.com/vvka-141/pbimodel/internal/tmdl"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// Register adds the table a document describes, with its column names, to
// tables. JSON content or a document without a table header registers
// fallback with unknown columns.
func Register(tables *relationships.Tables, fallback string, content []byte, in tmdl.Indent) {
	if tmdl.IsJSONLike(content) {
		tables.Add(fallback)
		return
	}
	doc, err := Parse(string(content), in)
	if err != nil || doc.Name == "" {
		tables.Add(fallback)
		return
	}
	names := make([]string, 0, len(doc.Columns))
	for _, c := range doc.Columns {
		names = append(names, c.Name)
	}
	tables.Add(doc.Name, names...)
}

// LoadTables registers every table document directly in tablesDir. A
// missing directory yields an empty set.
func LoadTables(fsys filesystem.FileSystemProvider, tablesDir string, in tmdl.Indent) (*relationships.Tables, error) {
	tables := relationships.NewTables()
	infos, err := fsys.ReadDir(tablesDir)
	if err != nil {
		if filesystem.IsNotExist(err) {
			return tables, nil
		}
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	for _, info := range infos {
		ext := filepath.Ext(info.Name())
		if info.IsDir() || !strings.EqualFold(ext, pbimodel.TMDLExtension) {
			continue
		}
		content, err := fsys.ReadFile(filepath.Join(tablesDir, info.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", info.Name(), err)
		}
		Register(tables, strings.TrimSuffix(info.Name(), ext), content, in)
	}
	return tables, nil
}
