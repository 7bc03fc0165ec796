package columns

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/pbimodel/internal/ident"
	"github.com/vvka-141/pbimodel/internal/tmdl"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

var errNoList = errors.New("no column list found")

// parseList reads a structured column list. Item keys are matched loosely:
// name/column, type/dataType, summarizeBy/aggregation, sourceColumn/source.
// Other scalar keys are carried as column properties in input order.
func parseList(raw, table string) ([]pbimodel.ColumnRecord, string, []string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(tmdl.StripFences(raw)), &root); err != nil {
		return nil, "", nil, fmt.Errorf("parse column list: %w", err)
	}

	listTable := findScalar(&root, "table")
	if table == "" {
		table = listTable
	}

	seq := findColumnList(&root)
	if seq == nil {
		return nil, listTable, nil, errNoList
	}

	var cols []pbimodel.ColumnRecord
	var warnings []string
	for _, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			continue
		}
		c, w, ok := listItem(item, table)
		warnings = append(warnings, w...)
		if ok {
			cols = append(cols, c)
		}
	}
	return cols, listTable, warnings, nil
}

func listItem(item *yaml.Node, table string) (pbimodel.ColumnRecord, []string, bool) {
	var name, typ, summarize, source string
	var props []pbimodel.Property
	for i := 0; i+1 < len(item.Content); i += 2 {
		key, val := item.Content[i], item.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			continue
		}
		switch canonicalKey(key.Value) {
		case "name", "column", "columnname", "localname":
			name = val.Value
		case "type", "datatype", "localtype":
			typ = val.Value
		case "summarizeby", "aggregation", "summarize", "agg":
			summarize = val.Value
		case "sourcecolumn", "source", "remotename":
			source = val.Value
		default:
			props = append(props, pbimodel.Property{Name: key.Value, Value: val.Value})
		}
	}

	name = ident.StripTableSuffix(strings.Trim(strings.TrimSpace(name), "[]"), table)
	if name == "" {
		return pbimodel.ColumnRecord{}, []string{"skipped list item without a column name"}, false
	}
	var warnings []string
	dt, w := dataType(typ, name)
	if w != "" {
		warnings = append(warnings, w)
	}
	c := pbimodel.NewColumnRecord(name, dt, summarize, strings.Trim(strings.TrimSpace(source), "[]"))
	c.Properties = props
	return c, warnings, true
}

func canonicalKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, "_", "")
	return strings.ReplaceAll(k, "-", "")
}

// findColumnList returns the first sequence of mappings that carry a name key.
func findColumnList(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.SequenceNode && isColumnList(n) {
		return n
	}
	for _, c := range n.Content {
		if found := findColumnList(c); found != nil {
			return found
		}
	}
	return nil
}

func isColumnList(seq *yaml.Node) bool {
	for _, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			continue
		}
		for i := 0; i+1 < len(item.Content); i += 2 {
			switch canonicalKey(item.Content[i].Value) {
			case "name", "column", "columnname", "localname":
				return true
			}
		}
	}
	return false
}

// findScalar returns the value of the first mapping key named key.
func findScalar(n *yaml.Node, key string) string {
	if n == nil {
		return ""
	}
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if canonicalKey(n.Content[i].Value) == key && n.Content[i+1].Kind == yaml.ScalarNode {
				return n.Content[i+1].Value
			}
		}
	}
	for _, c := range n.Content {
		if v := findScalar(c, key); v != "" {
			return v
		}
	}
	return ""
}
