package columns

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vvka-141/pbimodel/internal/ident"
	"github.com/vvka-141/pbimodel/internal/identity"
	"github.com/vvka-141/pbimodel/internal/tmdl"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// Shape is the detected input shape.
type Shape int

const (
	ShapeRows Shape = iota
	ShapeBlocks
	ShapeList
)

func (s Shape) String() string {
	switch s {
	case ShapeBlocks:
		return "blocks"
	case ShapeList:
		return "list"
	default:
		return "rows"
	}
}

// Result is the outcome of normalizing one column specification.
type Result struct {
	Columns  []pbimodel.ColumnRecord
	Shape    Shape
	Table    string // table name found in a structured list, if any
	Warnings []string
}

var listRe = regexp.MustCompile(`(?m)^\s*(-\s*(name|column)\s*:|columns\s*:\s*$)`)

// DetectShape reports which shape raw is written in.
func DetectShape(raw string) Shape {
	text := tmdl.StripFences(raw)
	switch {
	case tmdl.HasColumnBlocks(text):
		return ShapeBlocks
	case listRe.MatchString(text):
		return ShapeList
	default:
		return ShapeRows
	}
}

// Normalize parses raw into column records for table. Duplicate names keep
// the position of their first occurrence and the values of the last.
func Normalize(raw, table string) (Result, error) {
	res := Result{Shape: DetectShape(raw)}

	switch res.Shape {
	case ShapeBlocks:
		res.Columns = tmdl.ParseColumnBlocks(raw, table)
	case ShapeList:
		cols, listTable, warnings, err := parseList(raw, table)
		if err != nil {
			return res, &pbimodel.InputShapeError{Table: table, Shape: res.Shape.String(), Reason: err.Error()}
		}
		res.Columns, res.Table, res.Warnings = cols, listTable, warnings
	default:
		cols, warnings := parseRows(raw, table)
		res.Columns, res.Warnings = cols, warnings
	}

	for i := range res.Columns {
		res.Columns[i].SummarizeBy = CanonicalSummarizeBy(res.Columns[i].SummarizeBy)
	}

	var dups []string
	res.Columns, dups = Dedup(res.Columns)
	res.Warnings = append(res.Warnings, dups...)

	if len(res.Columns) == 0 {
		return res, &pbimodel.InputShapeError{Table: table, Shape: res.Shape.String()}
	}
	return res, nil
}

// parseRows reads delimited rows.
func parseRows(raw, table string) ([]pbimodel.ColumnRecord, []string) {
	var cols []pbimodel.ColumnRecord
	var warnings []string
	for _, line := range tmdl.SplitLines(tmdl.StripFences(raw)) {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		sep := ","
		if strings.Contains(s, "|") {
			sep = "|"
		}
		fields := strings.Split(s, sep)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		name := ident.StripTableSuffix(ident.Unquote(fields[0]), table)
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("skipped row without a column name: %q", s))
			continue
		}
		dt, w := dataType(field(fields, 1), name)
		if w != "" {
			warnings = append(warnings, w)
		}
		cols = append(cols, pbimodel.NewColumnRecord(name, dt, field(fields, 2), ident.Unquote(field(fields, 3))))
	}
	return cols, warnings
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// dataType resolves a type alias, returning a warning for unknown aliases.
func dataType(alias, column string) (pbimodel.DataType, string) {
	if strings.TrimSpace(alias) == "" {
		return pbimodel.DataTypeString, ""
	}
	dt, ok := pbimodel.ParseDataType(alias)
	if !ok {
		return dt, fmt.Sprintf("unknown data type %q for column %q, using %s", alias, column, dt)
	}
	return dt, ""
}

// CanonicalSummarizeBy maps aggregation spellings onto summarizeBy values.
// "none" and "default" map to the empty string, meaning no line is emitted.
func CanonicalSummarizeBy(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "default", "attr":
		return ""
	case "sum":
		return "sum"
	case "count":
		return "count"
	case "countd", "distinctcount", "count_distinct":
		return "distinctCount"
	case "avg", "average", "mean":
		return "average"
	case "min":
		return "min"
	case "max":
		return "max"
	}
	return strings.TrimSpace(s)
}

// Dedup removes repeated column names. A repeated name overwrites the earlier
// record in place; one warning is returned per overwrite.
func Dedup(cols []pbimodel.ColumnRecord) ([]pbimodel.ColumnRecord, []string) {
	index := make(map[string]int, len(cols))
	out := make([]pbimodel.ColumnRecord, 0, len(cols))
	var warnings []string
	for _, c := range cols {
		if i, ok := index[c.Name]; ok {
			out[i] = c
			warnings = append(warnings, fmt.Sprintf("duplicate column %q, keeping the last definition", c.Name))
			continue
		}
		index[c.Name] = len(out)
		out = append(out, c)
	}
	return out, warnings
}

// Missing returns the required column names absent from cols, in required order.
func Missing(required []string, cols []pbimodel.ColumnRecord) []string {
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c.Name] = true
	}
	var missing []string
	for _, r := range required {
		r = strings.TrimSpace(r)
		if r != "" && !have[r] {
			missing = append(missing, r)
		}
	}
	return missing
}

// AssignLineageTags adds a deterministic lineageTag property to every
// column that does not carry one.
func AssignLineageTags(table string, cols []pbimodel.ColumnRecord) {
	for i := range cols {
		if hasProperty(cols[i], "lineageTag") {
			continue
		}
		tag := identity.LineageTag(table, cols[i].Name).String()
		cols[i].Properties = append([]pbimodel.Property{{Name: "lineageTag", Value: tag}}, cols[i].Properties...)
	}
}

func hasProperty(c pbimodel.ColumnRecord, name string) bool {
	for _, p := range c.Properties {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}
