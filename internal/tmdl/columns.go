package tmdl

import (
	"regexp"
	"strings"

	"github.com/vvka-141/pbimodel/internal/ident"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

var columnHeaderRe = regexp.MustCompile(`(?m)^\s*column\s+\S`)

// HasColumnBlocks reports whether text already contains column blocks.
func HasColumnBlocks(text string) bool {
	return columnHeaderRe.MatchString(text)
}

// ParseColumnBlocks extracts every column block from text, ignoring any
// surrounding table wrapper or sibling members. Suffixed names such as
// "Region (People)" are reduced to "Region" when the suffix names table.
func ParseColumnBlocks(text, table string) []pbimodel.ColumnRecord {
	doc := Parse(StripFences(text))
	var cols []pbimodel.ColumnRecord
	var cur *pbimodel.ColumnRecord
	curWidth := 0

	flush := func() {
		if cur != nil {
			cols = append(cols, *cur)
			cur = nil
		}
	}

	for _, l := range doc.Lines {
		if l.Kind == KindBlank || l.Kind == KindBrace {
			continue
		}
		if cur != nil && (width(l.Text) > curWidth || IsColumnPropertyLine(l)) {
			applyColumnProperty(cur, l.Text)
			continue
		}
		switch l.Kind {
		case KindBlockOpener, KindObjectHeader:
			flush()
			if l.Keyword != "column" {
				continue
			}
			name := columnName(l.Name, table)
			if name == "" {
				continue
			}
			cur = &pbimodel.ColumnRecord{Name: name}
			curWidth = width(l.Indent)
			continue
		case KindContainer:
			flush()
			continue
		}
		flush()
	}
	flush()

	for i := range cols {
		fillColumnDefaults(&cols[i])
	}
	return cols
}

// IsColumnPropertyLine reports whether a line at the column's own depth is
// still one of its properties, as in generated text that writes every line
// at one depth.
func IsColumnPropertyLine(l Line) bool {
	if l.Kind != KindPlain {
		return false
	}
	name, _, ok := ParseProperty(l.Text)
	if !ok {
		return false
	}
	switch strings.ToLower(name) {
	case "datatype", "summarizeby", "sourcecolumn", "formatstring", "lineagetag", "ishidden", "datacategory":
		return true
	}
	return false
}

// columnName reads the name part of a column header, dropping any
// calculated-column expression.
func columnName(header, table string) string {
	s := strings.TrimSpace(header)
	if strings.HasPrefix(s, "'") {
		if end := closingQuote(s); end > 0 {
			s = s[:end+1]
		}
	} else if i := strings.Index(s, "="); i >= 0 {
		s = s[:i]
	}
	return ident.StripTableSuffix(ident.Unquote(strings.TrimSpace(s)), table)
}

// closingQuote returns the index of the quote closing a single-quoted name.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			i++
			continue
		}
		return i
	}
	return -1
}

func applyColumnProperty(c *pbimodel.ColumnRecord, line string) {
	name, value, ok := ParseProperty(line)
	if !ok {
		c.Properties = append(c.Properties, pbimodel.Property{Name: strings.TrimSpace(line)})
		return
	}
	switch strings.ToLower(name) {
	case "datatype":
		if dt, known := pbimodel.ParseDataType(value); known {
			c.DataType = dt
		} else {
			c.DataType = pbimodel.DataType(value)
		}
	case "summarizeby":
		c.SummarizeBy = value
	case "sourcecolumn":
		c.SourceColumn = ident.Unquote(value)
	default:
		c.Properties = append(c.Properties, pbimodel.Property{Name: name, Value: value})
	}
}

func fillColumnDefaults(c *pbimodel.ColumnRecord) {
	if c.DataType == "" {
		c.DataType = pbimodel.DataTypeString
	}
	switch strings.ToLower(c.SummarizeBy) {
	case "none", "default":
		c.SummarizeBy = ""
	}
	if c.SourceColumn == "" {
		c.SourceColumn = c.Name
	}
}

// RenderColumn renders one column block with its header at depth and its
// properties one level deeper.
func RenderColumn(c pbimodel.ColumnRecord, depth int, in Indent) []string {
	lines := []string{
		in.Line(depth, "column "+ident.Quote(c.Name)),
		in.Line(depth+1, "dataType: "+string(c.DataType)),
	}
	if c.SummarizeBy != "" {
		lines = append(lines, in.Line(depth+1, "summarizeBy: "+c.SummarizeBy))
	}
	lines = append(lines, in.Line(depth+1, "sourceColumn: "+c.SourceColumn))
	for _, p := range c.Properties {
		if p.Value == "" {
			lines = append(lines, in.Line(depth+1, p.Name))
			continue
		}
		lines = append(lines, in.Line(depth+1, p.Name+": "+p.Value))
	}
	return lines
}
