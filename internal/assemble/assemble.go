// Package assemble composes, parses and re-renders table documents.
//
// A canonical table document is:
//
//	table <name>
//	  <table properties>
//
//	  column <name>
//	    dataType: ...
//
//	  <other members: measures, hierarchies>
//
//	  partition <name> = m
//	    ...
//
//	  annotation PBI_ResultType = Table
//
// Members sit at depth 1 and their properties at depth 2. Rendering a parsed
// canonical document reproduces it byte for byte.
package assemble

import (
	"errors"
	"strings"

	"github.com/vvka-141/pbimodel/internal/columns"
	"github.com/vvka-141/pbimodel/internal/ident"
	"github.com/vvka-141/pbimodel/internal/partition"
	"github.com/vvka-141/pbimodel/internal/tmdl"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// ErrNoTableHeader is returned when a document has no "table" line.
var ErrNoTableHeader = errors.New("no table header")

const memberDepth = 1

// Options control rendering.
type Options struct {
	Indent      tmdl.Indent
	LineageTags bool
}

func (o Options) indent() tmdl.Indent {
	if o.Indent.Unit == "" {
		return tmdl.NewIndent("")
	}
	return o.Indent
}

// Compose builds a table document from already normalized parts.
func Compose(name string, cols []pbimodel.ColumnRecord, part *pbimodel.PartitionBlock) pbimodel.TableDocument {
	doc := pbimodel.TableDocument{
		Name:    name,
		Columns: cols,
	}
	if part != nil {
		p := *part
		p.TableName = name
		doc.Partition = &p
	}
	return doc
}

// Table normalizes raw column and partition text and renders the table.
// The column result is returned so callers can report warnings and coverage.
func Table(name, rawColumns, rawPartition string, opts Options) (string, columns.Result, error) {
	res, err := columns.Normalize(rawColumns, name)
	if err != nil {
		return "", res, err
	}
	if opts.LineageTags {
		columns.AssignLineageTags(name, res.Columns)
	}
	var part *pbimodel.PartitionBlock
	if strings.TrimSpace(rawPartition) != "" {
		p := partition.Parse(rawPartition, name)
		part = &p
	}
	return Render(Compose(name, res.Columns, part), opts), res, nil
}

// Render writes doc in canonical form. The table annotation is written
// exactly once, after every other annotation.
func Render(doc pbimodel.TableDocument, opts Options) string {
	in := opts.indent()
	lines := []string{in.Line(0, "table "+ident.Quote(doc.Name))}
	for _, p := range doc.Properties {
		lines = append(lines, in.Line(memberDepth, p))
	}

	for _, c := range doc.Columns {
		lines = append(lines, "")
		lines = append(lines, tmdl.RenderColumn(c, memberDepth, in)...)
	}
	for _, m := range doc.Members {
		lines = append(lines, "")
		for _, l := range m {
			lines = append(lines, strings.Repeat(in.Unit, memberDepth)+l)
		}
	}
	if doc.Partition != nil {
		p := *doc.Partition
		if p.TableName == "" {
			p.TableName = doc.Name
		}
		lines = append(lines, "")
		lines = append(lines, partition.Render(p, partition.Options{BaseDepth: memberDepth, Indent: in})...)
	}

	lines = append(lines, "")
	for _, a := range annotations(doc.Annotations) {
		lines = append(lines, in.Line(memberDepth, a))
	}
	return tmdl.JoinDocument(lines)
}

// annotations returns the annotation lines with duplicates removed and the
// table marker moved to the end.
func annotations(in []string) []string {
	seen := map[string]bool{pbimodel.TableAnnotation: true}
	var out []string
	for _, a := range in {
		a = strings.Join(strings.Fields(a), " ")
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return append(out, pbimodel.TableAnnotation)
}

// Format parses a table document in either style and renders it canonically.
func Format(text string, opts Options) (string, error) {
	doc, err := Parse(text, opts.indent())
	if err != nil {
		return "", err
	}
	return Render(doc, opts), nil
}
