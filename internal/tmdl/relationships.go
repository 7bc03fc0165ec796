package tmdl

import (
	"strings"

	"github.com/vvka-141/pbimodel/internal/ident"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// ParseRelationships reads relationship blocks from a relationships document
// in either block style. A surrounding "relationships" container is ignored.
// Blocks missing either endpoint are skipped.
func ParseRelationships(text string) pbimodel.RelationshipsDocument {
	doc := Parse(StripFences(text))
	var out pbimodel.RelationshipsDocument
	var cur *relBuilder

	flush := func() {
		if cur != nil {
			if r, ok := cur.build(); ok {
				out.Relationships = append(out.Relationships, r)
			}
			cur = nil
		}
	}

	for _, l := range doc.Lines {
		switch l.Kind {
		case KindBlank, KindBrace, KindContainer:
			continue
		case KindBlockOpener, KindObjectHeader:
			if l.Keyword == "relationship" {
				flush()
				cur = &relBuilder{name: relationshipName(l.Name)}
				continue
			}
		}
		if cur == nil {
			continue
		}
		name, value, ok := ParseProperty(l.Text)
		if !ok {
			continue
		}
		switch strings.ToLower(name) {
		case "fromcolumn":
			cur.fromColumn = value
		case "tocolumn":
			cur.toColumn = value
		case "fromtable":
			cur.fromTable = value
		case "totable":
			cur.toTable = value
		case "crossfilteringbehavior":
			cur.crossFilter = value
		}
	}
	flush()
	return out
}

type relBuilder struct {
	name        string
	fromTable   string
	fromColumn  string
	toTable     string
	toColumn    string
	crossFilter string
}

func (b *relBuilder) build() (pbimodel.RelationshipRecord, bool) {
	from := ident.NormalizeParts(b.fromTable, b.fromColumn)
	to := ident.NormalizeParts(b.toTable, b.toColumn)
	if from.Table == "" || from.Column == "" || to.Table == "" || to.Column == "" {
		return pbimodel.RelationshipRecord{}, false
	}
	return pbimodel.RelationshipRecord{
		Name:                   b.name,
		FromTable:              from.Table,
		FromColumn:             from.Column,
		ToTable:                to.Table,
		ToColumn:               to.Column,
		CrossFilteringBehavior: strings.TrimSpace(b.crossFilter),
	}, true
}

func relationshipName(s string) string {
	return ident.Unquote(strings.TrimSpace(s))
}

// quoteObjectName quotes a relationship name only when it would not read
// back as a single token.
func quoteObjectName(name string) string {
	if strings.ContainsAny(name, " \t'.=:") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}

// RenderRelationships renders the canonical relationships document: flat
// blocks, each followed by one blank line, no wrapper.
func RenderRelationships(doc pbimodel.RelationshipsDocument, in Indent) string {
	var lines []string
	for _, r := range doc.Relationships {
		lines = append(lines, RenderRelationship(r, in)...)
		lines = append(lines, "")
	}
	return JoinDocument(lines)
}

// RenderRelationship renders one relationship block without the trailing blank line.
func RenderRelationship(r pbimodel.RelationshipRecord, in Indent) []string {
	from := ident.Ref{Table: r.FromTable, Column: r.FromColumn}
	to := ident.Ref{Table: r.ToTable, Column: r.ToColumn}
	lines := []string{
		in.Line(0, "relationship "+quoteObjectName(r.Name)),
		in.Line(1, "fromColumn: "+from.TMDL()),
		in.Line(1, "toColumn: "+to.TMDL()),
	}
	if r.CrossFilteringBehavior != "" {
		lines = append(lines, in.Line(1, "crossFilteringBehavior: "+r.CrossFilteringBehavior))
	}
	return lines
}
