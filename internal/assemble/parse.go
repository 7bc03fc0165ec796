package assemble

import (
	"strings"

	"github.com/vvka-141/pbimodel/internal/ident"
	"github.com/vvka-141/pbimodel/internal/partition"
	"github.com/vvka-141/pbimodel/internal/tmdl"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// block is one member of a table with its lines at depths relative to the member.
type block struct {
	head  tmdl.Line
	lines []relLine
}

type relLine struct {
	depth int
	text  string
}

func (b *block) text(in tmdl.Indent) string {
	out := make([]string, 0, len(b.lines))
	for _, l := range b.lines {
		out = append(out, in.Line(l.depth, l.text))
	}
	return strings.Join(out, "\n") + "\n"
}

// Parse reads a table document written in either block style.
func Parse(text string, in tmdl.Indent) (pbimodel.TableDocument, error) {
	lines := tmdl.SplitLines(tmdl.Normalize(tmdl.StripFences(text)))

	var doc pbimodel.TableDocument
	start := -1
	for i, raw := range lines {
		l := tmdl.Classify(raw)
		if l.Kind == tmdl.KindObjectHeader && l.Keyword == "table" {
			doc.Name = ident.Unquote(l.Name)
			start = i + 1
			break
		}
	}
	if start < 0 {
		return doc, ErrNoTableHeader
	}

	for _, b := range groupMembers(lines[start:], in) {
		addMember(&doc, b, in)
	}
	return doc, nil
}

// groupMembers splits the lines under the table header into member blocks.
// Container labels ("columns:") are dropped and the lines under them
// promoted one level.
func groupMembers(lines []string, in tmdl.Indent) []*block {
	var blocks []*block
	var cur *block
	base := -1
	container := -1

	for _, raw := range lines {
		l := tmdl.Classify(raw)
		if l.Kind == tmdl.KindBlank {
			continue
		}
		depth := in.Depth(raw)
		if container >= 0 {
			if depth > container {
				depth--
			} else {
				container = -1
			}
		}
		if l.Kind == tmdl.KindContainer {
			container = in.Depth(raw)
			continue
		}
		if base < 0 {
			base = depth
		}

		if cur != nil && (depth > base || continues(cur, l)) {
			rel := depth - base
			if rel < 1 {
				rel = 1
			}
			cur.lines = append(cur.lines, relLine{depth: rel, text: strings.TrimSpace(raw)})
			continue
		}
		cur = &block{head: l, lines: []relLine{{depth: 0, text: strings.TrimSpace(raw)}}}
		blocks = append(blocks, cur)
	}
	return blocks
}

// continues reports whether a line at member depth still belongs to the
// current block. Generated partitions and columns are often written flat.
func continues(cur *block, l tmdl.Line) bool {
	if l.Kind == tmdl.KindObjectHeader {
		return false
	}
	switch cur.head.Keyword {
	case "partition":
		return true
	case "column":
		return tmdl.IsColumnPropertyLine(l)
	}
	return false
}

func addMember(doc *pbimodel.TableDocument, b *block, in tmdl.Indent) {
	switch b.head.Keyword {
	case "column":
		doc.Columns = append(doc.Columns, tmdl.ParseColumnBlocks(b.text(in), doc.Name)...)
		return
	case "partition":
		if doc.Partition == nil {
			p := partition.Parse(b.text(in), doc.Name)
			p.TableName = doc.Name
			doc.Partition = &p
			return
		}
	case "annotation":
		doc.Annotations = append(doc.Annotations, b.lines[0].text)
		return
	}

	if b.head.Kind == tmdl.KindPlain && len(b.lines) == 1 {
		doc.Properties = append(doc.Properties, b.lines[0].text)
		return
	}
	member := make([]string, 0, len(b.lines))
	for _, l := range b.lines {
		member = append(member, strings.Repeat(in.Unit, l.depth)+l.text)
	}
	doc.Members = append(doc.Members, member)
}
