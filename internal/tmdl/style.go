package tmdl

import (
	"regexp"
	"strings"
)

// Style is the block style a document was written in.
type Style int

const (
	StyleUnknown Style = iota
	StyleLabel
	StyleBrace
)

func (s Style) String() string {
	switch s {
	case StyleLabel:
		return "label"
	case StyleBrace:
		return "brace"
	default:
		return "unknown"
	}
}

// LineKind tags one classified line.
type LineKind int

const (
	KindPlain LineKind = iota
	KindBlank
	KindBrace        // a line holding only "{" or "}"
	KindBlockOpener  // "<keyword> <name> {"
	KindContainer    // "<container> {" or "<container>:"
	KindObjectHeader // "<keyword> <name>" without a brace
)

// Line is one classified input line.
type Line struct {
	Kind    LineKind
	Indent  string // leading whitespace as written
	Keyword string // object keyword or container label
	Name    string // object name (block openers and headers)
	Text    string // original line without trailing whitespace
}

// Document is a classified input ready for rendering.
type Document struct {
	Style Style
	Lines []Line
}

// objectKeywords are the object types that open a named block.
var objectKeywords = []string{
	"model", "database", "table", "column", "measure", "partition",
	"hierarchy", "level", "relationship", "role", "perspective",
	"culture", "expression", "dataSource", "calculationGroup",
	"calculationItem", "annotation", "extendedProperty",
	"linguisticMetadata", "tablePermission", "queryGroup", "ref",
}

// containerLabels are the unnamed blocks rendered as "label:".
var containerLabels = []string{
	"columns", "measures", "hierarchies", "partitions", "annotations",
	"calculationGroups?", "calculationItems", "dataAccessOptions",
	"legacyRedirects", "formatStringDefinition", "displayFolders",
	"roles", "tables", "relationships", "levels", "cultures",
	"perspectives", "expressions",
}

var (
	braceOnlyRe   = regexp.MustCompile(`^\s*[{}]\s*$`)
	blockOpenerRe = regexp.MustCompile(`^(\s*)(` + strings.Join(objectKeywords, "|") + `)\s+([^{]*?)\s*\{\s*$`)
	modelOpenerRe = regexp.MustCompile(`^(\s*)(model)\s*\{\s*$`)
	containerRe   = regexp.MustCompile(`^(\s*)(` + strings.Join(containerLabels, "|") + `)\s*:?\s*(\{)?\s*$`)
	headerRe      = regexp.MustCompile(`^(\s*)(` + strings.Join(objectKeywords, "|") + `)\s+(\S.*)$`)
)

// Classify tags a single line.
func Classify(raw string) Line {
	text := strings.TrimRight(raw, " \t\r")
	if strings.TrimSpace(text) == "" {
		return Line{Kind: KindBlank}
	}
	if braceOnlyRe.MatchString(text) {
		return Line{Kind: KindBrace, Text: text}
	}
	if m := blockOpenerRe.FindStringSubmatch(text); m != nil {
		return Line{Kind: KindBlockOpener, Indent: m[1], Keyword: m[2], Name: m[3], Text: text}
	}
	if m := modelOpenerRe.FindStringSubmatch(text); m != nil {
		return Line{Kind: KindBlockOpener, Indent: m[1], Keyword: m[2], Text: text}
	}
	if m := containerRe.FindStringSubmatch(text); m != nil {
		if m[3] != "" || strings.HasSuffix(strings.TrimSpace(text), ":") {
			return Line{Kind: KindContainer, Indent: m[1], Keyword: m[2], Text: text}
		}
	}
	if m := headerRe.FindStringSubmatch(text); m != nil {
		return Line{Kind: KindObjectHeader, Indent: m[1], Keyword: m[2], Name: m[3], Text: text}
	}
	return Line{Kind: KindPlain, Text: text}
}

// Parse classifies every line of text and detects the document style.
func Parse(text string) Document {
	raw := SplitLines(text)
	doc := Document{Lines: make([]Line, 0, len(raw))}
	braces, labels := 0, 0
	for _, r := range raw {
		l := Classify(r)
		switch l.Kind {
		case KindBrace, KindBlockOpener:
			braces++
		case KindContainer:
			if strings.HasSuffix(strings.TrimSpace(l.Text), "{") {
				braces++
			} else {
				labels++
			}
		case KindObjectHeader:
			labels++
		}
		doc.Lines = append(doc.Lines, l)
	}
	switch {
	case braces > 0:
		doc.Style = StyleBrace
	case labels > 0:
		doc.Style = StyleLabel
	default:
		doc.Style = StyleUnknown
	}
	return doc
}

// Render emits the document in label-colon style.
func (d Document) Render() string {
	out := make([]string, 0, len(d.Lines))
	blanks := 0
	flush := func() {
		// a run of blank lines collapses into one
		n := blanks
		if n > 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			out = append(out, "")
		}
		blanks = 0
	}
	for _, l := range d.Lines {
		switch l.Kind {
		case KindBlank:
			blanks++
			continue
		case KindBrace:
			continue
		}
		flush()
		switch l.Kind {
		case KindBlockOpener:
			if l.Name == "" {
				out = append(out, l.Indent+l.Keyword)
			} else {
				out = append(out, l.Indent+l.Keyword+" "+l.Name)
			}
		case KindContainer:
			out = append(out, l.Indent+l.Keyword+":")
		default:
			out = append(out, l.Text)
		}
	}
	return JoinDocument(out)
}

// Normalize converts text to label-colon style. It is idempotent.
func Normalize(text string) string {
	return Parse(text).Render()
}

// DetectStyle reports the block style text was written in.
func DetectStyle(text string) Style {
	return Parse(text).Style
}
