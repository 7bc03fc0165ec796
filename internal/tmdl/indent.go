package tmdl

import (
	"strings"
)

// tabWidth is the number of spaces a tab counts for when measuring depth.
const tabWidth = 4

// Indent renders and measures indentation in whole levels.
type Indent struct {
	Unit string
}

// NewIndent returns an Indent using unit as one level. An empty unit falls
// back to two spaces.
func NewIndent(unit string) Indent {
	if unit == "" {
		unit = "  "
	}
	return Indent{Unit: unit}
}

// Line renders text at the given depth. Blank text renders as an empty line.
func (in Indent) Line(depth int, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if depth < 0 {
		depth = 0
	}
	return strings.Repeat(in.Unit, depth) + text
}

// Depth measures the indentation level of a line. A tab is always one level;
// spaces count in units of the configured indent.
func (in Indent) Depth(line string) int {
	tabs, spaces := 0, 0
loop:
	for _, r := range line {
		switch r {
		case ' ':
			spaces++
		case '\t':
			tabs++
		default:
			break loop
		}
	}
	unit := strings.Count(in.Unit, " ")
	if unit == 0 {
		unit = tabWidth
	}
	return tabs + spaces/unit
}

// width counts leading whitespace columns with tabs expanded.
func width(s string) int {
	w := 0
	for _, r := range s {
		switch r {
		case ' ':
			w++
		case '\t':
			w += tabWidth
		default:
			return w
		}
	}
	return w
}

// SplitLines splits text into lines, dropping carriage returns and trailing whitespace.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return lines
}

// JoinDocument joins rendered lines into a document: leading and trailing
// blank lines are removed and the text ends with exactly one newline.
// An empty document renders as the empty string.
func JoinDocument(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start == end {
		return ""
	}
	return strings.Join(lines[start:end], "\n") + "\n"
}

// IsJSONLike reports whether content looks like JSON rather than the line notation.
func IsJSONLike(content []byte) bool {
	s := strings.TrimSpace(string(content))
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}
