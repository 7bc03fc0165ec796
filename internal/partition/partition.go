// Package partition normalizes the query block attached to a table.
//
// Generated queries arrive with doubled braces, stray indentation and
// sometimes with or without their own partition header. Normalize reads all
// of that into a PartitionBlock and Render writes it back at fixed depths
// relative to a base depth:
//
//	base     partition <table> = m
//	base+2   mode: import
//	base+2   source =
//	base+3   let
//	base+4   <body lines>
//	base+3   in
//	base+3   <result lines>
//
// A query without a standalone let/in pair is kept as an opaque block at base+3.
package partition

import (
	"regexp"
	"strings"

	"github.com/vvka-141/pbimodel/internal/ident"
	"github.com/vvka-141/pbimodel/internal/tmdl"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// Options control rendering.
type Options struct {
	BaseDepth int
	Indent    tmdl.Indent
}

var (
	headerRe = regexp.MustCompile(`^\s*partition\s+(.+?)\s*=\s*m\s*\{?\s*$`)
	modeRe   = regexp.MustCompile(`^\s*mode\s*:\s*\S+\s*$`)
	sourceRe = regexp.MustCompile(`^\s*source\s*=\s*(.*)$`)
)

// RepairBraces collapses doubled braces left by template escaping until none remain.
func RepairBraces(s string) string {
	for strings.Contains(s, "{{") || strings.Contains(s, "}}") {
		s = strings.ReplaceAll(s, "{{", "{")
		s = strings.ReplaceAll(s, "}}", "}")
	}
	return s
}

// Parse reads raw query text into a PartitionBlock for table. A leading
// partition header, mode line and source line are consumed when present.
func Parse(raw, table string) pbimodel.PartitionBlock {
	text := tmdl.StripFences(RepairBraces(raw))
	lines := contentLines(text)

	block := pbimodel.PartitionBlock{TableName: table, Mode: pbimodel.PartitionMode}
	lines = consumeHeader(lines, &block)

	letAt, inAt := -1, -1
	for i, l := range lines {
		if strings.EqualFold(l, "let") {
			letAt = i
			break
		}
	}
	if letAt >= 0 {
		for i := len(lines) - 1; i > letAt; i-- {
			if strings.EqualFold(lines[i], "in") {
				inAt = i
				break
			}
		}
	}

	if letAt < 0 || inAt < 0 || !onlyPreamble(lines[:letAt]) {
		block.Opaque = lines
		return block
	}
	block.Body = append([]string(nil), lines[letAt+1:inAt]...)
	block.Result = append([]string(nil), lines[inAt+1:]...)
	return block
}

// contentLines returns the trimmed non-blank lines of text.
func contentLines(text string) []string {
	var out []string
	for _, l := range tmdl.SplitLines(text) {
		if s := strings.TrimSpace(l); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// consumeHeader strips the header lines that Render emits, in the order it
// emits them. A table name found in the header is used when block has none.
func consumeHeader(lines []string, block *pbimodel.PartitionBlock) []string {
	if len(lines) > 0 {
		if m := headerRe.FindStringSubmatch(lines[0]); m != nil {
			if block.TableName == "" {
				block.TableName = ident.Unquote(m[1])
			}
			braced := strings.HasSuffix(lines[0], "{")
			lines = lines[1:]
			if braced && len(lines) > 0 && lines[len(lines)-1] == "}" {
				lines = lines[:len(lines)-1]
			}
		}
	}
	if len(lines) > 0 && modeRe.MatchString(lines[0]) {
		lines = lines[1:]
	}
	if len(lines) > 0 {
		if m := sourceRe.FindStringSubmatch(lines[0]); m != nil {
			rest := strings.TrimSpace(m[1])
			if rest == "" {
				lines = lines[1:]
			} else {
				lines = append([]string{rest}, lines[1:]...)
			}
		}
	}
	return lines
}

// onlyPreamble reports whether nothing but braces precedes the let line.
func onlyPreamble(lines []string) bool {
	for _, l := range lines {
		if l != "{" && l != "}" {
			return false
		}
	}
	return true
}

// Render writes the block at the depths described in the package comment.
func Render(block pbimodel.PartitionBlock, opts Options) []string {
	in := opts.Indent
	if in.Unit == "" {
		in = tmdl.NewIndent("")
	}
	base := opts.BaseDepth
	mode := block.Mode
	if mode == "" {
		mode = pbimodel.PartitionMode
	}

	lines := []string{
		in.Line(base, "partition "+ident.Quote(block.TableName)+" = m"),
		in.Line(base+2, "mode: "+mode),
		in.Line(base+2, "source ="),
	}
	if block.IsOpaque() {
		for _, l := range block.Opaque {
			lines = append(lines, in.Line(base+3, l))
		}
		return lines
	}
	lines = append(lines, in.Line(base+3, "let"))
	for _, l := range block.Body {
		lines = append(lines, in.Line(base+4, l))
	}
	lines = append(lines, in.Line(base+3, "in"))
	for _, l := range block.Result {
		lines = append(lines, in.Line(base+3, l))
	}
	return lines
}

// Normalize parses raw and renders it back. Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw, table string, opts Options) string {
	return tmdl.JoinDocument(Render(Parse(raw, table), opts))
}
