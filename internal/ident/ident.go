package ident

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// Ref is a canonical Table.Column reference.
type Ref struct {
	Table  string
	Column string
}

// String renders the reference as Table.Column without quoting.
func (r Ref) String() string {
	if r.Table == "" {
		return r.Column
	}
	return r.Table + "." + r.Column
}

// TMDL renders the reference with each part quoted when the notation requires it.
func (r Ref) TMDL() string {
	if r.Table == "" {
		return Quote(r.Column)
	}
	return Quote(r.Table) + "." + Quote(r.Column)
}

// suffixRegex matches a trailing parenthetical such as "Region (People)".
var suffixRegex = regexp.MustCompile(`^(.*?)\s*\(([^()]+)\)\s*$`)

// Fold returns the Unicode case-folded form of a name. A Caser keeps state
// between calls, so each call gets its own.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// EqualFold reports whether two names are equal under Unicode case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// HasPrefixFold reports whether s begins with prefix under Unicode case folding.
func HasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(Fold(s), Fold(prefix))
}

// StripTableSuffix removes a trailing "(Table)" adornment from a column name.
// With a known table the suffix is removed only when it names that table
// (case-insensitively); with an empty table it is removed unconditionally.
func StripTableSuffix(column, table string) string {
	stripped, _ := splitSuffix(column, table)
	return stripped
}

// splitSuffix returns the column without its suffix and the suffix text
// (empty when nothing was removed).
func splitSuffix(column, table string) (string, string) {
	column = clean(column)
	m := suffixRegex.FindStringSubmatch(column)
	if m == nil {
		return column, ""
	}
	inner := strings.TrimSpace(m[2])
	base := clean(m[1])
	if base == "" {
		return column, ""
	}
	if table != "" && !EqualFold(inner, table) {
		return column, ""
	}
	return base, inner
}

// Normalize converts a reference in any accepted shape into a Ref.
// table is the owning table when the caller knows it; it fills in the table
// part for bare column references and gates suffix stripping.
func Normalize(ref, table string) Ref {
	table = clean(table)
	s := strings.TrimSpace(ref)

	if open := strings.Index(s, "["); open >= 0 {
		if close := strings.LastIndex(s, "]"); close > open {
			t := clean(s[:open])
			if t == "" {
				t = table
			}
			col, _ := splitSuffix(s[open+1:close], t)
			return Ref{Table: t, Column: col}
		}
	}

	if t, col, ok := splitDotted(s); ok {
		t = clean(t)
		if t == "" {
			t = table
		}
		col, _ = splitSuffix(col, t)
		return Ref{Table: t, Column: col}
	}

	col, inner := splitSuffix(s, table)
	t := table
	if t == "" {
		t = inner
	}
	return Ref{Table: t, Column: col}
}

// splitDotted splits "Table.Column" on the first dot outside single quotes.
func splitDotted(s string) (string, string, bool) {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			inQuote = !inQuote
		case '.':
			if !inQuote {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// clean trims whitespace and surrounding quotes from one identifier part.
func clean(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			s = strings.TrimSpace(strings.ReplaceAll(s[1:len(s)-1], string(first)+string(first), string(first)))
			continue
		}
		break
	}
	return s
}

// Quote wraps a name in single quotes when it contains anything other than
// letters, digits and underscores, doubling embedded quotes.
func Quote(name string) string {
	if name == "" || isPlain(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// Unquote reverses Quote. Unquoted input is returned trimmed.
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}

func isPlain(name string) bool {
	for _, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// NormalizeParts normalizes an endpoint whose table is stored separately.
// A column written in bracket form still carries its own table; otherwise the
// column is taken literally, so names containing dots survive.
func NormalizeParts(table, column string) Ref {
	table = clean(table)
	if table == "" || strings.Contains(column, "[") {
		return Normalize(column, table)
	}
	return Ref{Table: table, Column: StripTableSuffix(column, table)}
}
