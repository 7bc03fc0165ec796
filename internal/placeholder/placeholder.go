// Package placeholder substitutes "@@name@@" markers in template text.
package placeholder

import (
	"sort"
	"strings"

	"github.com/vvka-141/pbimodel/internal/ident"
)

const (
	// TableNameList expands to a bracketed list of quoted table names.
	TableNameList = "@@tablenamelist@@"
	// RefTable expands to one "ref table <name>" line per table.
	RefTable = "@@reftable@@"
	// ReportPath and SemanticModelPath are the manifest markers.
	ReportPath        = "@@.Report@@"
	SemanticModelPath = "@@.SemanticModel@@"
)

// Values maps placeholders to their replacement text.
type Values map[string]string

// Resolve replaces every placeholder in text. Unknown markers are left in place.
func Resolve(text string, values Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	// longer markers first so one marker never replaces part of another
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		text = strings.ReplaceAll(text, k, values[k])
	}
	return text
}

// ModelValues builds the model placeholders for the given table names in
// the order given.
func ModelValues(tables []string) Values {
	quoted := make([]string, 0, len(tables))
	refs := make([]string, 0, len(tables))
	for _, t := range tables {
		quoted = append(quoted, "'"+strings.ReplaceAll(t, "'", "\\'")+"'")
		refs = append(refs, "ref table "+ident.Quote(t))
	}
	return Values{
		TableNameList: "[" + strings.Join(quoted, ", ") + "]",
		RefTable:      strings.Join(refs, "\n"),
	}
}

// ResolveModel substitutes the model placeholders.
func ResolveModel(text string, tables []string) string {
	return Resolve(text, ModelValues(tables))
}

// ManifestValues builds the manifest placeholders for a project base name.
func ManifestValues(base string) Values {
	return Values{
		ReportPath:        base + ".Report",
		SemanticModelPath: base + ".SemanticModel",
	}
}

// Unresolved returns the distinct "@@...@@" markers still present in text.
func Unresolved(text string) []string {
	var out []string
	seen := map[string]bool{}
	for {
		start := strings.Index(text, "@@")
		if start < 0 {
			break
		}
		end := strings.Index(text[start+2:], "@@")
		if end < 0 {
			break
		}
		marker := text[start : start+2+end+2]
		if !strings.ContainsAny(marker[2:len(marker)-2], " \t\n") && len(marker) > 4 && !seen[marker] {
			seen[marker] = true
			out = append(out, marker)
		}
		text = text[start+2+end+2:]
	}
	return out
}
