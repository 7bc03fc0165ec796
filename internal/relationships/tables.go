package relationships

import (
	"sort"

	"github.com/vvka-141/pbimodel/internal/ident"
)

// Tables is the set of tables present in a model, with their column names
// when known. Names compare under Unicode case folding.
type Tables struct {
	names   map[string]string          // folded -> as registered
	columns map[string]map[string]bool // folded table -> folded columns
}

// NewTables creates an empty set.
func NewTables() *Tables {
	return &Tables{names: map[string]string{}, columns: map[string]map[string]bool{}}
}

// Add registers a table. A table added without columns accepts any column;
// adding it again with columns narrows it.
func (t *Tables) Add(table string, columns ...string) {
	key := ident.Fold(table)
	if _, ok := t.names[key]; !ok {
		t.names[key] = table
	}
	if len(columns) == 0 {
		return
	}
	set := t.columns[key]
	if set == nil {
		set = make(map[string]bool, len(columns))
		t.columns[key] = set
	}
	for _, c := range columns {
		set[ident.Fold(c)] = true
	}
}

// Has reports whether table is present.
func (t *Tables) Has(table string) bool {
	_, ok := t.names[ident.Fold(table)]
	return ok
}

// HasColumn reports whether table is present and, when its columns are
// known, has column.
func (t *Tables) HasColumn(table, column string) bool {
	key := ident.Fold(table)
	if _, ok := t.names[key]; !ok {
		return false
	}
	set, known := t.columns[key]
	return !known || set[ident.Fold(column)]
}

// Names returns the registered table names, sorted.
func (t *Tables) Names() []string {
	out := make([]string, 0, len(t.names))
	for _, n := range t.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
