package relationships

import (
	"fmt"
	"strings"

	"github.com/vvka-141/pbimodel/internal/ident"
	"github.com/vvka-141/pbimodel/internal/identity"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// Drop records why a relationship was removed.
type Drop struct {
	Relationship pbimodel.RelationshipRecord
	Reason       string
}

const (
	ReasonIncomplete = "incomplete endpoints"
	ReasonDuplicate  = "duplicate pair"
	ReasonNotKept    = "not in keep list"
	ReasonDateTable  = "date table"
	ReasonDangling   = "missing table or column"
)

// Result is the outcome of Normalize.
type Result struct {
	Relationships []pbimodel.RelationshipRecord
	Detected      []string // every distinct normalized pair seen, in input order
	Dropped       []Drop
}

// Normalize canonicalizes endpoints and applies the policy. The output
// order follows the input order of the surviving relationships.
func Normalize(in []pbimodel.RelationshipRecord, policy Policy) (Result, error) {
	var res Result
	seenDetected := make(map[string]bool)
	seenKey := make(map[string]bool)

	keep := make(map[string]bool, len(policy.Keep))
	for _, p := range policy.Keep {
		keep[p.Key()] = true
	}
	prefixes := policy.DateTablePrefixes
	if len(prefixes) == 0 {
		prefixes = pbimodel.DefaultDateTablePrefixes
	}

	for _, r := range in {
		r = NormalizeEndpoints(r)
		if r.FromTable == "" || r.FromColumn == "" || r.ToTable == "" || r.ToColumn == "" {
			res.Dropped = append(res.Dropped, Drop{Relationship: r, Reason: ReasonIncomplete})
			continue
		}
		if pair := r.Pair(); !seenDetected[pair] {
			seenDetected[pair] = true
			res.Detected = append(res.Detected, pair)
		}

		key := r.Key()
		if seenKey[key] {
			res.Dropped = append(res.Dropped, Drop{Relationship: r, Reason: ReasonDuplicate})
			continue
		}
		seenKey[key] = true

		if policy.Tables != nil && (!policy.Tables.HasColumn(r.FromTable, r.FromColumn) || !policy.Tables.HasColumn(r.ToTable, r.ToColumn)) {
			res.Dropped = append(res.Dropped, Drop{Relationship: r, Reason: ReasonDangling})
			continue
		}
		if len(keep) > 0 && !keep[key] {
			res.Dropped = append(res.Dropped, Drop{Relationship: r, Reason: ReasonNotKept})
			continue
		}
		if policy.DropDateTables && (IsDateTable(r.FromTable, prefixes) || IsDateTable(r.ToTable, prefixes)) {
			res.Dropped = append(res.Dropped, Drop{Relationship: r, Reason: ReasonDateTable})
			continue
		}

		if policy.CrossFilter == CrossFilterForce {
			r.CrossFilteringBehavior = policy.CrossFilterValue
			if r.CrossFilteringBehavior == "" {
				r.CrossFilteringBehavior = pbimodel.DefaultCrossFilterValue
			}
		}
		if r.Name == "" {
			r.Name = Name(r, policy.Naming)
		}
		res.Relationships = append(res.Relationships, r)
	}

	if len(in) > 0 && len(res.Relationships) == 0 {
		return res, &pbimodel.EmptyResultError{Detected: res.Detected}
	}
	return res, nil
}

// NormalizeEndpoints rewrites both endpoints to canonical Table.Column parts.
// A bracketed column ("People[Region]") overrides the table field; an empty
// table field is filled from a dotted column.
func NormalizeEndpoints(r pbimodel.RelationshipRecord) pbimodel.RelationshipRecord {
	from := ident.NormalizeParts(r.FromTable, r.FromColumn)
	to := ident.NormalizeParts(r.ToTable, r.ToColumn)
	r.FromTable, r.FromColumn = from.Table, from.Column
	r.ToTable, r.ToColumn = to.Table, to.Column
	r.Name = strings.TrimSpace(r.Name)
	r.CrossFilteringBehavior = strings.TrimSpace(r.CrossFilteringBehavior)
	return r
}

// IsDateTable reports whether table starts with one of the auto-generated
// date table prefixes, ignoring case.
func IsDateTable(table string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && ident.HasPrefixFold(table, p) {
			return true
		}
	}
	return false
}

// Name generates a relationship name.
func Name(r pbimodel.RelationshipRecord, naming Naming) string {
	if naming == NamingGUID {
		return identity.RelationshipID(r.Key()).String()
	}
	parts := []string{r.FromTable, r.FromColumn, r.ToTable, r.ToColumn}
	for i, p := range parts {
		parts[i] = strings.Join(strings.Fields(p), "_")
	}
	return strings.Join(parts, "_")
}

// FromTriples converts extracted joins into unnamed relationship records.
func FromTriples(triples []pbimodel.RelationshipTriple) []pbimodel.RelationshipRecord {
	out := make([]pbimodel.RelationshipRecord, 0, len(triples))
	for _, t := range triples {
		out = append(out, pbimodel.RelationshipRecord{
			FromTable: t.LeftTable, FromColumn: t.LeftColumn,
			ToTable: t.RightTable, ToColumn: t.RightColumn,
		})
	}
	return out
}

// Diagnostic renders the lines printed when a filter removes everything.
func Diagnostic(err *pbimodel.EmptyResultError) []string {
	lines := []string{err.Error() + "; relationships detected:"}
	for _, p := range err.Detected {
		lines = append(lines, fmt.Sprintf("  %s", p))
	}
	if len(err.Detected) == 0 {
		lines = append(lines, "  (none)")
	}
	return lines
}
