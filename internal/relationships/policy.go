package relationships

import (
	"fmt"
	"strings"

	"github.com/vvka-141/pbimodel/internal/ident"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// CrossFilterMode decides what happens to crossFilteringBehavior.
type CrossFilterMode string

const (
	// CrossFilterPreserve keeps whatever value each relationship carries.
	CrossFilterPreserve CrossFilterMode = "preserve"
	// CrossFilterForce sets every relationship to one value.
	CrossFilterForce CrossFilterMode = "force"
)

// Naming decides how relationships without a name are named.
type Naming string

const (
	NamingDescriptive Naming = "descriptive"
	NamingGUID        Naming = "guid"
)

// Policy configures Normalize.
type Policy struct {
	Keep              []Pair
	DropDateTables    bool
	DateTablePrefixes []string
	CrossFilter       CrossFilterMode
	CrossFilterValue  string
	Naming            Naming

	// Tables restricts endpoints to tables and columns present in the
	// model. Nil accepts every endpoint.
	Tables *Tables
}

// DefaultPolicy keeps every relationship, drops nothing and preserves
// cross-filter values.
func DefaultPolicy() Policy {
	return Policy{
		DateTablePrefixes: append([]string(nil), pbimodel.DefaultDateTablePrefixes...),
		CrossFilter:       CrossFilterPreserve,
		CrossFilterValue:  pbimodel.DefaultCrossFilterValue,
		Naming:            NamingDescriptive,
	}
}

// Validate checks the enumerated policy fields.
func (p Policy) Validate() error {
	switch p.CrossFilter {
	case "", CrossFilterPreserve, CrossFilterForce:
	default:
		return fmt.Errorf("%w: cross filter mode %q (expected preserve or force)", pbimodel.ErrInvalidConfig, p.CrossFilter)
	}
	switch p.Naming {
	case "", NamingDescriptive, NamingGUID:
	default:
		return fmt.Errorf("%w: relationship naming %q (expected descriptive or guid)", pbimodel.ErrInvalidConfig, p.Naming)
	}
	return nil
}

// Pair is an unordered pair of endpoints used by the keep-list.
type Pair struct {
	From ident.Ref
	To   ident.Ref
}

// Key returns the unordered identity shared with RelationshipRecord.Key.
func (p Pair) Key() string {
	return pbimodel.RelationshipRecord{
		FromTable: p.From.Table, FromColumn: p.From.Column,
		ToTable: p.To.Table, ToColumn: p.To.Column,
	}.Key()
}

func (p Pair) String() string {
	return p.From.String() + "=" + p.To.String()
}

// ParseKeepList parses "A.x=B.y,C.z=D.w". Entries that do not name two
// complete endpoints are returned as errors alongside the valid pairs.
func ParseKeepList(s string) ([]Pair, []error) {
	var pairs []Pair
	var errs []error
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		p, err := ParsePair(entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs, errs
}

// ParsePair parses one "A.x=B.y" entry.
func ParsePair(entry string) (Pair, error) {
	left, right, ok := strings.Cut(entry, "=")
	if !ok {
		return Pair{}, fmt.Errorf("keep entry %q: expected Table.Column=Table.Column", entry)
	}
	p := Pair{From: ident.Normalize(left, ""), To: ident.Normalize(right, "")}
	if p.From.Table == "" || p.From.Column == "" || p.To.Table == "" || p.To.Column == "" {
		return Pair{}, fmt.Errorf("keep entry %q: both sides need a table and a column", entry)
	}
	return p, nil
}
