package tableau

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

// Connection is the first named connection of the datasource.
type Connection struct {
	Server         string
	DBName         string
	Class          string
	Authentication string
}

// Relation is a physical table reference.
type Relation struct {
	Name       string
	Table      string
	Connection string
	Type       string
}

// Object is a logical table of the object graph.
type Object struct {
	ID      string
	Caption string
}

// Relationship is an object-graph join before caption resolution.
// Left and Right are the column operands, e.g. "[Region]".
type Relationship struct {
	Left          string
	Right         string
	LeftObjectID  string
	RightObjectID string
}

// Datasource is everything extracted from one description.
type Datasource struct {
	Connection    Connection
	Relations     []Relation
	Metadata      []pbimodel.MetadataRecord
	Objects       []Object
	Relationships []Relationship
}

type xmlMetadataRecord struct {
	Class        string `xml:"class,attr"`
	RemoteName   string `xml:"remote-name"`
	LocalName    string `xml:"local-name"`
	ParentName   string `xml:"parent-name"`
	LocalType    string `xml:"local-type"`
	Aggregation  string `xml:"aggregation"`
	Precision    string `xml:"precision"`
	Width        string `xml:"width"`
	ContainsNull string `xml:"contains-null"`
	Ordinal      string `xml:"ordinal"`
}

type xmlExpression struct {
	Op       string          `xml:"op,attr"`
	Children []xmlExpression `xml:"expression"`
}

type xmlEndPoint struct {
	ObjectID string `xml:"object-id,attr"`
}

type xmlRelationship struct {
	Expressions []xmlExpression `xml:"expression"`
	First       *xmlEndPoint    `xml:"first-end-point"`
	Second      *xmlEndPoint    `xml:"second-end-point"`
}

// ParseFile reads and parses the description at path.
func ParseFile(path string) (*Datasource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open datasource: %w", err)
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Parse reads a datasource description. Relations are collected at any
// nesting depth; metadata records only under metadata-records.
func Parse(r io.Reader) (*Datasource, error) {
	dec := xml.NewDecoder(r)
	ds := &Datasource{}
	var stack []string
	haveConnection := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid datasource XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			parent := last(stack, 1)

			switch {
			case name == "connection" && parent == "named-connection" && last(stack, 2) == "named-connections":
				if !haveConnection {
					ds.Connection = Connection{
						Server:         attr(t, "server"),
						DBName:         attr(t, "dbname"),
						Class:          attr(t, "class"),
						Authentication: attr(t, "authentication"),
					}
					haveConnection = true
				}
			case name == "relation" && attr(t, "type") == "table":
				ds.Relations = append(ds.Relations, Relation{
					Name:       attr(t, "name"),
					Table:      attr(t, "table"),
					Connection: attr(t, "connection"),
					Type:       attr(t, "type"),
				})
			case name == "metadata-record" && parent == "metadata-records":
				var rec xmlMetadataRecord
				if err := dec.DecodeElement(&rec, &t); err != nil {
					return nil, fmt.Errorf("invalid metadata record: %w", err)
				}
				if rec.Class == "column" {
					ds.Metadata = append(ds.Metadata, metadataRecord(rec))
				}
				continue
			case name == "object" && parent == "objects" && last(stack, 2) == "object-graph":
				ds.Objects = append(ds.Objects, Object{ID: attr(t, "id"), Caption: attr(t, "caption")})
			case name == "relationship" && parent == "relationships" && last(stack, 2) == "object-graph":
				var rel xmlRelationship
				if err := dec.DecodeElement(&rel, &t); err != nil {
					return nil, fmt.Errorf("invalid relationship: %w", err)
				}
				if r, ok := relationship(rel); ok {
					ds.Relationships = append(ds.Relationships, r)
				}
				continue
			}
			stack = append(stack, name)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return ds, nil
}

func last(stack []string, n int) string {
	if len(stack) < n {
		return ""
	}
	return stack[len(stack)-n]
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func metadataRecord(rec xmlMetadataRecord) pbimodel.MetadataRecord {
	return pbimodel.MetadataRecord{
		RemoteName:  strings.TrimSpace(rec.RemoteName),
		LocalName:   strings.TrimSpace(rec.LocalName),
		ParentTable: stripBrackets(rec.ParentName),
		Type:        strings.TrimSpace(rec.LocalType),
		Aggregation: strings.TrimSpace(rec.Aggregation),
		Precision:   strings.TrimSpace(rec.Precision),
		Width:       strings.TrimSpace(rec.Width),
		Nullable:    strings.TrimSpace(rec.ContainsNull),
		Ordinal:     strings.TrimSpace(rec.Ordinal),
	}
}

// relationship takes the first "=" expression with exactly two operands.
func relationship(rel xmlRelationship) (Relationship, bool) {
	for _, e := range rel.Expressions {
		if e.Op != "=" {
			continue
		}
		if len(e.Children) != 2 {
			return Relationship{}, false
		}
		r := Relationship{Left: e.Children[0].Op, Right: e.Children[1].Op}
		if rel.First != nil {
			r.LeftObjectID = rel.First.ObjectID
		}
		if rel.Second != nil {
			r.RightObjectID = rel.Second.ObjectID
		}
		return r, true
	}
	return Relationship{}, false
}

func stripBrackets(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "[]"))
}

// Triples resolves object-graph relationships to table captions.
// Relationships whose endpoints name an unknown object are skipped.
func (d *Datasource) Triples() []pbimodel.RelationshipTriple {
	captions := make(map[string]string, len(d.Objects))
	for _, o := range d.Objects {
		if o.ID != "" && o.Caption != "" {
			captions[o.ID] = o.Caption
		}
	}

	var out []pbimodel.RelationshipTriple
	for _, r := range d.Relationships {
		left, okL := captions[r.LeftObjectID]
		right, okR := captions[r.RightObjectID]
		if !okL || !okR {
			continue
		}
		out = append(out, pbimodel.RelationshipTriple{
			LeftTable:   left,
			LeftColumn:  stripBrackets(r.Left),
			RightTable:  right,
			RightColumn: stripBrackets(r.Right),
		})
	}
	return out
}

// TableContext is the part of a datasource relevant to one table.
type TableContext struct {
	Table         string
	Connection    Connection
	Metadata      []pbimodel.MetadataRecord
	Relationships []pbimodel.RelationshipTriple
}

// Narrow keeps the metadata records of table and the relationships touching it.
func (d *Datasource) Narrow(table string) TableContext {
	ctx := TableContext{
		Table: table,
		Connection: Connection{
			Server: d.Connection.Server,
			DBName: d.Connection.DBName,
			Class:  d.Connection.Class,
		},
	}
	for _, m := range d.Metadata {
		if m.ParentTable == table {
			ctx.Metadata = append(ctx.Metadata, m)
		}
	}
	for _, t := range d.Triples() {
		if t.Touches(table) {
			ctx.Relationships = append(ctx.Relationships, t)
		}
	}
	return ctx
}

// RequiredColumns returns the local column names of the context without
// brackets, unique, sorted case-insensitively.
func (c TableContext) RequiredColumns() []string {
	return RequiredColumns(c.Metadata)
}

// RequiredColumns returns the unique bracket-stripped local names of records,
// sorted case-insensitively.
func RequiredColumns(records []pbimodel.MetadataRecord) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range records {
		name := stripBrackets(r.LocalName)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.SliceStable(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i]), strings.ToLower(out[j])
		if li != lj {
			return li < lj
		}
		return out[i] < out[j]
	})
	return out
}

var (
	qualifiedRe = regexp.MustCompile(`\[([^\]]+)\]\.\[([^\]]+)\]`)
	tableAttrRe = regexp.MustCompile(`(?i)table\s*=\s*"([^"]+)"`)
)

// DiscoverTables finds table names in the raw description text: the second
// part of every [schema].[Table] pair and every table="..." attribute.
// The result is sorted and unique.
func DiscoverTables(raw []byte) []string {
	text := string(raw)
	set := map[string]bool{}
	for _, m := range qualifiedRe.FindAllStringSubmatch(text, -1) {
		set[m[2]] = true
	}
	for _, m := range tableAttrRe.FindAllStringSubmatch(text, -1) {
		v := m[1]
		if strings.HasPrefix(v, "[") && strings.Contains(v, "].[") {
			if q := qualifiedRe.FindStringSubmatch(v); q != nil {
				set[q[2]] = true
			}
			continue
		}
		set[v] = true
	}

	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HasTable reports whether the datasource knows table by object caption,
// relation name or metadata parent.
func (d *Datasource) HasTable(table string) bool {
	for _, o := range d.Objects {
		if o.Caption == table {
			return true
		}
	}
	for _, r := range d.Relations {
		if r.Name == table {
			return true
		}
	}
	for _, m := range d.Metadata {
		if m.ParentTable == table {
			return true
		}
	}
	return false
}

// Lookup narrows to table, failing with ErrTableNotFound when the
// datasource does not describe it.
func (d *Datasource) Lookup(table string) (TableContext, error) {
	if !d.HasTable(table) {
		return TableContext{}, fmt.Errorf("%w: %s", pbimodel.ErrTableNotFound, table)
	}
	return d.Narrow(table), nil
}
