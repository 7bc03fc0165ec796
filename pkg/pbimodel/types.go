package pbimodel

import (
	"strings"
)

// DataType is the column data type written to a table document.
type DataType string

const (
	DataTypeInt64    DataType = "int64"
	DataTypeDouble   DataType = "double"
	DataTypeDateTime DataType = "dateTime"
	DataTypeString   DataType = "string"
)

// ParseDataType canonicalizes a type alias. Unrecognized input maps to
// DataTypeString; the second return value reports whether the alias was known.
func ParseDataType(s string) (DataType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int64", "int", "integer", "long":
		return DataTypeInt64, true
	case "double", "float", "real", "decimal":
		return DataTypeDouble, true
	case "datetime", "date", "timestamp":
		return DataTypeDateTime, true
	case "string", "str", "text":
		return DataTypeString, true
	}
	return DataTypeString, false
}

// Property is a name/value line under a column that carries no special meaning
// to this tool (formatString, lineageTag, ...). Kept in input order.
type Property struct {
	Name  string
	Value string
}

// ColumnRecord is one column of a table.
type ColumnRecord struct {
	Name         string
	DataType     DataType
	SummarizeBy  string // empty when absent or "none"
	SourceColumn string // defaults to Name
	Properties   []Property
}

// NewColumnRecord builds a column record applying the defaulting rules:
// summarizeBy "none"/"default" is dropped and sourceColumn falls back to name.
func NewColumnRecord(name string, dataType DataType, summarizeBy, sourceColumn string) ColumnRecord {
	name = strings.TrimSpace(name)
	summarizeBy = strings.TrimSpace(summarizeBy)
	switch strings.ToLower(summarizeBy) {
	case "none", "default":
		summarizeBy = ""
	}
	sourceColumn = strings.TrimSpace(sourceColumn)
	if sourceColumn == "" {
		sourceColumn = name
	}
	if dataType == "" {
		dataType = DataTypeString
	}
	return ColumnRecord{
		Name:         name,
		DataType:     dataType,
		SummarizeBy:  summarizeBy,
		SourceColumn: sourceColumn,
	}
}

// PartitionBlock is the query definition attached to a table.
//
// When the query has a let/in pair, Body holds the lines between the markers
// and Result the lines after "in". Otherwise Opaque holds the whole trimmed
// query and Body/Result are empty.
type PartitionBlock struct {
	TableName string
	Mode      string
	Body      []string
	Result    []string
	Opaque    []string
}

// IsOpaque reports whether the partition carries an unstructured query.
func (p PartitionBlock) IsOpaque() bool {
	return len(p.Opaque) > 0
}

// RelationshipRecord is one join between two table columns.
type RelationshipRecord struct {
	Name                   string
	FromTable              string
	FromColumn             string
	ToTable                string
	ToColumn               string
	CrossFilteringBehavior string
}

// From returns the "from" endpoint in Table.Column form.
func (r RelationshipRecord) From() string { return r.FromTable + "." + r.FromColumn }

// To returns the "to" endpoint in Table.Column form.
func (r RelationshipRecord) To() string { return r.ToTable + "." + r.ToColumn }

// Pair returns the directed pair "From=To".
func (r RelationshipRecord) Pair() string { return r.From() + "=" + r.To() }

// Key returns the unordered identity of the relationship: the two endpoints
// sorted so that A.x=B.y and B.y=A.x share one key.
func (r RelationshipRecord) Key() string {
	a, b := r.From(), r.To()
	if b < a {
		a, b = b, a
	}
	return a + "=" + b
}

// TableDocument is one table file. Column order is rendering order.
type TableDocument struct {
	Name        string
	Properties  []string // member-level property lines under the header (e.g. lineageTag: ...)
	Columns     []ColumnRecord
	Members     [][]string // other member blocks (measures, hierarchies), verbatim and de-indented
	Partition   *PartitionBlock
	Annotations []string // annotation lines without indentation; the table marker is ensured on render
}

// Column returns the column with the given name.
func (d *TableDocument) Column(name string) (ColumnRecord, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnRecord{}, false
}

// RelationshipsDocument is the flat list of relationships of a model.
type RelationshipsDocument struct {
	Relationships []RelationshipRecord
}

// MetadataRecord is one column record from the upstream source description.
type MetadataRecord struct {
	RemoteName  string
	LocalName   string
	ParentTable string
	Type        string
	Aggregation string
	Precision   string
	Width       string
	Nullable    string
	Ordinal     string
}

// RelationshipTriple is a join extracted from the source description with
// endpoints already resolved to table captions.
type RelationshipTriple struct {
	LeftTable   string
	LeftColumn  string
	RightTable  string
	RightColumn string
}

// Touches reports whether either side of the triple is the given table.
func (t RelationshipTriple) Touches(table string) bool {
	return t.LeftTable == table || t.RightTable == table
}
