package pbimodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

func TestParseDataType(t *testing.T) {
	tests := []struct {
		in    string
		want  pbimodel.DataType
		known bool
	}{
		{"int", pbimodel.DataTypeInt64, true},
		{"Integer", pbimodel.DataTypeInt64, true},
		{"long", pbimodel.DataTypeInt64, true},
		{"int64", pbimodel.DataTypeInt64, true},
		{"float", pbimodel.DataTypeDouble, true},
		{"REAL", pbimodel.DataTypeDouble, true},
		{"decimal", pbimodel.DataTypeDouble, true},
		{"date", pbimodel.DataTypeDateTime, true},
		{"timestamp", pbimodel.DataTypeDateTime, true},
		{"dateTime", pbimodel.DataTypeDateTime, true},
		{"string", pbimodel.DataTypeString, true},
		{"geography", pbimodel.DataTypeString, false},
		{"", pbimodel.DataTypeString, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, known := pbimodel.ParseDataType(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestNewColumnRecord_Defaults(t *testing.T) {
	c := pbimodel.NewColumnRecord(" Region ", "", "none", "")
	assert.Equal(t, "Region", c.Name)
	assert.Equal(t, pbimodel.DataTypeString, c.DataType)
	assert.Empty(t, c.SummarizeBy)
	assert.Equal(t, "Region", c.SourceColumn)

	c = pbimodel.NewColumnRecord("Sales", pbimodel.DataTypeDouble, "sum", "Sales Amount")
	assert.Equal(t, "sum", c.SummarizeBy)
	assert.Equal(t, "Sales Amount", c.SourceColumn)
}

func TestRelationshipRecord_KeyIsUnordered(t *testing.T) {
	a := pbimodel.RelationshipRecord{FromTable: "Orders", FromColumn: "Region", ToTable: "People", ToColumn: "Region"}
	b := pbimodel.RelationshipRecord{FromTable: "People", FromColumn: "Region", ToTable: "Orders", ToColumn: "Region"}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Pair(), b.Pair())
	assert.Equal(t, "Orders.Region=People.Region", a.Pair())
}
