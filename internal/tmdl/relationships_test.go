package tmdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

func TestParseRelationships(t *testing.T) {
	in := `relationships {
  relationship r1 {
    fromColumn: Orders.'Region (People)'
    toColumn: People[Region]
    crossFilteringBehavior: bothDirections
    isActive: false
  }
  relationship 'r 2' {
    fromTable: Orders
    fromColumn: Product_ID
    toColumn: Products.Product_ID
  }
  relationship broken {
    fromColumn: Orders.x
  }
}
`
	doc := ParseRelationships(in)
	require.Len(t, doc.Relationships, 2)

	assert.Equal(t, pbimodel.RelationshipRecord{
		Name: "r1", FromTable: "Orders", FromColumn: "Region (People)",
		ToTable: "People", ToColumn: "Region", CrossFilteringBehavior: "bothDirections",
	}, doc.Relationships[0])
	assert.Equal(t, "r 2", doc.Relationships[1].Name)
	assert.Equal(t, "Orders.Product_ID", doc.Relationships[1].From())
}

func TestRenderRelationships(t *testing.T) {
	doc := pbimodel.RelationshipsDocument{Relationships: []pbimodel.RelationshipRecord{
		{Name: "a", FromTable: "Orders", FromColumn: "Order Date", ToTable: "Calendar", ToColumn: "Date", CrossFilteringBehavior: "oneDirection"},
		{Name: "4d2f-9a", FromTable: "A", FromColumn: "x", ToTable: "B", ToColumn: "y"},
	}}
	want := `relationship a
  fromColumn: Orders.'Order Date'
  toColumn: Calendar.Date
  crossFilteringBehavior: oneDirection

relationship 4d2f-9a
  fromColumn: A.x
  toColumn: B.y
`
	got := RenderRelationships(doc, NewIndent("  "))
	assert.Equal(t, want, got)
	assert.Equal(t, doc, ParseRelationships(got))
	assert.Equal(t, got, Normalize(got))
}

func TestRenderRelationships_Empty(t *testing.T) {
	assert.Equal(t, "", RenderRelationships(pbimodel.RelationshipsDocument{}, NewIndent("  ")))
}
