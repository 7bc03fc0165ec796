package relationships

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pbimodel/internal/ident"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

func rel(from, to string) pbimodel.RelationshipRecord {
	f := ident.Normalize(from, "")
	t := ident.Normalize(to, "")
	return pbimodel.RelationshipRecord{FromTable: f.Table, FromColumn: f.Column, ToTable: t.Table, ToColumn: t.Column}
}

func TestNormalize_DefaultsKeepEverything(t *testing.T) {
	in := []pbimodel.RelationshipRecord{
		rel("Orders.Region", "People.Region"),
		rel("Orders.Product_ID", "Products.Product_ID"),
	}
	res, err := Normalize(in, DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, res.Relationships, 2)
	assert.Equal(t, "Orders_Region_People_Region", res.Relationships[0].Name)
	assert.Empty(t, res.Relationships[0].CrossFilteringBehavior)
	assert.Empty(t, res.Dropped)
}

func TestNormalize_EndpointShapes(t *testing.T) {
	in := []pbimodel.RelationshipRecord{
		{FromTable: "Orders", FromColumn: "Region (Orders)", ToColumn: "People[Region]"},
		{FromColumn: "'Orders'.'Order Date'", ToTable: "Calendar", ToColumn: "Date"},
	}
	res, err := Normalize(in, DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, res.Relationships, 2)
	assert.Equal(t, "Orders.Region=People.Region", res.Relationships[0].Pair())
	assert.Equal(t, "Orders.Order Date=Calendar.Date", res.Relationships[1].Pair())
	assert.Equal(t, "Orders_Order_Date_Calendar_Date", res.Relationships[1].Name)
}

func TestNormalize_DedupUnordered(t *testing.T) {
	first := rel("Orders.Region", "People.Region")
	first.Name = "keep_me"
	in := []pbimodel.RelationshipRecord{first, rel("People.Region", "Orders.Region"), rel("Orders.Region", "People.Region")}

	res, err := Normalize(in, DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, res.Relationships, 1)
	assert.Equal(t, "keep_me", res.Relationships[0].Name)
	assert.Len(t, res.Dropped, 2)
	assert.Equal(t, ReasonDuplicate, res.Dropped[0].Reason)
	assert.Equal(t, []string{"Orders.Region=People.Region", "People.Region=Orders.Region"}, res.Detected)
}

func TestNormalize_KeepListIsSymmetric(t *testing.T) {
	keep, errs := ParseKeepList("People.Region=Orders.Region")
	require.Empty(t, errs)

	policy := DefaultPolicy()
	policy.Keep = keep
	in := []pbimodel.RelationshipRecord{
		rel("Orders.Region", "People.Region"),
		rel("Orders.Product_ID", "Products.Product_ID"),
	}
	res, err := Normalize(in, policy)
	require.NoError(t, err)
	require.Len(t, res.Relationships, 1)
	assert.Equal(t, "Orders.Region=People.Region", res.Relationships[0].Pair())
	assert.Equal(t, ReasonNotKept, res.Dropped[0].Reason)
}

func TestNormalize_DropDateTables(t *testing.T) {
	policy := DefaultPolicy()
	policy.DropDateTables = true
	in := []pbimodel.RelationshipRecord{
		rel("Orders.Order Date", "LocalDateTable_1234.Date"),
		rel("localdatetable_x.Date", "Orders.Ship Date"),
		rel("DateTableTemplate_abc.Date", "Orders.Date"),
		rel("Orders.Region", "People.Region"),
	}
	res, err := Normalize(in, policy)
	require.NoError(t, err)
	require.Len(t, res.Relationships, 1)
	assert.Equal(t, "Orders.Region=People.Region", res.Relationships[0].Pair())
	for _, d := range res.Dropped {
		assert.Equal(t, ReasonDateTable, d.Reason)
	}
}

func TestNormalize_DropsDanglingEndpoints(t *testing.T) {
	tables := NewTables()
	tables.Add("Orders", "Region", "Product_ID")
	tables.Add("People", "Region")
	tables.Add("Products") // columns unknown

	policy := DefaultPolicy()
	policy.Tables = tables
	in := []pbimodel.RelationshipRecord{
		rel("Orders.Region", "People.Region"),
		rel("Orders.Order_ID", "Returned.Order_ID"),
		rel("orders.product_id", "Products.Product_ID"),
		rel("Orders.Customer", "People.Region"),
	}
	res, err := Normalize(in, policy)
	require.NoError(t, err)
	require.Len(t, res.Relationships, 2)
	assert.Equal(t, "Orders.Region=People.Region", res.Relationships[0].Pair())
	assert.Equal(t, "orders.product_id=Products.Product_ID", res.Relationships[1].Pair())

	require.Len(t, res.Dropped, 2)
	for _, d := range res.Dropped {
		assert.Equal(t, ReasonDangling, d.Reason)
	}
	assert.Len(t, res.Detected, 4)
}

func TestNormalize_AllDanglingIsEmptyResult(t *testing.T) {
	policy := DefaultPolicy()
	policy.Tables = NewTables()
	policy.Tables.Add("People")

	_, err := Normalize([]pbimodel.RelationshipRecord{rel("Orders.Region", "People.Region")}, policy)
	var empty *pbimodel.EmptyResultError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, []string{"Orders.Region=People.Region"}, empty.Detected)
}

func TestTables(t *testing.T) {
	tables := NewTables()
	tables.Add("Orders")
	tables.Add("People", "Region")
	tables.Add("people", "Name")

	assert.True(t, tables.Has("ORDERS"))
	assert.False(t, tables.Has("Returned"))
	assert.True(t, tables.HasColumn("Orders", "anything"))
	assert.True(t, tables.HasColumn("People", "region"))
	assert.True(t, tables.HasColumn("People", "Name"))
	assert.False(t, tables.HasColumn("People", "Segment"))
	assert.False(t, tables.HasColumn("Returned", "Order_ID"))
	assert.Equal(t, []string{"Orders", "People"}, tables.Names())
}

func TestNormalize_CrossFilter(t *testing.T) {
	r := rel("A.x", "B.y")
	r.CrossFilteringBehavior = "bothDirections"

	res, err := Normalize([]pbimodel.RelationshipRecord{r}, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "bothDirections", res.Relationships[0].CrossFilteringBehavior)

	policy := DefaultPolicy()
	policy.CrossFilter = CrossFilterForce
	res, err = Normalize([]pbimodel.RelationshipRecord{r}, policy)
	require.NoError(t, err)
	assert.Equal(t, "oneDirection", res.Relationships[0].CrossFilteringBehavior)
}

func TestNormalize_EmptyResult(t *testing.T) {
	policy := DefaultPolicy()
	policy.Keep = []Pair{{From: ident.Ref{Table: "X", Column: "a"}, To: ident.Ref{Table: "Y", Column: "b"}}}
	in := []pbimodel.RelationshipRecord{
		rel("Orders.Region", "People.Region"),
		rel("Orders.Product_ID", "Products.Product_ID"),
	}

	_, err := Normalize(in, policy)
	require.Error(t, err)
	assert.ErrorIs(t, err, pbimodel.ErrEmptyResult)

	var empty *pbimodel.EmptyResultError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, []string{"Orders.Region=People.Region", "Orders.Product_ID=Products.Product_ID"}, empty.Detected)

	lines := Diagnostic(empty)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Orders.Region=People.Region")
}

func TestNormalize_EmptyInputIsNotAnError(t *testing.T) {
	res, err := Normalize(nil, DefaultPolicy())
	require.NoError(t, err)
	assert.Empty(t, res.Relationships)
}

func TestNormalize_Idempotent(t *testing.T) {
	policy := DefaultPolicy()
	policy.DropDateTables = true
	policy.CrossFilter = CrossFilterForce
	policy.Naming = NamingGUID

	in := []pbimodel.RelationshipRecord{
		rel("Orders.Region", "People[Region]"),
		rel("People.Region", "Orders.Region"),
		{FromTable: "Orders", FromColumn: "Ship.Mode", ToTable: "Modes", ToColumn: "Ship.Mode"},
		rel("Orders.Order Date", "LocalDateTable_1.Date"),
	}
	once, err := Normalize(in, policy)
	require.NoError(t, err)
	twice, err := Normalize(once.Relationships, policy)
	require.NoError(t, err)
	assert.Equal(t, once.Relationships, twice.Relationships)
}

func TestName(t *testing.T) {
	r := rel("Orders.Order Date", "Calendar.Date")
	assert.Equal(t, "Orders_Order_Date_Calendar_Date", Name(r, NamingDescriptive))

	guid := Name(r, NamingGUID)
	assert.Len(t, guid, 36)
	reversed := rel("Calendar.Date", "Orders.Order Date")
	assert.Equal(t, guid, Name(reversed, NamingGUID))
}

func TestParseKeepList(t *testing.T) {
	pairs, errs := ParseKeepList(" Orders.Region = People[Region] , ,bad, A.x=")
	require.Len(t, pairs, 1)
	assert.Equal(t, "Orders.Region=People.Region", pairs[0].String())
	assert.Len(t, errs, 2)
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())
	p := DefaultPolicy()
	p.CrossFilter = "sometimes"
	assert.ErrorIs(t, p.Validate(), pbimodel.ErrInvalidConfig)
	p = DefaultPolicy()
	p.Naming = "random"
	assert.ErrorIs(t, p.Validate(), pbimodel.ErrInvalidConfig)
}

func TestFromTriples(t *testing.T) {
	out := FromTriples([]pbimodel.RelationshipTriple{{LeftTable: "A", LeftColumn: "x", RightTable: "B", RightColumn: "y"}})
	require.Len(t, out, 1)
	assert.Equal(t, "A.x=B.y", out[0].Pair())
}
