package polish

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pbimodel/internal/files/filesystem"
	"github.com/vvka-141/pbimodel/internal/logging"
	"github.com/vvka-141/pbimodel/internal/relationships"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

const canonicalOrders = `table Orders

  column Row_ID
    dataType: int64
    summarizeBy: count
    sourceColumn: Row ID

  column Region
    dataType: string
    sourceColumn: Region

  partition Orders = m
      mode: import
      source =
        let
          Source = Csv.Document(File.Contents("orders.csv"))
        in
        Source

  annotation PBI_ResultType = Table
`

const braceOrders = `table Orders {
  columns {
    column Row_ID {
      dataType: int64
      summarizeBy: count
      sourceColumn: Row ID
    }
    column Region {
      dataType: string
      sourceColumn: Region
    }
  }
  partition Orders = m {
    mode: import
    source =
    let
    Source = Csv.Document(File.Contents("orders.csv"))
    in
    Source
  }
  annotation PBI_ResultType = Table
}
`

const canonicalRelationships = `relationship Orders_Region_People_Region
  fromColumn: Orders.Region
  toColumn: People.Region
`

const canonicalPeople = "table People\n\n  column Region\n    dataType: string\n    sourceColumn: Region\n\n  annotation PBI_ResultType = Table\n"

const cultureText = "cultureInfo en-US\n\n  linguisticMetadata =\n      {\n        \"Version\": \"1.0.0\"\n      }\n    contentType: json\n"

func newDefinition() *filesystem.MemoryFileSystem {
	fs := filesystem.NewMemoryFileSystem("/def")
	fs.AddFile("model.tmdl", "model Model {\n  culture: en-US\n}\n")
	fs.AddFile("database.tmdl", "database\n")
	fs.AddFile("relationships.tmdl", "relationships:\n  relationship Orders_Region_People_Region {\n    fromColumn: Orders.'Region'\n    toColumn: People[Region]\n  }\n")
	fs.AddFile("tables/Orders.tmdl", braceOrders)
	fs.AddFile("tables/People.tmdl", canonicalPeople)
	fs.AddFile("tables/Legacy.tmdl", `{"name": "Legacy"}`)
	fs.AddFile("cultures/en-US.tmdl", cultureText)
	return fs
}

func byPath(r *Report) map[string]FileReport {
	out := map[string]FileReport{}
	for _, f := range r.Files {
		out[f.RelativePath] = f
	}
	return out
}

func read(t *testing.T, fs *filesystem.MemoryFileSystem, p string) string {
	t.Helper()
	b, err := fs.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}

func TestNewService_NilArgs(t *testing.T) {
	assert.Panics(t, func() { NewService(nil, logging.NewNullLogger()) })
	assert.Panics(t, func() { NewService(filesystem.NewMemoryFileSystem("/"), nil) })
}

func TestPolish(t *testing.T) {
	fs := newDefinition()
	svc := NewService(fs, logging.NewNullLogger())

	report, err := svc.Polish(context.Background(), "/def", Options{Policy: relationships.DefaultPolicy()})
	require.NoError(t, err)

	files := byPath(report)
	require.Len(t, files, 7)
	assert.Equal(t, StatusSkipped, files["cultures/en-US.tmdl"].Status)
	assert.Equal(t, cultureText, read(t, fs, "/def/cultures/en-US.tmdl"))
	assert.Equal(t, StatusChanged, files["tables/Orders.tmdl"].Status)
	assert.Equal(t, StatusUnchanged, files["tables/People.tmdl"].Status)
	assert.Equal(t, StatusSkipped, files["tables/Legacy.tmdl"].Status)
	assert.Equal(t, StatusChanged, files["model.tmdl"].Status)
	assert.True(t, files["model.tmdl"].LayoutOnly)
	assert.Equal(t, StatusUnchanged, files["database.tmdl"].Status)
	assert.Equal(t, StatusChanged, files["relationships.tmdl"].Status)

	assert.Equal(t, canonicalOrders, read(t, fs, "/def/tables/Orders.tmdl"))
	assert.Equal(t, "model Model\n  culture: en-US\n", read(t, fs, "/def/model.tmdl"))
	assert.Equal(t, canonicalRelationships, read(t, fs, "/def/relationships.tmdl"))
	assert.Equal(t, `{"name": "Legacy"}`, read(t, fs, "/def/tables/Legacy.tmdl"))
	require.NotNil(t, report.Relationships)
	assert.Len(t, report.Relationships.Relationships, 1)
}

func TestPolish_SecondRunChangesNothing(t *testing.T) {
	fs := newDefinition()
	svc := NewService(fs, logging.NewNullLogger())
	opts := Options{Policy: relationships.DefaultPolicy(), Workers: 2}

	_, err := svc.Polish(context.Background(), "/def", opts)
	require.NoError(t, err)

	report, err := svc.Polish(context.Background(), "/def", opts)
	require.NoError(t, err)
	assert.Zero(t, report.Count(StatusChanged))
}

func TestPolish_CheckWritesNothing(t *testing.T) {
	fs := newDefinition()
	svc := NewService(fs, logging.NewNullLogger())

	report, err := svc.Polish(context.Background(), "/def", Options{Policy: relationships.DefaultPolicy(), Check: true})
	assert.ErrorIs(t, err, ErrUnformatted)
	require.NotNil(t, report)
	assert.Equal(t, 3, report.Count(StatusChanged))
	assert.Equal(t, braceOrders, read(t, fs, "/def/tables/Orders.tmdl"))
}

func TestPolish_CheckPassesWhenCanonical(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/def")
	fs.AddFile("tables/Orders.tmdl", canonicalOrders)
	fs.AddFile("tables/People.tmdl", canonicalPeople)
	fs.AddFile("relationships.tmdl", canonicalRelationships)
	svc := NewService(fs, logging.NewNullLogger())

	_, err := svc.Polish(context.Background(), "/def", Options{Policy: relationships.DefaultPolicy(), Check: true})
	assert.NoError(t, err)
}

func TestPolish_DropsRelationshipsToMissingTables(t *testing.T) {
	fs := newDefinition()
	fs.AddFile("relationships.tmdl", canonicalRelationships+
		"\nrelationship Orders_Order_ID_Returned_Order_ID\n  fromColumn: Orders.Order_ID\n  toColumn: Returned.Order_ID\n"+
		"\nrelationship Orders_Segment_People_Region\n  fromColumn: Orders.Segment\n  toColumn: People.Region\n")
	svc := NewService(fs, logging.NewNullLogger())

	report, err := svc.Polish(context.Background(), "/def", Options{Policy: relationships.DefaultPolicy()})
	require.NoError(t, err)
	assert.Equal(t, canonicalRelationships, read(t, fs, "/def/relationships.tmdl"))
	require.NotNil(t, report.Relationships)
	require.Len(t, report.Relationships.Dropped, 2)
	for _, d := range report.Relationships.Dropped {
		assert.Equal(t, relationships.ReasonDangling, d.Reason)
	}
}

func TestPolish_EmptyRelationshipResultAborts(t *testing.T) {
	fs := newDefinition()
	svc := NewService(fs, logging.NewNullLogger())
	policy := relationships.DefaultPolicy()
	keep, err := relationships.ParsePair("Orders.Product_ID=Products.Product_ID")
	require.NoError(t, err)
	policy.Keep = []relationships.Pair{keep}

	_, err = svc.Polish(context.Background(), "/def", Options{Policy: policy})
	var empty *pbimodel.EmptyResultError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, []string{"Orders.Region=People.Region"}, empty.Detected)
	assert.Equal(t, braceOrders, read(t, fs, "/def/tables/Orders.tmdl"))
}

func TestPolish_CanceledContext(t *testing.T) {
	fs := newDefinition()
	svc := NewService(fs, logging.NewNullLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Polish(ctx, "/def", Options{Policy: relationships.DefaultPolicy()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPolish_MissingDirectory(t *testing.T) {
	svc := NewService(filesystem.NewMemoryFileSystem("/"), logging.NewNullLogger())
	_, err := svc.Polish(context.Background(), "/nope", Options{})
	assert.Error(t, err)
}
