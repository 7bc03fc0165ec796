package tmdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		kind    LineKind
		keyword string
		objName string
	}{
		{"blank", "   ", KindBlank, "", ""},
		{"open brace", "  {", KindBrace, "", ""},
		{"close brace", "}", KindBrace, "", ""},
		{"table opener", "table Orders {", KindBlockOpener, "table", "Orders"},
		{"quoted opener", "  column 'Order Date' {", KindBlockOpener, "column", "'Order Date'"},
		{"partition opener", "partition Orders = m {", KindBlockOpener, "partition", "Orders = m"},
		{"model opener", "model {", KindBlockOpener, "model", ""},
		{"container brace", "  columns {", KindContainer, "columns", ""},
		{"container label", "  partitions:", KindContainer, "partitions", ""},
		{"header", "  column Region", KindObjectHeader, "column", "Region"},
		{"property", "    dataType: int64", KindPlain, "", ""},
		{"m code with brace", `    Custom = Table.AddColumn(Source, "x", each {`, KindPlain, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Classify(tt.line)
			assert.Equal(t, tt.kind, l.Kind)
			assert.Equal(t, tt.keyword, l.Keyword)
			assert.Equal(t, tt.objName, l.Name)
		})
	}
}

func TestDetectStyle(t *testing.T) {
	assert.Equal(t, StyleBrace, DetectStyle("table A {\n  column x {\n  }\n}\n"))
	assert.Equal(t, StyleLabel, DetectStyle("table A\n  columns:\n    column x\n"))
	assert.Equal(t, StyleUnknown, DetectStyle("hello\nworld\n"))
}

func TestNormalize_BraceToLabel(t *testing.T) {
	in := `table Orders {
  columns {
    column Region {
      dataType: string
    }
  }
}
`
	want := `table Orders
  columns:
    column Region
      dataType: string
`
	assert.Equal(t, want, Normalize(in))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"table Orders {\n  column A {\n    dataType: int64\n  }\n}\n",
		"relationship r1\n  fromColumn: A.x\n  toColumn: B.y\n\n\n\n\nrelationship r2\n",
		"\n\n  model Model {\n    culture: en-US\n  }\n\n",
		"",
		"plain text only",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_BlankLines(t *testing.T) {
	assert.Equal(t, "a\n\nb\n", Normalize("a\n\n\n\nb"))
	assert.Equal(t, "a\n\nb\n", Normalize("a\n\n\nb"))
	assert.Equal(t, "a\n\nb\n", Normalize("a\n\nb"))
	assert.Equal(t, "a\n\nb\n", Normalize("a {\n\n}\n\nb"))
	assert.Equal(t, "a\n", Normalize("\n\n  \na   \n\n"))
	assert.Equal(t, "", Normalize("\n\n"))
}

func TestNormalize_LabelInputUnchanged(t *testing.T) {
	in := "table Orders\n  column Region\n    dataType: string\n"
	assert.Equal(t, in, Normalize(in))
}

func TestIndent(t *testing.T) {
	in := NewIndent("")
	assert.Equal(t, "  ", in.Unit)
	assert.Equal(t, "    x", in.Line(2, "  x  "))
	assert.Equal(t, "", in.Line(3, "   "))
	assert.Equal(t, 2, in.Depth("    x"))
	assert.Equal(t, 1, in.Depth("\tx"))
	assert.Equal(t, 2, in.Depth("\t  x"))

	tab := NewIndent("\t")
	assert.Equal(t, "\t\tx", tab.Line(2, "x"))
	assert.Equal(t, 1, tab.Depth("\tx"))
	assert.Equal(t, 1, tab.Depth("    x"))
}

func TestIsJSONLike(t *testing.T) {
	assert.True(t, IsJSONLike([]byte("  {\"a\":1}")))
	assert.True(t, IsJSONLike([]byte("\n[1]")))
	assert.False(t, IsJSONLike([]byte("model Model")))
}

func TestParseProperty(t *testing.T) {
	n, v, ok := ParseProperty("  dataType: int64 ")
	assert.True(t, ok)
	assert.Equal(t, "dataType", n)
	assert.Equal(t, "int64", v)

	n, v, ok = ParseProperty("source = let")
	assert.True(t, ok)
	assert.Equal(t, "source", n)
	assert.Equal(t, "let", v)

	n, v, ok = ParseProperty("isHidden")
	assert.True(t, ok)
	assert.Equal(t, "isHidden", n)
	assert.Empty(t, v)

	_, _, ok = ParseProperty("annotation X = 1")
	assert.False(t, ok)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "a\nb", StripFences("```tmdl\na\nb\n```"))
}
