// Package tmdl owns the line-oriented model-definition grammar.
//
// Two block styles exist in the wild:
//
//	table Orders {            table Orders
//	  columns {                 columns:
//	    column Region {           column Region
//	      dataType: string          dataType: string
//	    }
//	  }
//	}
//
// Every input is first classified line by line into a Document tagged with
// its Style (BraceStyle, LabelStyle or Unknown). A single renderer then emits
// label-colon text. Conversion only ever runs brace → label; rendering the
// output again is a no-op.
//
// The package also parses and renders the two structured pieces shared by
// the assembler and the relationship normalizer: column blocks and
// relationship blocks.
package tmdl
