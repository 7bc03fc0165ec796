// Package ident normalizes column and relationship-endpoint references.
//
// Accepted reference shapes:
//
//	Table[Column (Table)]
//	Column(Table)
//	Column (Table)
//	Table.Column
//	'Table Name'.'Column Name'
//
// All of them normalize to a Ref whose String form is Table.Column.
// Normalization is pure and total: malformed input degrades to the
// best-effort stripped text and never fails.
package ident
