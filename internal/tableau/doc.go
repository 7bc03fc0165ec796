// Package tableau reads a Tableau datasource description.
//
// It extracts the connection, the table relations, the column metadata
// records and the object graph, resolves object-graph relationships to
// table captions, and derives the set of columns a generated table must
// cover. Nothing here generates model text; callers feed the results to
// the column and relationship normalizers.
package tableau
