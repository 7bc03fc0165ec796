// Package columns turns a loosely formatted column specification into
// ordered column records.
//
// Three input shapes are accepted and detected in this order:
//
//   - pre-rendered column blocks ("column Region" followed by properties),
//     possibly wrapped in a table document
//   - a structured list ("- name: Region" items, optionally under a
//     "columns:" key)
//   - delimited rows, one column per line: name[,type[,summarizeBy[,sourceColumn]]]
//     with "|" accepted in place of ","
//
// A structured list that yields no columns is an error; it is never turned
// into an empty table.
package columns
