// Package scanner discovers model-definition files.
//
// The scanner package is responsible for:
//   - Recursively discovering .tmdl files below a definition directory
//   - Classifying each file (table, relationships, model, database, culture)
//   - Flagging JSON-shaped files that the text normalizers must skip
//   - Computing raw and normalized checksums
//
// The scanner works through filesystem.FileSystemProvider, so tests run
// against the in-memory filesystem.
package scanner
