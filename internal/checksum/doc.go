// Package checksum hashes definition file content.
//
// Two checksums are computed per file:
//
//   - Raw checksum: hash of the exact content, so any edit is a change
//   - Normalized checksum: hash after removing // and /* */ comments,
//     trimming every line and dropping blank lines
//
// Comparing normalized checksums before and after formatting tells a
// layout-only rewrite (indentation, braces, label colons) apart from one
// that changed what a document says.
//
// # Example Usage
//
//	calculator := checksum.New()
//	raw := calculator.CalculateRaw(content)
//	normalized := calculator.CalculateNormalized(content)
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
