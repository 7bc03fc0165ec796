// Package filesystem provides filesystem abstraction interfaces and implementations.
//
// This package defines interfaces for file and directory operations, enabling
// testability through in-memory implementations while maintaining compatibility
// with the OS filesystem.
//
// Key interfaces:
//   - FileSystemProvider: read access (open directories, read files, list, stat)
//   - FileSystem: FileSystemProvider plus writes, used by every service that
//     produces model files
//   - Directory: a directory that can be traversed
//   - File: an individual file with metadata and content
//
// Implementations:
//   - OSFileSystem: production implementation; WriteFile replaces files atomically
//   - MemoryFileSystem: in-memory implementation for tests, safe for concurrent use
//   - EmbedFileSystem: read-only view of an embed.FS (starter templates)
//
// Missing paths produce errors wrapping fs.ErrNotExist on every implementation.
package filesystem
