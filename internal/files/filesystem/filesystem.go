package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// File represents an individual file with its metadata and content accessor
type File interface {
	// Path returns the absolute path to the file
	Path() string

	// RelativePath returns the path relative to the walked directory, with forward slashes
	RelativePath() string

	// Info returns file metadata
	Info() FileInfo

	// ReadContent returns the file's content
	ReadContent() ([]byte, error)
}

// Directory represents a directory that can be traversed to discover files
type Directory interface {
	// Path returns the absolute path to the directory
	Path() string

	// Walk traverses the directory tree in lexical order, calling fn for each
	// file and directory. If fn returns an error, walking stops.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider gives read access to a tree of files.
type FileSystemProvider interface {
	// Open opens a directory at the specified path
	Open(path string) (Directory, error)

	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)

	// ReadDir returns the entries of a directory sorted by name.
	ReadDir(path string) ([]FileInfo, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)
}

// FileSystem is a FileSystemProvider that can also be written.
type FileSystem interface {
	FileSystemProvider

	// WriteFile replaces the file at path, creating parent directories.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error

	// RemoveAll removes path and everything below it. A missing path is not an error.
	RemoveAll(path string) error
}

// Exists reports whether path exists.
func Exists(fsys FileSystemProvider, p string) bool {
	_, err := fsys.Stat(p)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(fsys FileSystemProvider, p string) bool {
	info, err := fsys.Stat(p)
	return err == nil && info.IsDir()
}

// IsNotExist reports whether err means a path does not exist.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// CopyTree copies every file below srcDir in src to dstDir in dst, keeping
// relative paths. transform, when non-nil, rewrites each file's content.
func CopyTree(src FileSystemProvider, srcDir string, dst FileSystem, dstDir string, transform func(rel string, content []byte) []byte) error {
	dir, err := src.Open(srcDir)
	if err != nil {
		return err
	}
	if err := dst.MkdirAll(dstDir); err != nil {
		return err
	}
	return dir.Walk(func(f File, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel := f.RelativePath()
		if rel == "." || rel == "" {
			return nil
		}
		target := filepath.Join(dstDir, filepath.FromSlash(rel))
		if f.Info().IsDir() {
			return dst.MkdirAll(target)
		}
		content, err := f.ReadContent()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f.Path(), err)
		}
		if transform != nil {
			content = transform(rel, content)
		}
		if err := dst.WriteFile(target, content); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		return nil
	})
}
