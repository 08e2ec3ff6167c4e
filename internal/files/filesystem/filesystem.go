package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// File is a regular file or directory found while walking.
type File interface {
	// Path returns the absolute path to the file
	Path() string

	// RelativePath returns the slash-separated path relative to the walk root
	RelativePath() string

	// Info returns file metadata
	Info() FileInfo
}

// Directory is a directory that can be traversed to discover input files.
type Directory interface {
	// Path returns the absolute path to the directory
	Path() string

	// Walk calls fn for every entry below the directory in lexical order.
	// If fn returns an error, walking stops and the error is returned.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider gives access to source files.
type FileSystemProvider interface {
	// Open opens a directory at the specified path
	Open(path string) (Directory, error)

	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)
}
