// Package filesystem abstracts the file access the ingestion layer needs:
// stat a source path, read a file, and walk a directory of input files.
//
// Implementations:
//   - OSFileSystem: reads from the operating system
//   - MemoryFileSystem: in-memory files for tests
//
// Both report missing paths with errors that wrap fs.ErrNotExist so callers
// can classify them with errors.Is.
package filesystem
