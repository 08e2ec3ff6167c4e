package retry

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
)

// Permanent is implemented by errors that must never be retried, such as
// malformed input.
type Permanent interface {
	Permanent() bool
}

// FileErrorClassifier implements ErrorClassifier for reading source files.
// A missing file is retried because uploads and network mounts can make a
// file visible late; locked or interrupted reads are retried as well.
// Errors that report themselves Permanent are never retried.
type FileErrorClassifier struct{}

// NewFileErrorClassifier creates a new source file error classifier.
func NewFileErrorClassifier() *FileErrorClassifier {
	return &FileErrorClassifier{}
}

// IsTransient determines if a file read error is temporary and retryable.
func (c *FileErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var p Permanent
	if errors.As(err, &p) && p.Permanent() {
		return false
	}

	switch {
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, os.ErrDeadlineExceeded),
		errors.Is(err, syscall.EAGAIN),
		errors.Is(err, syscall.EBUSY),
		errors.Is(err, syscall.EINTR),
		errors.Is(err, syscall.EIO):
		return true
	}
	return false
}
