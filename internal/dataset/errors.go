package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotFound indicates a lookup for a column name that is not in the schema.
	ErrColumnNotFound = errors.New("column not found")

	// ErrColumnKind indicates a column exists but holds a different kind than requested.
	ErrColumnKind = errors.New("unexpected column kind")

	// ErrShape indicates columns or masks whose lengths do not line up.
	ErrShape = errors.New("shape mismatch")
)

// ColumnError reports a failed column lookup.
type ColumnError struct {
	Column string
	Want   Kind
	Got    Kind
	Err    error
}

func (e *ColumnError) Error() string {
	if errors.Is(e.Err, ErrColumnKind) {
		return fmt.Sprintf("column %q: %v: want %s, got %s", e.Column, e.Err, e.Want, e.Got)
	}
	return fmt.Sprintf("column %q: %v", e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}
