package transform

import (
	"fmt"

	"github.com/vvka-141/pgetl/internal/dataset"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// Stage names a transformation step in errors and reports.
type Stage string

const (
	StageClean     Stage = "clean"
	StageNormalize Stage = "normalize"
	StageValidate  Stage = "validate"
)

// SchemaError reports a required column that is missing or has the wrong kind.
type SchemaError struct {
	Stage  Stage
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: column %q: %s", e.Stage, e.Column, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return pgetl.ErrSchema
}

// TypeError reports a value that cannot be cast to the column's target kind.
// Row is the zero-based row index within the stage input.
type TypeError struct {
	Stage  Stage
	Column string
	Row    int
	Value  string
	Target dataset.Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: column %q row %d: cannot cast %q to %s", e.Stage, e.Column, e.Row, e.Value, e.Target)
}

func (e *TypeError) Unwrap() error {
	return pgetl.ErrType
}

// EmptyResultWarning is attached to a Report when no row survived.
// It is never returned as an error.
type EmptyResultWarning struct {
	InputRows int
}

func (w *EmptyResultWarning) Error() string {
	return fmt.Sprintf("transformation produced no rows from %d input rows", w.InputRows)
}

func missingColumn(stage Stage, column string) *SchemaError {
	return &SchemaError{Stage: stage, Column: column, Reason: "column is missing"}
}

func wrongKind(stage Stage, column string, want, got dataset.Kind) *SchemaError {
	return &SchemaError{Stage: stage, Column: column, Reason: fmt.Sprintf("expected %s column, got %s", want, got)}
}
