package pgetl_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, pgetl.ExitSuccess},
		{"unknown flag", errors.New("unknown flag --foo"), pgetl.ExitUsageError},
		{"unknown shorthand flag", errors.New("unknown shorthand flag: 'x'"), pgetl.ExitUsageError},
		{"accepts args", errors.New("accepts 1 arg(s), received 0"), pgetl.ExitUsageError},
		{"required flag", errors.New("required flag \"table\" not set"), pgetl.ExitUsageError},
		{"invalid argument", errors.New("invalid argument \"abc\" for \"--port\""), pgetl.ExitUsageError},
		{"missing argument", errors.New("missing required argument: <source_path>"), pgetl.ExitUsageError},
		{"general error", errors.New("something went wrong"), pgetl.ExitGeneralError},
		{"invalid config", fmt.Errorf("bad: %w", pgetl.ErrInvalidConfig), pgetl.ExitConfigError},
		{"unsupported auth", pgetl.ErrUnsupportedAuthMethod, pgetl.ExitConfigError},
		{"approval denied", pgetl.ErrApprovalDenied, pgetl.ExitApprovalDenied},
		{"connection failed", pgetl.ErrConnectionFailed, pgetl.ExitConnectionError},
		{"connection refused text", errors.New("dial tcp: connection refused"), pgetl.ExitConnectionError},
		{"ingestion failed", fmt.Errorf("reading a.csv: %w", pgetl.ErrIngestionFailed), pgetl.ExitIngestionFailed},
		{"schema", fmt.Errorf("clean: %w", pgetl.ErrSchema), pgetl.ExitTransformFailed},
		{"type", fmt.Errorf("normalize: %w", pgetl.ErrType), pgetl.ExitTransformFailed},
		{"storage", fmt.Errorf("insert: %w", pgetl.ErrStorageFailed), pgetl.ExitStorageFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pgetl.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
