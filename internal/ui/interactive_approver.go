package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

const (
	symbolCheck = "✓"
	symbolCross = "✗"
)

// InteractiveApprover asks the user to type the table name before a truncate.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

func NewInteractiveApprover(verbose bool) pgetl.Approver {
	return &InteractiveApprover{verbose: verbose, input: os.Stdin, output: os.Stderr}
}

// RequestApproval approves only if the typed line, trimmed, equals target.
// Cancelling ctx returns at once, even while the read is still pending.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, target string) (bool, error) {
	fmt.Fprintf(a.output, "\nWARNING: You are about to TRUNCATE the table '%s'\n", target)
	fmt.Fprintln(a.output, "This will permanently delete all rows in this table and its load history!")
	fmt.Fprintf(a.output, "\nTo confirm, type the table name '%s' and press Enter: ", target)

	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		line, err := bufio.NewReader(a.input).ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			done <- result{err: err}
			return
		}
		done <- result{line: strings.TrimSpace(line)}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return false, fmt.Errorf("failed to read input: %w", r.err)
		}
		if r.line == target {
			fmt.Fprintf(a.output, "%s Confirmed. Proceeding with truncate...\n", symbolCheck)
			return true, nil
		}
		fmt.Fprintf(a.output, "%s Input '%s' does not match table name '%s'. Operation cancelled.\n", symbolCross, r.line, target)
		return false, nil
	}
}

var _ pgetl.Approver = (*InteractiveApprover)(nil)

// NewApprover picks the approver for a run: forced when force is set,
// interactive otherwise.
func NewApprover(force, verbose bool) pgetl.Approver {
	if force {
		return NewForcedApprover(verbose)
	}
	return NewInteractiveApprover(verbose)
}
