package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// ForcedApprover approves after a visible countdown. It backs --force, where
// nobody is at the keyboard to confirm, but Ctrl+C still has a few seconds to
// stop the truncate.
type ForcedApprover struct {
	verbose   bool
	countdown time.Duration
	output    io.Writer
	sleepFn   func(time.Duration)
}

func NewForcedApprover(verbose bool) pgetl.Approver {
	return &ForcedApprover{
		verbose:   verbose,
		countdown: pgetl.DefaultForceApprovalCountdown,
		output:    os.Stderr,
		sleepFn:   time.Sleep,
	}
}

// RequestApproval prints a warning naming target, counts down one second at
// a time and approves. Cancelling ctx during the countdown denies.
func (a *ForcedApprover) RequestApproval(ctx context.Context, target string) (bool, error) {
	fmt.Fprintln(a.output)
	fmt.Fprintf(a.output, "DANGER: --replace --force will delete every row of table '%s'\n", target)
	fmt.Fprintln(a.output, "and forget its load history.")
	fmt.Fprintln(a.output)

	seconds := int(a.countdownOrDefault().Seconds())
	for i := seconds; i > 0; i-- {
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(a.output)
			return false, err
		}
		fmt.Fprintf(a.output, "\rTruncating in: %d seconds... (Press Ctrl+C to cancel)", i)
		a.sleepFn(time.Second)
	}
	if err := ctx.Err(); err != nil {
		fmt.Fprintln(a.output)
		return false, err
	}

	fmt.Fprintf(a.output, "\r%s Proceeding with truncate of %s...                          \n", symbolCheck, target)
	return true, nil
}

func (a *ForcedApprover) countdownOrDefault() time.Duration {
	if a.countdown <= 0 {
		return pgetl.DefaultForceApprovalCountdown
	}
	return a.countdown
}

var _ pgetl.Approver = (*ForcedApprover)(nil)
