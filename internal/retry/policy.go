package retry

import (
	"errors"
	"fmt"
	"time"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// Policy is a plain-data retry configuration that can be loaded from
// pgetl.yaml and turned into a backoff strategy.
type Policy struct {
	// MaxAttempts is the number of retries after the first attempt
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultPolicy is used for connections and batch writes.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  pgetl.DefaultRetryMaxAttempts,
		InitialDelay: pgetl.DefaultRetryInitialDelay,
		MaxDelay:     pgetl.DefaultRetryMaxDelay,
	}
}

// IngestPolicy is used for reading source files: a fixed one second pause
// between attempts.
func IngestPolicy() Policy {
	return Policy{
		MaxAttempts:  pgetl.DefaultRetryMaxAttempts,
		InitialDelay: pgetl.DefaultIngestRetryDelay,
		MaxDelay:     pgetl.DefaultIngestRetryDelay,
	}
}

// Validate rejects negative delays and a max delay below the initial delay.
func (p Policy) Validate() error {
	var errs []error
	if p.InitialDelay < 0 {
		errs = append(errs, fmt.Errorf("retry initial delay cannot be negative: %w", pgetl.ErrInvalidConfig))
	}
	if p.MaxDelay < 0 {
		errs = append(errs, fmt.Errorf("retry max delay cannot be negative: %w", pgetl.ErrInvalidConfig))
	}
	if p.MaxDelay > 0 && p.MaxDelay < p.InitialDelay {
		errs = append(errs, fmt.Errorf("retry max delay %v is below initial delay %v: %w", p.MaxDelay, p.InitialDelay, pgetl.ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// Backoff builds the exponential backoff strategy for p. Extra options are
// applied after the policy values.
func (p Policy) Backoff(opts ...BackoffOption) *ExponentialBackoff {
	base := []BackoffOption{
		WithInitialDelay(p.InitialDelay),
		WithMaxDelay(p.MaxDelay),
	}
	return NewExponentialBackoff(p.MaxAttempts, append(base, opts...)...)
}

// Executor builds an executor for p using classifier.
func (p Policy) Executor(classifier pgetl.ErrorClassifier, opts ...BackoffOption) *Executor {
	return NewExecutor(classifier, p.Backoff(opts...))
}
