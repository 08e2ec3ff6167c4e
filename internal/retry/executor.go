package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// Executor orchestrates retry attempts with backoff and error classification.
//
// Thread Safety:
// The Executor itself is safe for concurrent use when calling Execute().
// WithOnRetry() and WithLogger() return a NEW instance, leaving the receiver
// unchanged, so each caller can attach its own callback.
type Executor struct {
	classifier pgetl.ErrorClassifier
	strategy   pgetl.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates a new retry executor with the given configuration.
// Panics if classifier or strategy is nil.
func NewExecutor(
	classifier pgetl.ErrorClassifier,
	strategy pgetl.BackoffStrategy,
) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{
		classifier: classifier,
		strategy:   strategy,
	}
}

// WithOnRetry returns a new Executor with the specified retry callback.
// attempt is zero-indexed: 0 is the first retry.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// WithLogger returns a new Executor that logs every retry of what through logger.
func (e *Executor) WithLogger(logger pgetl.Logger, what string) *Executor {
	maxAttempts := e.strategy.MaxAttempts()
	return e.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		if maxAttempts < 0 {
			logger.Info("Retrying %s (retry %d) in %v: %v", what, attempt+1, delay.Round(time.Millisecond), err)
			return
		}
		logger.Info("Retrying %s (retry %d/%d) in %v: %v", what, attempt+1, maxAttempts, delay.Round(time.Millisecond), err)
	})
}

// Execute runs the operation with retry logic.
// A fatal error is returned as is. When every retry fails with a transient
// error, the last error is returned wrapped with the attempt count.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	maxAttempts := e.strategy.MaxAttempts()

	lastErr := operation(ctx)
	if lastErr == nil {
		return nil
	}
	if !e.classifier.IsTransient(lastErr) {
		return lastErr
	}

	// A negative maxAttempts retries until success or cancellation.
	attempt := 0
	for ; maxAttempts < 0 || attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		lastErr = operation(ctx)
		if lastErr == nil {
			return nil
		}
		if !e.classifier.IsTransient(lastErr) {
			return lastErr
		}
	}

	if attempt == 0 {
		return lastErr
	}
	return fmt.Errorf("gave up after %d attempts: %w", attempt+1, lastErr)
}

// Do runs operation through e and returns the value of the successful attempt.
func Do[T any](ctx context.Context, e *Executor, operation func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := e.Execute(ctx, func(ctx context.Context) error {
		v, err := operation(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
