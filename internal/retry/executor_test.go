package retry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = &pgconn.PgError{Code: "08006", Message: "connection failure"}

// flakyOperation fails with err for the first failures invocations.
type flakyOperation struct {
	invocations int
	failures    int
	err         error
}

func (f *flakyOperation) run(context.Context) error {
	f.invocations++
	if f.invocations <= f.failures {
		return f.err
	}
	return nil
}

func fastBackoff(maxAttempts int) *ExponentialBackoff {
	return NewExponentialBackoff(maxAttempts, WithInitialDelay(time.Millisecond), WithJitter(0))
}

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
}

func (l *recordingLogger) Verbose(string, ...interface{}) {}
func (l *recordingLogger) Error(string, ...interface{})   {}
func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func TestExecutor_SuccessOnFirstAttempt(t *testing.T) {
	op := &flakyOperation{}
	err := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(3)).Execute(context.Background(), op.run)

	require.NoError(t, err)
	assert.Equal(t, 1, op.invocations)
}

func TestExecutor_SuccessAfterRetries(t *testing.T) {
	op := &flakyOperation{failures: 3, err: errTransient}
	err := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(5)).Execute(context.Background(), op.run)

	require.NoError(t, err)
	assert.Equal(t, 4, op.invocations)
}

func TestExecutor_FatalErrorNoRetry(t *testing.T) {
	fatal := &pgconn.PgError{Code: "42601", Message: "syntax error"}
	op := &flakyOperation{failures: 10, err: fatal}

	err := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(5)).Execute(context.Background(), op.run)

	assert.Same(t, fatal, err)
	assert.Equal(t, 1, op.invocations)
}

func TestExecutor_ExhaustedRetries(t *testing.T) {
	op := &flakyOperation{failures: 999, err: errTransient}

	err := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(3)).Execute(context.Background(), op.run)

	require.Error(t, err)
	assert.Equal(t, 4, op.invocations)
	assert.Contains(t, err.Error(), "gave up after 4 attempts")

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "08006", pgErr.Code)
}

func TestExecutor_ZeroRetries(t *testing.T) {
	op := &flakyOperation{failures: 999, err: errTransient}

	err := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(0)).Execute(context.Background(), op.run)

	assert.Same(t, errTransient, err)
	assert.Equal(t, 1, op.invocations)
}

func TestExecutor_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	strategy := NewExponentialBackoff(5, WithInitialDelay(time.Hour), WithMaxDelay(time.Hour), WithJitter(0))

	executor := NewExecutor(NewPostgreSQLErrorClassifier(), strategy).
		WithOnRetry(func(int, error, time.Duration) { cancel() })

	op := &flakyOperation{failures: 999, err: errTransient}
	err := executor.Execute(ctx, op.run)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, op.invocations)
}

func TestExecutor_OnRetryCallback(t *testing.T) {
	var attempts []int
	var delays []time.Duration
	executor := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(5)).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
			delays = append(delays, delay)
		})

	op := &flakyOperation{failures: 3, err: errTransient}
	require.NoError(t, executor.Execute(context.Background(), op.run))

	assert.Equal(t, []int{0, 1, 2}, attempts)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}, delays)
}

func TestExecutor_WithOnRetryDoesNotModifyReceiver(t *testing.T) {
	base := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(1))
	called := false
	_ = base.WithOnRetry(func(int, error, time.Duration) { called = true })

	op := &flakyOperation{failures: 1, err: errTransient}
	require.NoError(t, base.Execute(context.Background(), op.run))
	assert.False(t, called)
}

func TestExecutor_WithLogger(t *testing.T) {
	logger := &recordingLogger{}
	executor := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(3)).WithLogger(logger, "batch 2")

	op := &flakyOperation{failures: 2, err: errTransient}
	require.NoError(t, executor.Execute(context.Background(), op.run))

	require.Len(t, logger.infos, 2)
	assert.Contains(t, logger.infos[0], "Retrying batch 2 (retry 1/3)")
	assert.Contains(t, logger.infos[1], "Retrying batch 2 (retry 2/3)")
}

func TestDo_ReturnsValueOfSuccessfulAttempt(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(3)),
		func(context.Context) (int64, error) {
			calls++
			if calls < 2 {
				return -1, errTransient
			}
			return 42, nil
		})

	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestDo_ZeroValueOnError(t *testing.T) {
	got, err := Do(context.Background(), NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(0)),
		func(context.Context) (string, error) { return "partial", assert.AnError })

	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, got)
}

func TestNewExecutor_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, fastBackoff(1)) })
	assert.Panics(t, func() { NewExecutor(NewPostgreSQLErrorClassifier(), nil) })
}
