package store

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// fakeConn records statements and answers batches with one affected row per
// queued INSERT. failBatches makes the first n SendBatch calls fail.
type fakeConn struct {
	mu          sync.Mutex
	execs       []string
	execArgs    [][]any
	batches     [][]*pgx.QueuedQuery
	failBatches int
	batchErr    error
	scanValue   any
	scanErr     error
}

func (c *fakeConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.execs = append(c.execs, sql)
	c.execArgs = append(c.execArgs, args)
	return pgconn.NewCommandTag("OK"), nil
}

func (c *fakeConn) QueryRow(_ context.Context, sql string, args ...any) pgetl.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.execs = append(c.execs, sql)
	c.execArgs = append(c.execArgs, args)
	return fakeRow{value: c.scanValue, err: c.scanErr}
}

func (c *fakeConn) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported by fakeConn")
}

func (c *fakeConn) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, b.QueuedQueries)
	if c.failBatches > 0 {
		c.failBatches--
		return &fakeBatchResults{remaining: b.Len(), err: c.batchErr}
	}
	return &fakeBatchResults{remaining: b.Len()}
}

func (c *fakeConn) batchCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.batches)
}

type fakeBatchResults struct {
	remaining int
	err       error
}

func (r *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	if r.err != nil {
		return pgconn.CommandTag{}, r.err
	}
	if r.remaining == 0 {
		return pgconn.CommandTag{}, errors.New("no more results")
	}
	r.remaining--
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *fakeBatchResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (r *fakeBatchResults) QueryRow() pgx.Row        { return nil }
func (r *fakeBatchResults) Close() error             { return nil }

type fakeRow struct {
	value any
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	switch d := dest[0].(type) {
	case *bool:
		*d = r.value.(bool)
	case *int64:
		*d = r.value.(int64)
	default:
		return errors.New("unsupported scan target")
	}
	return nil
}

var _ pgetl.DBConnection = (*fakeConn)(nil)
