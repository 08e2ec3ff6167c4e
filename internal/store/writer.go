package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/pgetl/internal/retry"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

const (
	DefaultBatchSize = pgetl.DefaultBatchSize
	DefaultWorkers   = pgetl.DefaultWorkers
)

// Writer inserts records in concurrent batches. Each batch travels as one
// pgx.Batch, which the server runs in a single implicit transaction, so a
// failed batch leaves no partial rows behind and can be retried whole.
type Writer struct {
	conn      pgetl.DBConnection
	table     Table
	batchSize int
	workers   int
	policy    retry.Policy
	logger    pgetl.Logger
	insertSQL string
}

// NewWriter returns a Writer for table. Non-positive sizes fall back to the
// defaults.
func NewWriter(conn pgetl.DBConnection, table Table, opts ...Option) *Writer {
	o := newOptions(opts)
	return &Writer{
		conn:      conn,
		table:     table,
		batchSize: o.batchSize,
		workers:   o.workers,
		policy:    o.policy,
		logger:    o.logger,
		insertSQL: insertStatement(table),
	}
}

func insertStatement(t Table) string {
	placeholders := make([]string, len(insertColumns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.Ident(), strings.Join(insertColumns, ", "), strings.Join(placeholders, ", "))
}

// Write inserts records tagged with loadRunID and returns the number of rows
// written. The first failing batch cancels the batches not yet started;
// batches already committed stay committed.
func (w *Writer) Write(ctx context.Context, records []Record, loadRunID pgtype.UUID) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	chunks := chunk(records, w.batchSize)
	written := make([]int64, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)
	for i, part := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			what := fmt.Sprintf("batch %d/%d", i+1, len(chunks))
			n, err := retry.Do(gctx, w.policy.Executor(retry.NewPostgreSQLErrorClassifier()).WithLogger(w.logger, what),
				func(ctx context.Context) (int64, error) {
					return w.insertBatch(ctx, part, loadRunID)
				})
			if err != nil {
				return fmt.Errorf("%s (%d rows): %w", what, len(part), err)
			}
			w.logger.Verbose("Inserted %s (%d rows)", what, n)
			written[i] = n
			return nil
		})
	}

	err := g.Wait()
	var total int64
	for _, n := range written {
		total += n
	}
	if err != nil {
		return total, fmt.Errorf("%w: insert into %s: %w", pgetl.ErrStorageFailed, w.table, err)
	}
	return total, nil
}

func (w *Writer) insertBatch(ctx context.Context, records []Record, loadRunID pgtype.UUID) (n int64, err error) {
	b := &pgx.Batch{}
	for _, r := range records {
		b.Queue(w.insertSQL, r.args(loadRunID)...)
	}

	br := w.conn.SendBatch(ctx, b)
	defer func() {
		if cerr := br.Close(); err == nil && cerr != nil {
			n, err = 0, cerr
		}
	}()
	for range records {
		tag, err := br.Exec()
		if err != nil {
			return 0, err
		}
		n += tag.RowsAffected()
	}
	return n, nil
}

func chunk[T any](items []T, size int) [][]T {
	out := make([][]T, 0, (len(items)+size-1)/size)
	for size < len(items) {
		items, out = items[size:], append(out, items[:size:size])
	}
	return append(out, items)
}
