package pgetl

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBConnection abstracts the database operations the loader and reader need.
// Batches and row iteration use pgx types directly; everything else is kept
// behind small interfaces so services can be tested without a server.
//
// Thread-Safety: Implementations should follow their underlying connection's
// thread-safety guarantees. Connection pool implementations are typically safe
// for concurrent use.
type DBConnection interface {
	// Exec executes a query without returning any rows.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// QueryRow executes a query that is expected to return at most one row.
	// Always returns a non-nil Row. Errors are deferred until Row's Scan method is called.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// Query executes a query that returns rows. The caller must close the rows.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)

	// SendBatch sends all queued queries of b in a single round trip.
	// The caller must close the returned results.
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Row represents a single row returned by QueryRow.
// This interface decouples from pgx.Row.
type Row interface {
	// Scan reads the values from the row into dest values.
	// Returns an error if no row was found or if the scan fails.
	Scan(dest ...any) error
}
