package store

import (
	"context"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// Store bundles the writer, reader and run history of one patient table.
type Store struct {
	*Writer
	*Reader
	Runs *Runs

	conn  pgetl.DBConnection
	table Table
}

// New returns a Store for table on conn.
func New(conn pgetl.DBConnection, table Table, opts ...Option) *Store {
	return &Store{
		Writer: NewWriter(conn, table, opts...),
		Reader: NewReader(conn, table),
		Runs:   NewRuns(conn, table),
		conn:   conn,
		table:  table,
	}
}

// Table returns the patient table the store writes to.
func (s *Store) Table() Table { return s.table }

// EnsureSchema creates the store's tables if needed.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return EnsureSchema(ctx, s.conn, s.table)
}

// Truncate empties the store's table and its run history.
func (s *Store) Truncate(ctx context.Context) error {
	return Truncate(ctx, s.conn, s.table)
}

// HasChecksum reports whether a file with the normalized checksum was
// already loaded into the store's table.
func (s *Store) HasChecksum(ctx context.Context, normalized string) (bool, error) {
	return s.Runs.HasChecksum(ctx, normalized)
}

// RecordRun stores a completed load run.
func (s *Store) RecordRun(ctx context.Context, run LoadRun) error {
	return s.Runs.Record(ctx, run)
}
