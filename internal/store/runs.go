package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// LoadRun records one completed load of a source file.
type LoadRun struct {
	ID                 uuid.UUID
	SourcePath         string
	Checksum           string
	ChecksumNormalized string
	RowsRead           int
	RowsWritten        int
	StartedAt          time.Time
	FinishedAt         time.Time
}

// NewLoadRun starts a run for sourcePath with a fresh random ID.
func NewLoadRun(sourcePath, checksum, normalized string) LoadRun {
	return LoadRun{
		ID:                 uuid.New(),
		SourcePath:         sourcePath,
		Checksum:           checksum,
		ChecksumNormalized: normalized,
		StartedAt:          time.Now().UTC(),
	}
}

// PgID returns the run ID as a database value.
func (r LoadRun) PgID() pgtype.UUID {
	return pgtype.UUID{Bytes: r.ID, Valid: true}
}

// Runs keeps the load history of one patient table.
type Runs struct {
	conn  pgetl.DBConnection
	table Table
}

func NewRuns(conn pgetl.DBConnection, table Table) *Runs {
	return &Runs{conn: conn, table: table}
}

// HasChecksum reports whether a file with the given normalized checksum was
// already loaded into the table.
func (r *Runs) HasChecksum(ctx context.Context, normalized string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM "+r.table.runsIdent()+" WHERE target_table = $1 AND checksum_normalized = $2)",
		r.table.String(), normalized,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: look up load runs: %w", pgetl.ErrStorageFailed, err)
	}
	return exists, nil
}

// Record stores run. A zero FinishedAt is set to the current time.
func (r *Runs) Record(ctx context.Context, run LoadRun) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	_, err := r.conn.Exec(ctx,
		"INSERT INTO "+r.table.runsIdent()+` (id, target_table, source_path, checksum, checksum_normalized,
		rows_read, rows_written, started_at, finished_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.PgID(), r.table.String(), run.SourcePath, run.Checksum, run.ChecksumNormalized,
		run.RowsRead, run.RowsWritten, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: record load run %s: %w", pgetl.ErrStorageFailed, run.ID, err)
	}
	return nil
}
