package store

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

//go:embed schema.sql
var schemaSQL string

// schemaDDL renders schema.sql for t.
func schemaDDL(t Table) string {
	return strings.NewReplacer("{{table}}", t.Ident(), "{{runs}}", t.runsIdent()).Replace(schemaSQL)
}

// EnsureSchema creates the patient and load run tables if they do not exist.
// It is safe to call on every run.
func EnsureSchema(ctx context.Context, conn pgetl.DBConnection, t Table) error {
	if t.Schema != "" {
		if _, err := conn.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{t.Schema}.Sanitize()); err != nil {
			return fmt.Errorf("%w: create schema %s: %w", pgetl.ErrStorageFailed, t.Schema, err)
		}
	}
	if _, err := conn.Exec(ctx, schemaDDL(t)); err != nil {
		return fmt.Errorf("%w: create tables for %s: %w", pgetl.ErrStorageFailed, t, err)
	}
	return nil
}

// Truncate empties the patient table and forgets its load runs, in one
// transaction.
func Truncate(ctx context.Context, conn pgetl.DBConnection, t Table) error {
	b := &pgx.Batch{}
	b.Queue("TRUNCATE TABLE " + t.Ident() + " RESTART IDENTITY")
	b.Queue("DELETE FROM "+t.runsIdent()+" WHERE target_table = $1", t.String())

	if err := execBatch(ctx, conn, b); err != nil {
		return fmt.Errorf("%w: truncate %s: %w", pgetl.ErrStorageFailed, t, err)
	}
	return nil
}

// execBatch sends b and checks every statement's result.
func execBatch(ctx context.Context, conn pgetl.DBConnection, b *pgx.Batch) (err error) {
	br := conn.SendBatch(ctx, b)
	defer func() {
		if cerr := br.Close(); err == nil {
			err = cerr
		}
	}()
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
