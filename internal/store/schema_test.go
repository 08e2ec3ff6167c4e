package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

func TestParseTable(t *testing.T) {
	tbl, err := ParseTable("patients")
	require.NoError(t, err)
	assert.Equal(t, Table{Name: "patients"}, tbl)
	assert.Equal(t, `"patients"`, tbl.Ident())

	tbl, err = ParseTable("etl.patients")
	require.NoError(t, err)
	assert.Equal(t, Table{Schema: "etl", Name: "patients"}, tbl)
	assert.Equal(t, "etl.patients", tbl.String())
	assert.Equal(t, `"etl"."patients"`, tbl.Ident())
	assert.Equal(t, `"etl"."etl_load_runs"`, tbl.runsIdent())
}

func TestParseTable_Invalid(t *testing.T) {
	for _, name := range []string{"", "patients; DROP TABLE x", "a.b.c", "1patients"} {
		_, err := ParseTable(name)
		assert.Error(t, err, name)
	}
}

func TestSchemaDDL(t *testing.T) {
	ddl := schemaDDL(Table{Schema: "etl", Name: "patients"})
	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS "etl"."patients"`)
	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS "etl"."etl_load_runs"`)
	assert.Contains(t, ddl, "numeric(14, 6)")
	assert.NotContains(t, ddl, "{{")
}

func TestEnsureSchema(t *testing.T) {
	conn := &fakeConn{}
	require.NoError(t, EnsureSchema(context.Background(), conn, Table{Schema: "etl", Name: "patients"}))
	require.Len(t, conn.execs, 2)
	assert.Equal(t, `CREATE SCHEMA IF NOT EXISTS "etl"`, conn.execs[0])

	conn = &fakeConn{}
	require.NoError(t, EnsureSchema(context.Background(), conn, Table{Name: "patients"}))
	assert.Len(t, conn.execs, 1)
}

func TestTruncate(t *testing.T) {
	conn := &fakeConn{}
	require.NoError(t, Truncate(context.Background(), conn, Table{Name: "patients"}))

	require.Len(t, conn.batches, 1)
	batch := conn.batches[0]
	require.Len(t, batch, 2)
	assert.Equal(t, `TRUNCATE TABLE "patients" RESTART IDENTITY`, batch[0].SQL)
	assert.Equal(t, []any{"patients"}, batch[1].Arguments)
}

func TestTruncate_Error(t *testing.T) {
	conn := &fakeConn{failBatches: 1, batchErr: &pgconn.PgError{Code: "42501", Message: "permission denied"}}
	err := Truncate(context.Background(), conn, Table{Name: "patients"})
	assert.ErrorIs(t, err, pgetl.ErrStorageFailed)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestReader_Count(t *testing.T) {
	conn := &fakeConn{scanValue: int64(42)}
	n, err := NewReader(conn, Table{Name: "patients"}).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Equal(t, `SELECT count(*) FROM "patients"`, conn.execs[0])
}

func TestStore_Facade(t *testing.T) {
	conn := &fakeConn{}
	s := New(conn, Table{Name: "patients"}, WithBatchSize(2))

	assert.Equal(t, Table{Name: "patients"}, s.Table())
	assert.Equal(t, 2, s.batchSize)
	require.NoError(t, s.EnsureSchema(context.Background()))
	require.NoError(t, s.Truncate(context.Background()))
	assert.Equal(t, 1, conn.batchCount())
}
