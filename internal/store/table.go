package store

import (
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// RunsTableName is the bookkeeping table, created in the same schema as the
// patient table.
const RunsTableName = "etl_load_runs"

// Table is a validated, optionally schema-qualified table name.
type Table struct {
	Schema string
	Name   string
}

// ParseTable validates name and splits off its schema.
func ParseTable(name string) (Table, error) {
	if err := pgetl.ValidateTableName(name); err != nil {
		return Table{}, err
	}
	if schema, table, ok := strings.Cut(name, "."); ok {
		return Table{Schema: schema, Name: table}, nil
	}
	return Table{Name: name}, nil
}

func (t Table) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Ident returns the quoted identifier for use in SQL text.
func (t Table) Ident() string {
	return t.identifier(t.Name)
}

func (t Table) runsIdent() string {
	return t.identifier(RunsTableName)
}

func (t Table) identifier(name string) string {
	if t.Schema == "" {
		return pgx.Identifier{name}.Sanitize()
	}
	return pgx.Identifier{t.Schema, name}.Sanitize()
}
