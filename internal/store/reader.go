package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// DefaultHeadLimit is the number of rows Head returns when limit <= 0.
const DefaultHeadLimit = pgetl.DefaultPreviewLimit

// Patient is a stored row as read back from the table.
type Patient struct {
	ID               int64
	Age              int32
	Gender           string
	BloodType        string
	MedicalCondition string
	BillingAmount    decimal.Decimal
	Medication       string
	TestResults      string
	DateOfAdmission  time.Time
	AdmissionType    string
}

// Reader queries a patient table.
type Reader struct {
	conn  pgetl.DBConnection
	table Table
}

func NewReader(conn pgetl.DBConnection, table Table) *Reader {
	return &Reader{conn: conn, table: table}
}

// Head returns the first limit rows in insertion order.
func (r *Reader) Head(ctx context.Context, limit int) ([]Patient, error) {
	if limit <= 0 {
		limit = DefaultHeadLimit
	}

	rows, err := r.conn.Query(ctx,
		`SELECT id, age, gender, blood_type, medical_condition, billing_amount,
		medication, test_results, date_of_admission, admission_type
		FROM `+r.table.Ident()+` ORDER BY id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", pgetl.ErrStorageFailed, r.table, err)
	}

	patients, err := pgx.CollectRows(rows, scanPatient)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", pgetl.ErrStorageFailed, r.table, err)
	}
	return patients, nil
}

func scanPatient(row pgx.CollectableRow) (Patient, error) {
	var (
		p       Patient
		billing pgtype.Numeric
		date    pgtype.Date
	)
	err := row.Scan(&p.ID, &p.Age, &p.Gender, &p.BloodType, &p.MedicalCondition, &billing,
		&p.Medication, &p.TestResults, &date, &p.AdmissionType)
	if err != nil {
		return Patient{}, err
	}
	if billing.Valid && billing.Int != nil {
		p.BillingAmount = decimal.NewFromBigInt(billing.Int, billing.Exp)
	}
	if date.Valid {
		p.DateOfAdmission = date.Time
	}
	return p, nil
}

// Count returns the number of rows in the table.
func (r *Reader) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn.QueryRow(ctx, "SELECT count(*) FROM "+r.table.Ident()).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count %s: %w", pgetl.ErrStorageFailed, r.table, err)
	}
	return n, nil
}
