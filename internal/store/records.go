package store

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/vvka-141/pgetl/internal/dataset"
	"github.com/vvka-141/pgetl/internal/transform"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// billingScale matches numeric(14, 6) in schema.sql. Amounts are rounded
// to it here, so the database never rounds on insert.
const billingScale = 6

// Record is one transformed patient row ready for insertion.
type Record struct {
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

// insertColumns lists the columns Record.args fills, in order.
var insertColumns = []string{
	"age", "gender", "blood_type", "medical_condition", "billing_amount",
	"medication", "test_results", "date_of_admission", "admission_type", "load_run_id",
}

// args returns the insert arguments for r. Billing amounts go over the
// wire as exact numerics.
func (r Record) args(loadRunID pgtype.UUID) []any {
	return []any{
		r.Age,
		r.Gender,
		r.BloodType,
		r.MedicalCondition,
		pgtype.Numeric{Int: r.BillingAmount.Coefficient(), Exp: r.BillingAmount.Exponent(), Valid: true},
		r.Medication,
		r.TestResults,
		pgtype.Date{Time: r.DateOfAdmission, Valid: true},
		r.AdmissionType,
		loadRunID,
	}
}

// RecordsFromDataset converts a transformed dataset into records. The
// dataset must have the transform's output schema and no nulls.
func RecordsFromDataset(ds *dataset.Dataset) ([]Record, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", pgetl.ErrStorageFailed)
	}

	age, err := ds.Int32(transform.ColAge)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pgetl.ErrStorageFailed, err)
	}
	billing, err := ds.Float64(transform.ColBillingAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pgetl.ErrStorageFailed, err)
	}
	admitted, err := ds.Date(transform.ColDateOfAdmission)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pgetl.ErrStorageFailed, err)
	}

	text := make(map[string]*dataset.Series[string], 6)
	for _, name := range []string{
		transform.ColGender, transform.ColBloodType, transform.ColMedicalCondition,
		transform.ColMedication, transform.ColTestResults, transform.ColAdmissionType,
	} {
		s, err := ds.Text(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", pgetl.ErrStorageFailed, err)
		}
		text[name] = s
	}

	complete := ds.NullMask()
	records := make([]Record, ds.Height())
	for i := range records {
		if !complete[i] {
			return nil, fmt.Errorf("%w: row %d has null values: %v", pgetl.ErrStorageFailed, i, ds.Row(i))
		}
		a, _ := age.Value(i)
		b, _ := billing.Value(i)
		d, _ := admitted.Value(i)
		records[i] = Record{
			Age:              a,
			Gender:           textAt(text[transform.ColGender], i),
			BloodType:        textAt(text[transform.ColBloodType], i),
			MedicalCondition: textAt(text[transform.ColMedicalCondition], i),
			BillingAmount:    decimal.NewFromFloat(b).Round(billingScale),
			Medication:       textAt(text[transform.ColMedication], i),
			TestResults:      textAt(text[transform.ColTestResults], i),
			DateOfAdmission:  d,
			AdmissionType:    textAt(text[transform.ColAdmissionType], i),
		}
	}
	return records, nil
}

func textAt(s *dataset.Series[string], i int) string {
	v, _ := s.Value(i)
	return v
}
