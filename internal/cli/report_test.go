package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/pgetl/internal/services"
	"github.com/vvka-141/pgetl/internal/store"
	"github.com/vvka-141/pgetl/internal/transform"
)

func TestRenderSummary(t *testing.T) {
	summary := &services.RunSummary{
		Table: "patients",
		Sources: []services.SourceSummary{
			{
				Path:        "a.csv",
				Report:      &transform.Report{InputRows: 4, InRangeRows: 3, CompleteRows: 2, OutputRows: 2},
				RowsWritten: 2,
			},
			{Path: "b.csv", Skipped: true},
			{
				Path:   "c.csv",
				Report: &transform.Report{InputRows: 1, Warnings: []error{errors.New("no rows left")}},
				Failed: true,
			},
		},
		Duration: 1500 * time.Millisecond,
	}

	var buf bytes.Buffer
	renderSummary(&buf, summary)
	out := buf.String()

	assert.Contains(t, out, "a.csv")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "c.csv: no rows left")
	assert.Contains(t, out, "3 source(s), 5 row(s) read, 2 row(s) written, 1 skipped as already loaded into patients (1.5s)")
}

func TestRenderSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderSummary(&buf, &services.RunSummary{})
	assert.Contains(t, buf.String(), "No sources processed.")
}

func TestRenderPreview(t *testing.T) {
	result := &services.PreviewResult{
		Table: "patients",
		Total: 12,
		Rows: []store.Patient{{
			ID:               7,
			Age:              30,
			Gender:           "female",
			BloodType:        "A+",
			MedicalCondition: "Asthma",
			BillingAmount:    decimal.RequireFromString("12.0005"),
			Medication:       "Albuterol",
			TestResults:      "Normal",
			DateOfAdmission:  time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
			AdmissionType:    "Elective",
		}},
	}

	var buf bytes.Buffer
	renderPreview(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "Asthma")
	assert.Contains(t, out, "12.00")
	assert.Contains(t, out, "2023-01-05")
	assert.Contains(t, out, "Showing 1 of 12 row(s) in patients")
}

func TestRenderPreview_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderPreview(&buf, &services.PreviewResult{Table: "patients"})
	assert.Equal(t, "patients is empty.\n", buf.String())
}
