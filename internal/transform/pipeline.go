package transform

import "github.com/vvka-141/pgetl/internal/dataset"

// Report summarizes one transformation run.
type Report struct {
	InputRows int

	// CleanRows left the clean stage. Clean never drops rows, so it equals
	// InputRows whenever the stage succeeded.
	CleanRows int

	// InRangeRows survived the age filter.
	InRangeRows int

	// CompleteRows additionally had no null in any input column.
	CompleteRows int

	// UnparsedDates counts complete rows whose admission date did not parse.
	UnparsedDates int

	OutputRows int

	// Warnings holds non-fatal conditions such as *EmptyResultWarning.
	Warnings []error
}

// Dropped returns the number of input rows that did not survive.
func (r *Report) Dropped() int {
	return r.InputRows - r.OutputRows
}

// Transform runs Clean, Normalize and Validate in order and returns the
// first error encountered.
func Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	out, _, err := Run(ds)
	return out, err
}

// Run is Transform with a Report. The report is non-nil even on error and
// holds the counts of the stages that completed.
func Run(ds *dataset.Dataset) (*dataset.Dataset, *Report, error) {
	report := &Report{}
	if ds != nil {
		report.InputRows = ds.Height()
	}

	cleaned, err := Clean(ds)
	if err != nil {
		return nil, report, err
	}
	report.CleanRows = cleaned.Height()

	normalized, stats, err := normalize(cleaned)
	if err != nil {
		return nil, report, err
	}
	report.InRangeRows = stats.inRange
	report.CompleteRows = stats.complete
	report.UnparsedDates = stats.unparsedDates

	out, err := Validate(normalized)
	if err != nil {
		return nil, report, err
	}
	report.OutputRows = out.Height()

	if out.Height() == 0 {
		report.Warnings = append(report.Warnings, &EmptyResultWarning{InputRows: report.InputRows})
	}
	return out, report, nil
}
