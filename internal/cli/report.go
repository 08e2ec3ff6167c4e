package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/vvka-141/pgetl/internal/dataset"
	"github.com/vvka-141/pgetl/internal/services"
	"github.com/vvka-141/pgetl/internal/store"
	"github.com/vvka-141/pgetl/internal/tui"
)

var reportHeaders = []string{"Source", "Input", "Age in range", "Complete", "Bad dates", "Output", "Written", "Status"}

var patientHeaders = []string{
	"ID", "Age", "Gender", "Blood Type", "Medical Condition", "Billing Amount",
	"Medication", "Test Results", "Date of Admission", "Admission Type",
}

// renderSummary prints one row per source, the totals and any warnings.
func renderSummary(w io.Writer, summary *services.RunSummary) {
	if summary == nil || len(summary.Sources) == 0 {
		fmt.Fprintln(w, tui.MutedStyle.Render("No sources processed."))
		return
	}

	rows := make([][]string, 0, len(summary.Sources))
	for _, src := range summary.Sources {
		rows = append(rows, reportRow(src))
	}
	fmt.Fprintln(w, tui.RenderTable(reportHeaders, rows))

	for _, src := range summary.Sources {
		if src.Report == nil {
			continue
		}
		for _, warning := range src.Report.Warnings {
			fmt.Fprintln(w, tui.WarningStyle.Render(fmt.Sprintf("%s %s: %v", tui.SymbolWarning, src.Path, warning)))
		}
	}

	line := fmt.Sprintf("%d source(s), %d row(s) read, %d row(s) written", len(summary.Sources), summary.RowsRead(), summary.RowsWritten())
	if n := summary.SkippedCount(); n > 0 {
		line += fmt.Sprintf(", %d skipped as already loaded", n)
	}
	if summary.Table != "" {
		line += " into " + summary.Table
	}
	fmt.Fprintf(w, "%s (%s)\n", line, summary.Duration.Round(time.Millisecond))
}

func reportRow(src services.SourceSummary) []string {
	row := []string{src.Path, "-", "-", "-", "-", "-", strconv.FormatInt(src.RowsWritten, 10), ""}
	if r := src.Report; r != nil {
		row[1] = strconv.Itoa(r.InputRows)
		row[2] = strconv.Itoa(r.InRangeRows)
		row[3] = strconv.Itoa(r.CompleteRows)
		row[4] = strconv.Itoa(r.UnparsedDates)
		row[5] = strconv.Itoa(r.OutputRows)
	}
	switch {
	case src.Skipped:
		row[7] = "skipped"
	case src.Failed:
		row[7] = "failed"
	default:
		row[7] = "ok"
	}
	return row
}

// renderSample prints the first transformed rows of a source.
func renderSample(w io.Writer, path string, sample *dataset.Dataset) {
	if sample == nil || sample.Height() == 0 {
		return
	}
	rows := make([][]string, sample.Height())
	for i := range rows {
		rows[i] = sample.Row(i)
	}
	fmt.Fprintln(w, tui.TitleStyle.Render(path))
	fmt.Fprintln(w, tui.RenderTable(sample.Names(), rows))
}

// renderPreview prints rows read back from the target table.
func renderPreview(w io.Writer, result *services.PreviewResult) {
	if len(result.Rows) == 0 {
		fmt.Fprintf(w, "%s is empty.\n", result.Table)
		return
	}
	rows := make([][]string, len(result.Rows))
	for i, p := range result.Rows {
		rows[i] = patientRow(p)
	}
	fmt.Fprintln(w, tui.RenderTable(patientHeaders, rows))
	fmt.Fprintf(w, "Showing %d of %d row(s) in %s\n", len(result.Rows), result.Total, result.Table)
}

func patientRow(p store.Patient) []string {
	return []string{
		strconv.FormatInt(p.ID, 10),
		strconv.Itoa(int(p.Age)),
		p.Gender,
		p.BloodType,
		p.MedicalCondition,
		p.BillingAmount.StringFixed(2),
		p.Medication,
		p.TestResults,
		p.DateOfAdmission.Format(dataset.DateLayout),
		p.AdmissionType,
	}
}
