// Package export writes transformed patient data to files.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/vvka-141/pgetl/internal/dataset"
	"github.com/vvka-141/pgetl/internal/transform"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// flushInterval bounds the rows held in one row group.
const flushInterval = 100_000

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// PatientRow is the Parquet layout of one transformed patient.
type PatientRow struct {
	Age              int32   `parquet:"age"`
	Gender           string  `parquet:"gender,dict"`
	BloodType        string  `parquet:"blood_type,dict"`
	MedicalCondition string  `parquet:"medical_condition,dict"`
	BillingAmount    float64 `parquet:"billing_amount"`
	Medication       string  `parquet:"medication,dict"`
	TestResults      string  `parquet:"test_results,dict"`
	DateOfAdmission  int32   `parquet:"date_of_admission,date"`
	AdmissionType    string  `parquet:"admission_type,dict"`
}

// daysSinceEpoch encodes a calendar date the way the Parquet DATE type
// stores it.
func daysSinceEpoch(d time.Time) int32 {
	return int32(d.Sub(epoch) / (24 * time.Hour))
}

// rowsFromDataset reads the transform's output schema column by column.
// Billing Amount is copied as is; no storage scale applies to a file.
func rowsFromDataset(ds *dataset.Dataset) ([]PatientRow, error) {
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

	names := []string{
		transform.ColGender, transform.ColBloodType, transform.ColMedicalCondition,
		transform.ColMedication, transform.ColTestResults, transform.ColAdmissionType,
	}
	text := make([][]string, len(names))
	for j, name := range names {
		s, err := ds.Text(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", pgetl.ErrStorageFailed, err)
		}
		text[j] = s.Values()
	}

	complete := ds.NullMask()
	ages, amounts, dates := age.Values(), billing.Values(), admitted.Values()
	rows := make([]PatientRow, ds.Height())
	for i := range rows {
		if !complete[i] {
			return nil, fmt.Errorf("%w: row %d has null values: %v", pgetl.ErrStorageFailed, i, ds.Row(i))
		}
		rows[i] = PatientRow{
			Age:              ages[i],
			Gender:           text[0][i],
			BloodType:        text[1][i],
			MedicalCondition: text[2][i],
			BillingAmount:    amounts[i],
			Medication:       text[3][i],
			TestResults:      text[4][i],
			DateOfAdmission:  daysSinceEpoch(dates[i]),
			AdmissionType:    text[5][i],
		}
	}
	return rows, nil
}

// Writer streams transformed datasets into one Parquet stream.
type Writer struct {
	writer *parquet.GenericWriter[PatientRow]
	count  int
}

// NewWriter returns a Writer producing Snappy-compressed Parquet on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{writer: parquet.NewGenericWriter[PatientRow](w, parquet.Compression(&parquet.Snappy))}
}

// Write appends the rows of the transformed dataset ds.
func (w *Writer) Write(ds *dataset.Dataset) (int, error) {
	rows, err := rowsFromDataset(ds)
	if err != nil {
		return 0, err
	}

	written := 0
	for start := 0; start < len(rows); start += flushInterval {
		n, err := w.writer.Write(rows[start:min(start+flushInterval, len(rows))])
		written += n
		w.count += n
		if err != nil {
			return written, fmt.Errorf("write parquet rows: %w", err)
		}
		if err := w.writer.Flush(); err != nil {
			return written, fmt.Errorf("flush parquet row group: %w", err)
		}
	}
	return written, nil
}

// Count returns the number of rows written so far.
func (w *Writer) Count() int {
	return w.count
}

// Close writes the footer. It does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

// File is a Writer that owns the file it writes to.
type File struct {
	*Writer
	f    *os.File
	path string
}

// CreateFile creates (or truncates) path and returns a File writing to it.
func CreateFile(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}
	return &File{Writer: NewWriter(f), f: f, path: path}, nil
}

// Path returns the file name.
func (f *File) Path() string {
	return f.path
}

// Close writes the footer and closes the file.
func (f *File) Close() error {
	err := f.Writer.Close()
	if cerr := f.f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close parquet file: %w", cerr)
	}
	return err
}

// Abort closes and removes the file, so a failed export leaves nothing
// that looks like a complete result.
func (f *File) Abort() error {
	cerr := f.f.Close()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove partial parquet file: %w", err)
	}
	if cerr != nil && !errors.Is(cerr, os.ErrClosed) {
		return fmt.Errorf("close parquet file: %w", cerr)
	}
	return nil
}
