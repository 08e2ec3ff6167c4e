package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/vvka-141/pgetl/internal/dataset"
)

// ErrMalformedCSV indicates input that cannot be parsed as a CSV table.
var ErrMalformedCSV = errors.New("malformed CSV")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// MalformedError describes where a CSV stream stopped making sense.
// It is never worth retrying.
type MalformedError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	loc := "line " + strconv.Itoa(e.Line)
	if e.Path != "" {
		loc = e.Path + ":" + strconv.Itoa(e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s at %s: %s: %v", ErrMalformedCSV, loc, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s at %s: %s", ErrMalformedCSV, loc, e.Reason)
}

func (e *MalformedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedCSV}
	}
	return []error{ErrMalformedCSV, e.Err}
}

// Permanent marks malformed input as non-retryable.
func (e *MalformedError) Permanent() bool { return true }

// Options controls how cells become typed columns.
type Options struct {
	// Types pins the kind of named columns. A pinned numeric or date column
	// whose cells do not all parse is kept as text.
	Types map[string]dataset.Kind
}

// ReadCSV parses r into a dataset. The first record is the header. Empty
// cells are null. Columns without a pinned kind are inferred as Int64, then
// Float64, then Text.
func ReadCSV(r io.Reader, opts Options) (*dataset.Dataset, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, &MalformedError{Line: 1, Reason: "missing header row"}
	}
	if err != nil {
		return nil, parseError(err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	cells := make([][]string, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(err)
		}
		for j, v := range record {
			cells[j] = append(cells[j], v)
		}
	}

	cols := make([]dataset.Column, len(header))
	for j, name := range header {
		kind, pinned := opts.Types[name]
		cols[j] = buildColumn(name, cells[j], kind, pinned)
	}
	return dataset.New(cols...)
}

func checkHeader(header []string) error {
	seen := make(map[string]int, len(header))
	for j, name := range header {
		if name == "" {
			return &MalformedError{Line: 1, Reason: fmt.Sprintf("column %d has an empty name", j+1)}
		}
		if prev, dup := seen[name]; dup {
			return &MalformedError{Line: 1, Reason: fmt.Sprintf("duplicate column %q (columns %d and %d)", name, prev+1, j+1)}
		}
		seen[name] = j
	}
	return nil
}

func parseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		reason := "invalid record"
		if errors.Is(pe.Err, csv.ErrFieldCount) {
			reason = "field count differs from header"
		}
		return &MalformedError{Line: pe.Line, Reason: reason, Err: pe.Err}
	}
	return err
}

func buildColumn(name string, cells []string, kind dataset.Kind, pinned bool) dataset.Column {
	if !pinned {
		return inferColumn(name, cells)
	}
	switch kind {
	case dataset.KindInt64:
		if values, valid, ok := parseCells(cells, parseInt64); ok {
			return dataset.NewInt64(name, values, valid)
		}
	case dataset.KindInt32:
		if values, valid, ok := parseCells(cells, parseInt32); ok {
			return dataset.NewInt32(name, values, valid)
		}
	case dataset.KindFloat64:
		if values, valid, ok := parseCells(cells, parseFloat64); ok {
			return dataset.NewFloat64(name, values, valid)
		}
	case dataset.KindDate:
		if values, valid, ok := parseCells(cells, parseDate); ok {
			return dataset.NewDate(name, values, valid)
		}
	}
	return textColumn(name, cells)
}

func inferColumn(name string, cells []string) dataset.Column {
	nonNull := 0
	for _, c := range cells {
		if c != "" {
			nonNull++
		}
	}
	if nonNull == 0 {
		return textColumn(name, cells)
	}
	if values, valid, ok := parseCells(cells, parseInt64); ok {
		return dataset.NewInt64(name, values, valid)
	}
	if values, valid, ok := parseCells(cells, parseFloat64); ok {
		return dataset.NewFloat64(name, values, valid)
	}
	return textColumn(name, cells)
}

func textColumn(name string, cells []string) dataset.Column {
	values := make([]string, len(cells))
	valid := make([]bool, len(cells))
	for i, c := range cells {
		if c != "" {
			values[i] = c
			valid[i] = true
		}
	}
	return dataset.NewText(name, values, valid)
}

// parseCells parses every non-empty cell, reporting ok=false on the first
// failure.
func parseCells[T any](cells []string, parse func(string) (T, error)) ([]T, []bool, bool) {
	values := make([]T, len(cells))
	valid := make([]bool, len(cells))
	for i, c := range cells {
		if c == "" {
			continue
		}
		v, err := parse(c)
		if err != nil {
			return nil, nil, false
		}
		values[i] = v
		valid[i] = true
	}
	return values, valid, true
}

func parseInt64(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int32(v), err
}

func parseFloat64(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

func parseDate(s string) (time.Time, error) { return time.Parse(dataset.DateLayout, s) }
