package transform

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/pgetl/internal/dataset"
)

type normalizeStats struct {
	inRange       int
	complete      int
	unparsedDates int
}

// Normalize filters, projects and retypes a cleaned dataset:
//
//  1. keep rows with Age in [MinAge, MaxAge]; null ages are dropped
//  2. drop rows with a null in any column of the input
//  3. project OutputColumns
//  4. divide Billing Amount by BillingDivisor
//  5. parse Date of Admission as YYYY-MM-DD; unparseable dates become null
//  6. store Age as int32
//
// Step 2 runs before the projection, so a null in a column that is about to
// be discarded (Name, or any extra column) still drops the row.
func Normalize(ds *dataset.Dataset) (*dataset.Dataset, error) {
	out, _, err := normalize(ds)
	return out, err
}

func normalize(ds *dataset.Dataset) (*dataset.Dataset, normalizeStats, error) {
	var stats normalizeStats
	if ds == nil {
		return nil, stats, &SchemaError{Stage: StageNormalize, Reason: "no dataset"}
	}

	for _, name := range OutputColumns {
		if !ds.Has(name) {
			return nil, stats, missingColumn(StageNormalize, name)
		}
	}

	typed, err := coerce(ds)
	if err != nil {
		return nil, stats, err
	}

	inRange, err := ageInRange(typed)
	if err != nil {
		return nil, stats, err
	}
	out, err := typed.Filter(inRange)
	if err != nil {
		return nil, stats, err
	}
	stats.inRange = out.Height()

	// Only rows that survived the range filter need a whole-number age.
	age, err := out.Column(ColAge)
	if err != nil {
		return nil, stats, err
	}
	ages, err := toInt64(age)
	if err != nil {
		var typeErr *TypeError
		if errors.As(err, &typeErr) {
			typeErr.Row = sourceRow(inRange, typeErr.Row)
		}
		return nil, stats, err
	}
	if out, err = out.WithColumn(ages); err != nil {
		return nil, stats, err
	}

	out = out.DropNulls()
	stats.complete = out.Height()

	if out, err = out.Select(OutputColumns...); err != nil {
		return nil, stats, err
	}

	billing, err := out.Float64(ColBillingAmount)
	if err != nil {
		return nil, stats, err
	}
	if out, err = out.WithColumn(billing.Map(func(v float64) float64 { return v / BillingDivisor })); err != nil {
		return nil, stats, err
	}

	dates, err := parseDates(out)
	if err != nil {
		return nil, stats, err
	}
	stats.unparsedDates = dates.NullCount()
	if out, err = out.WithColumn(dates); err != nil {
		return nil, stats, err
	}

	if ages, err = out.Int64(ColAge); err != nil {
		return nil, stats, err
	}
	// Range filtered above, so the narrowing is lossless.
	age32 := dataset.Convert(ages, func(v int64) (int32, bool) { return int32(v), true })
	if out, err = out.WithColumn(age32); err != nil {
		return nil, stats, err
	}

	return out, stats, nil
}

// coerce casts Billing Amount to float64 and the remaining output columns
// to text, reporting the first value that cannot be cast. Age is left to
// ageInRange and toInt64.
func coerce(ds *dataset.Dataset) (*dataset.Dataset, error) {
	bill, err := ds.Column(ColBillingAmount)
	if err != nil {
		return nil, missingColumn(StageNormalize, ColBillingAmount)
	}
	amounts, err := toFloat64(bill)
	if err != nil {
		return nil, err
	}

	date, err := ds.Column(ColDateOfAdmission)
	if err != nil {
		return nil, missingColumn(StageNormalize, ColDateOfAdmission)
	}
	if k := date.Kind(); k != dataset.KindText && k != dataset.KindDate {
		return nil, typeErrorAt(date, dataset.KindDate)
	}

	out, err := ds.WithColumn(amounts)
	if err != nil {
		return nil, err
	}

	for _, name := range textOutputColumns {
		col, err := out.Column(name)
		if err != nil {
			return nil, missingColumn(StageNormalize, name)
		}
		if col.Kind() == dataset.KindText {
			continue
		}
		if out, err = out.WithColumn(formatAsText(col)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ageInRange selects the rows whose Age lies in [MinAge, MaxAge]. The
// comparison runs on a float64 view, so an out-of-range age that is not a
// whole number is filtered rather than rejected.
func ageInRange(ds *dataset.Dataset) (dataset.Mask, error) {
	col, err := ds.Column(ColAge)
	if err != nil {
		return nil, missingColumn(StageNormalize, ColAge)
	}

	var view *dataset.Series[float64]
	switch s := col.(type) {
	case *dataset.Series[int64]:
		view = dataset.Convert(s, func(v int64) (float64, bool) { return float64(v), true })
	case *dataset.Series[int32]:
		view = dataset.Convert(s, func(v int32) (float64, bool) { return float64(v), true })
	case *dataset.Series[float64]:
		view = s
	case *dataset.Series[string]:
		var row int
		view, row, err = dataset.TryConvert(s, func(v string) (float64, error) {
			return strconv.ParseFloat(strings.TrimSpace(v), 64)
		})
		if err != nil {
			return nil, &TypeError{Stage: StageNormalize, Column: col.Name(), Row: row, Value: col.Format(row), Target: dataset.KindInt64}
		}
	default:
		return nil, typeErrorAt(col, dataset.KindInt64)
	}
	return view.Mask(func(v float64) bool { return v >= MinAge && v <= MaxAge }), nil
}

// sourceRow maps row i of a filtered dataset back to its row before mask
// was applied.
func sourceRow(mask dataset.Mask, i int) int {
	for row, keep := range mask {
		if !keep {
			continue
		}
		if i == 0 {
			return row
		}
		i--
	}
	return i
}

func toInt64(col dataset.Column) (*dataset.Series[int64], error) {
	var (
		out *dataset.Series[int64]
		row int
		err error
	)
	switch s := col.(type) {
	case *dataset.Series[int64]:
		return s, nil
	case *dataset.Series[int32]:
		return dataset.Convert(s, func(v int32) (int64, bool) { return int64(v), true }), nil
	case *dataset.Series[float64]:
		out, row, err = dataset.TryConvert(s, func(v float64) (int64, error) {
			if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
				return 0, fmt.Errorf("%v is not a whole number", v)
			}
			return int64(v), nil
		})
	case *dataset.Series[string]:
		out, row, err = dataset.TryConvert(s, func(v string) (int64, error) {
			return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		})
	default:
		return nil, typeErrorAt(col, dataset.KindInt64)
	}
	if err != nil {
		return nil, &TypeError{Stage: StageNormalize, Column: col.Name(), Row: row, Value: col.Format(row), Target: dataset.KindInt64}
	}
	return out, nil
}

func toFloat64(col dataset.Column) (*dataset.Series[float64], error) {
	switch s := col.(type) {
	case *dataset.Series[float64]:
		return s, nil
	case *dataset.Series[int64]:
		return dataset.Convert(s, func(v int64) (float64, bool) { return float64(v), true }), nil
	case *dataset.Series[int32]:
		return dataset.Convert(s, func(v int32) (float64, bool) { return float64(v), true }), nil
	case *dataset.Series[string]:
		out, row, err := dataset.TryConvert(s, func(v string) (float64, error) {
			return strconv.ParseFloat(strings.TrimSpace(v), 64)
		})
		if err != nil {
			return nil, &TypeError{Stage: StageNormalize, Column: col.Name(), Row: row, Value: col.Format(row), Target: dataset.KindFloat64}
		}
		return out, nil
	default:
		return nil, typeErrorAt(col, dataset.KindFloat64)
	}
}

func parseDates(ds *dataset.Dataset) (*dataset.Series[time.Time], error) {
	col, err := ds.Column(ColDateOfAdmission)
	if err != nil {
		return nil, missingColumn(StageNormalize, ColDateOfAdmission)
	}
	switch s := col.(type) {
	case *dataset.Series[time.Time]:
		return s, nil
	case *dataset.Series[string]:
		return dataset.Convert(s, func(v string) (time.Time, bool) {
			d, err := time.Parse(dataset.DateLayout, v)
			return d, err == nil
		}), nil
	default:
		return nil, typeErrorAt(col, dataset.KindDate)
	}
}

func formatAsText(col dataset.Column) *dataset.Series[string] {
	values := make([]string, col.Len())
	valid := make([]bool, col.Len())
	for i := range values {
		if !col.IsNull(i) {
			values[i] = col.Format(i)
			valid[i] = true
		}
	}
	return dataset.NewText(col.Name(), values, valid)
}

// typeErrorAt reports a whole column that cannot be cast, pointing at its
// first non-null value.
func typeErrorAt(col dataset.Column, target dataset.Kind) *TypeError {
	row := 0
	for row < col.Len() && col.IsNull(row) {
		row++
	}
	e := &TypeError{Stage: StageNormalize, Column: col.Name(), Row: row, Target: target}
	if row < col.Len() {
		e.Value = col.Format(row)
	}
	return e
}
