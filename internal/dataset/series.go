package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// Column is the type-erased view of a Series.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	NullCount() int

	// Format renders row i as text. Null renders as the empty string.
	Format(i int) string

	filter(mask Mask, n int) Column
}

// Series is a named column of values of type T with a validity mask.
type Series[T any] struct {
	name   string
	kind   Kind
	values []T
	valid  []bool
}

func newSeries[T any](name string, values []T, valid []bool) *Series[T] {
	v := make([]T, len(values))
	copy(v, values)

	ok := make([]bool, len(values))
	if valid == nil {
		for i := range ok {
			ok[i] = true
		}
	} else {
		if len(valid) != len(values) {
			panic(fmt.Sprintf("dataset: column %q has %d values but %d validity entries", name, len(values), len(valid)))
		}
		copy(ok, valid)
	}

	var zero T
	for i := range v {
		if !ok[i] {
			v[i] = zero
		}
	}

	return &Series[T]{name: name, kind: kindOf[T](), values: v, valid: ok}
}

// NewText creates a text column. A nil valid slice marks every value non-null.
func NewText(name string, values []string, valid []bool) *Series[string] {
	return newSeries(name, values, valid)
}

// NewInt64 creates a 64-bit integer column.
func NewInt64(name string, values []int64, valid []bool) *Series[int64] {
	return newSeries(name, values, valid)
}

// NewInt32 creates a 32-bit integer column.
func NewInt32(name string, values []int32, valid []bool) *Series[int32] {
	return newSeries(name, values, valid)
}

// NewFloat64 creates a float column.
func NewFloat64(name string, values []float64, valid []bool) *Series[float64] {
	return newSeries(name, values, valid)
}

// NewDate creates a calendar date column. Values are truncated to UTC midnight.
func NewDate(name string, values []time.Time, valid []bool) *Series[time.Time] {
	s := newSeries(name, values, valid)
	for i, t := range s.values {
		if s.valid[i] {
			s.values[i] = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return s
}

func (s *Series[T]) Name() string { return s.name }
func (s *Series[T]) Kind() Kind   { return s.kind }
func (s *Series[T]) Len() int     { return len(s.values) }

func (s *Series[T]) IsNull(i int) bool { return !s.valid[i] }

func (s *Series[T]) NullCount() int {
	n := 0
	for _, ok := range s.valid {
		if !ok {
			n++
		}
	}
	return n
}

// Value returns row i and whether it is non-null.
func (s *Series[T]) Value(i int) (T, bool) {
	return s.values[i], s.valid[i]
}

// Values returns a copy of the value slice. Null positions hold the zero value.
func (s *Series[T]) Values() []T {
	out := make([]T, len(s.values))
	copy(out, s.values)
	return out
}

// Valid returns a copy of the validity slice.
func (s *Series[T]) Valid() []bool {
	out := make([]bool, len(s.valid))
	copy(out, s.valid)
	return out
}

func (s *Series[T]) Format(i int) string {
	if !s.valid[i] {
		return ""
	}
	switch v := any(s.values[i]).(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(DateLayout)
	default:
		return fmt.Sprint(v)
	}
}

// Map applies fn to every non-null value. Nulls stay null.
func (s *Series[T]) Map(fn func(T) T) *Series[T] {
	out := newSeries(s.name, s.values, s.valid)
	for i, ok := range out.valid {
		if ok {
			out.values[i] = fn(out.values[i])
		}
	}
	return out
}

// Mask evaluates pred on every non-null value. Null rows are never selected.
func (s *Series[T]) Mask(pred func(T) bool) Mask {
	m := make(Mask, len(s.values))
	for i, ok := range s.valid {
		m[i] = ok && pred(s.values[i])
	}
	return m
}

// ValidMask selects the non-null rows.
func (s *Series[T]) ValidMask() Mask {
	m := make(Mask, len(s.valid))
	copy(m, s.valid)
	return m
}

func (s *Series[T]) filter(mask Mask, n int) Column {
	values := make([]T, 0, n)
	valid := make([]bool, 0, n)
	for i, keep := range mask {
		if keep {
			values = append(values, s.values[i])
			valid = append(valid, s.valid[i])
		}
	}
	return &Series[T]{name: s.name, kind: s.kind, values: values, valid: valid}
}

// Convert builds a column of a different type from s. fn receives each
// non-null value and returns the converted value and whether it is non-null.
// Nulls in s stay null.
func Convert[T, U any](s *Series[T], fn func(T) (U, bool)) *Series[U] {
	values := make([]U, s.Len())
	valid := make([]bool, s.Len())
	for i, ok := range s.valid {
		if ok {
			values[i], valid[i] = fn(s.values[i])
		}
	}
	out := newSeries(s.name, values, valid)
	if out.kind == KindDate {
		return any(NewDate(s.name, any(out.values).([]time.Time), out.valid)).(*Series[U])
	}
	return out
}

// TryConvert is Convert for conversions that can fail. The first error stops
// the conversion and is returned with the offending row index.
func TryConvert[T, U any](s *Series[T], fn func(T) (U, error)) (*Series[U], int, error) {
	values := make([]U, s.Len())
	for i, ok := range s.valid {
		if !ok {
			continue
		}
		v, err := fn(s.values[i])
		if err != nil {
			return nil, i, err
		}
		values[i] = v
	}
	out := newSeries(s.name, values, s.valid)
	if out.kind == KindDate {
		return any(NewDate(s.name, any(out.values).([]time.Time), out.valid)).(*Series[U]), -1, nil
	}
	return out, -1, nil
}
