package dataset

import (
	"fmt"
	"time"
)

// Dataset is an immutable, ordered collection of equally long columns.
type Dataset struct {
	cols   []Column
	index  map[string]int
	height int
}

// New builds a dataset from cols. Column names must be unique and all
// columns must have the same length.
func New(cols ...Column) (*Dataset, error) {
	ds := &Dataset{
		cols:  make([]Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := ds.index[c.Name()]; dup {
			return nil, fmt.Errorf("duplicate column %q: %w", c.Name(), ErrShape)
		}
		if i == 0 {
			ds.height = c.Len()
		} else if c.Len() != ds.height {
			return nil, fmt.Errorf("column %q has %d rows, want %d: %w", c.Name(), c.Len(), ds.height, ErrShape)
		}
		ds.index[c.Name()] = len(ds.cols)
		ds.cols = append(ds.cols, c)
	}
	return ds, nil
}

// MustNew is New for statically known inputs. It panics on error.
func MustNew(cols ...Column) *Dataset {
	ds, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return ds
}

// Height returns the number of rows.
func (d *Dataset) Height() int { return d.height }

// Width returns the number of columns.
func (d *Dataset) Width() int { return len(d.cols) }

// Names returns the column names in schema order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.cols))
	for i, c := range d.cols {
		names[i] = c.Name()
	}
	return names
}

// Schema returns the name and kind of every column in order.
func (d *Dataset) Schema() []Field {
	fields := make([]Field, len(d.cols))
	for i, c := range d.cols {
		fields[i] = Field{Name: c.Name(), Kind: c.Kind()}
	}
	return fields
}

// Columns returns the columns in schema order.
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.cols))
	copy(out, d.cols)
	return out
}

// Has reports whether the dataset has a column called name.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (Column, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, &ColumnError{Column: name, Err: ErrColumnNotFound}
	}
	return d.cols[i], nil
}

// Get returns the named column as a Series of type T.
func Get[T any](d *Dataset, name string) (*Series[T], error) {
	c, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	s, ok := c.(*Series[T])
	if !ok {
		return nil, &ColumnError{Column: name, Want: kindOf[T](), Got: c.Kind(), Err: ErrColumnKind}
	}
	return s, nil
}

func (d *Dataset) Text(name string) (*Series[string], error)     { return Get[string](d, name) }
func (d *Dataset) Int64(name string) (*Series[int64], error)     { return Get[int64](d, name) }
func (d *Dataset) Int32(name string) (*Series[int32], error)     { return Get[int32](d, name) }
func (d *Dataset) Float64(name string) (*Series[float64], error) { return Get[float64](d, name) }
func (d *Dataset) Date(name string) (*Series[time.Time], error)  { return Get[time.Time](d, name) }

// WithColumn replaces the same-named column, keeping its position, or
// appends col when no column has that name.
func (d *Dataset) WithColumn(col Column) (*Dataset, error) {
	if len(d.cols) > 0 && col.Len() != d.height {
		return nil, fmt.Errorf("column %q has %d rows, want %d: %w", col.Name(), col.Len(), d.height, ErrShape)
	}
	cols := d.Columns()
	if i, ok := d.index[col.Name()]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return New(cols...)
}

// Select projects the dataset onto names, in the given order.
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		c, err := d.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	ds, err := New(cols...)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		ds.height = d.height
	}
	return ds, nil
}

// Filter keeps the rows selected by mask. The mask length must equal Height.
func (d *Dataset) Filter(mask Mask) (*Dataset, error) {
	if len(mask) != d.height {
		return nil, fmt.Errorf("mask has %d entries for %d rows: %w", len(mask), d.height, ErrShape)
	}
	n := mask.Count()
	cols := make([]Column, len(d.cols))
	for i, c := range d.cols {
		cols[i] = c.filter(mask, n)
	}
	ds, err := New(cols...)
	if err != nil {
		return nil, err
	}
	ds.height = n
	return ds, nil
}

// NullMask selects the rows that have no null in any column.
func (d *Dataset) NullMask() Mask {
	m := AllTrue(d.height)
	for _, c := range d.cols {
		for i := range m {
			if m[i] && c.IsNull(i) {
				m[i] = false
			}
		}
	}
	return m
}

// DropNulls removes every row that has a null in any column.
func (d *Dataset) DropNulls() *Dataset {
	ds, err := d.Filter(d.NullMask())
	if err != nil {
		// NullMask always matches Height.
		panic(err)
	}
	return ds
}

// Head returns at most the first n rows.
func (d *Dataset) Head(n int) *Dataset {
	if n >= d.height {
		return d
	}
	m := make(Mask, d.height)
	for i := 0; i < n; i++ {
		m[i] = true
	}
	ds, _ := d.Filter(m)
	return ds
}

// Row renders row i as text, one entry per column.
func (d *Dataset) Row(i int) []string {
	row := make([]string, len(d.cols))
	for j, c := range d.cols {
		row[j] = c.Format(i)
	}
	return row
}
