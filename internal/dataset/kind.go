package dataset

import (
	"fmt"
	"time"
)

// Kind is the logical type of a column.
type Kind int

const (
	KindText Kind = iota
	KindInt64
	KindInt32
	KindFloat64
	KindDate
)

// String returns the lowercase kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt64:
		return "int64"
	case KindInt32:
		return "int32"
	case KindFloat64:
		return "float64"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DateLayout is the calendar date format used for parsing and display.
const DateLayout = "2006-01-02"

// Field describes one column of a schema.
type Field struct {
	Name string
	Kind Kind
}

func kindOf[T any]() Kind {
	var zero T
	switch any(zero).(type) {
	case string:
		return KindText
	case int64:
		return KindInt64
	case int32:
		return KindInt32
	case float64:
		return KindFloat64
	case time.Time:
		return KindDate
	default:
		panic(fmt.Sprintf("dataset: unsupported column type %T", zero))
	}
}
