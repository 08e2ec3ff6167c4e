package transform

import (
	"strings"

	"github.com/vvka-141/pgetl/internal/dataset"
)

// Clean lowercases the Name and Gender columns. Nulls stay null and every
// other column is passed through. Clean is idempotent.
func Clean(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if ds == nil {
		return nil, &SchemaError{Stage: StageClean, Reason: "no dataset"}
	}

	out := ds
	for _, name := range []string{ColName, ColGender} {
		col, err := textColumn(StageClean, ds, name)
		if err != nil {
			return nil, err
		}
		if out, err = out.WithColumn(col.Map(strings.ToLower)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func textColumn(stage Stage, ds *dataset.Dataset, name string) (*dataset.Series[string], error) {
	col, err := ds.Column(name)
	if err != nil {
		return nil, missingColumn(stage, name)
	}
	if col.Kind() != dataset.KindText {
		return nil, wrongKind(stage, name, dataset.KindText, col.Kind())
	}
	return ds.Text(name)
}
