package transform

import "github.com/vvka-141/pgetl/internal/dataset"

// Validate drops rows whose Date of Admission is null. It expects the date
// column produced by Normalize.
func Validate(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if ds == nil {
		return nil, &SchemaError{Stage: StageValidate, Reason: "no dataset"}
	}

	col, err := ds.Column(ColDateOfAdmission)
	if err != nil {
		return nil, missingColumn(StageValidate, ColDateOfAdmission)
	}
	dates, err := ds.Date(ColDateOfAdmission)
	if err != nil {
		return nil, wrongKind(StageValidate, ColDateOfAdmission, dataset.KindDate, col.Kind())
	}
	return ds.Filter(dates.ValidMask())
}
