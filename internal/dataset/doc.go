// Package dataset implements the in-memory columnar table the pipeline
// operates on.
//
// A Dataset is an ordered set of equally long, uniquely named columns. Each
// column is a typed Series holding a value slice and a validity slice; a
// false validity entry marks the value as null and the stored value is the
// zero value of the column type.
//
// # Immutability
//
// Every operation returns a new Dataset or Series. Receivers are never
// modified, so a dataset handed from one stage to the next can be read by
// both without copying.
//
// # Example Usage
//
//	ds, err := dataset.New(
//	    dataset.NewText("Name", []string{"Alice", "Bob"}, nil),
//	    dataset.NewInt64("Age", []int64{25, 0}, []bool{true, false}),
//	)
//	ages, _ := ds.Int64("Age")
//	adults := ds.Filter(ages.Mask(func(v int64) bool { return v >= 18 }))
package dataset
