package transform_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/pgetl/internal/dataset"
	"github.com/vvka-141/pgetl/internal/transform"
)

func TestValidate_DropsNullDates(t *testing.T) {
	ds := dataset.MustNew(
		dataset.NewInt32(transform.ColAge, []int32{25, 30, 40}, nil),
		dataset.NewDate(transform.ColDateOfAdmission, []time.Time{
			time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), {}, time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		}, []bool{true, false, true}),
	)

	out, err := transform.Validate(ds)
	require.NoError(t, err)

	ages, err := out.Int32(transform.ColAge)
	require.NoError(t, err)
	assert.Equal(t, []int32{25, 40}, ages.Values())
}

func TestValidate_RequiresDateColumn(t *testing.T) {
	tests := []struct {
		name string
		ds   *dataset.Dataset
	}{
		{"missing", dataset.MustNew(dataset.NewInt32(transform.ColAge, []int32{1}, nil))},
		{"still text", dataset.MustNew(dataset.NewText(transform.ColDateOfAdmission, []string{"2023-01-01"}, nil))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transform.Validate(tt.ds)

			var schemaErr *transform.SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, transform.StageValidate, schemaErr.Stage)
			assert.Equal(t, transform.ColDateOfAdmission, schemaErr.Column)
		})
	}
}
