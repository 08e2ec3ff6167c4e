package transform_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vvka-141/pgetl/internal/dataset"
	"github.com/vvka-141/pgetl/internal/transform"
)

var fullHeader = []string{
	transform.ColName,
	transform.ColAge,
	transform.ColGender,
	transform.ColBloodType,
	transform.ColMedicalCondition,
	transform.ColDateOfAdmission,
	transform.ColBillingAmount,
	transform.ColMedication,
	transform.ColTestResults,
	transform.ColAdmissionType,
}

// patient is one input row in fullHeader order. An empty cell is null.
type patient [10]string

func alice() patient {
	return patient{"Alice", "25", "Female", "A+", "Diabetes", "2023-01-01", "2000.0", "Insulin", "Normal", "Elective"}
}

func bob() patient {
	return patient{"BOB", "150", "Male", "B-", "Asthma", "2023-02-15", "1500.5", "Inhaler", "Abnormal", "Urgent"}
}

func charlie() patient {
	return patient{"Charlie", "30", "Male", "O+", "Flu", "invalid", "500", "Rest", "Normal", "Emergency"}
}

// frame builds a dataset typed the way ingestion types the patient file.
func frame(t *testing.T, rows ...patient) *dataset.Dataset {
	t.Helper()
	kinds := transform.IngestionSchema()

	cols := make([]dataset.Column, len(fullHeader))
	for j, name := range fullHeader {
		valid := make([]bool, len(rows))
		for i, r := range rows {
			valid[i] = r[j] != ""
		}
		switch kinds[name] {
		case dataset.KindInt64:
			values := make([]int64, len(rows))
			for i, r := range rows {
				if valid[i] {
					v, err := strconv.ParseInt(r[j], 10, 64)
					require.NoError(t, err)
					values[i] = v
				}
			}
			cols[j] = dataset.NewInt64(name, values, valid)
		case dataset.KindFloat64:
			values := make([]float64, len(rows))
			for i, r := range rows {
				if valid[i] {
					v, err := strconv.ParseFloat(r[j], 64)
					require.NoError(t, err)
					values[i] = v
				}
			}
			cols[j] = dataset.NewFloat64(name, values, valid)
		default:
			values := make([]string, len(rows))
			for i, r := range rows {
				values[i] = r[j]
			}
			cols[j] = dataset.NewText(name, values, valid)
		}
	}

	ds, err := dataset.New(cols...)
	require.NoError(t, err)
	return ds
}

func without(t *testing.T, ds *dataset.Dataset, drop string) *dataset.Dataset {
	t.Helper()
	var keep []string
	for _, n := range ds.Names() {
		if n != drop {
			keep = append(keep, n)
		}
	}
	out, err := ds.Select(keep...)
	require.NoError(t, err)
	return out
}
