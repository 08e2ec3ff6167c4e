package transform

import "github.com/vvka-141/pgetl/internal/dataset"

// Column names of the patient admission file.
const (
	ColName             = "Name"
	ColGender           = "Gender"
	ColAge              = "Age"
	ColBloodType        = "Blood Type"
	ColMedicalCondition = "Medical Condition"
	ColBillingAmount    = "Billing Amount"
	ColMedication       = "Medication"
	ColTestResults      = "Test Results"
	ColDateOfAdmission  = "Date of Admission"
	ColAdmissionType    = "Admission Type"
)

// Age bounds, inclusive.
const (
	MinAge = 0
	MaxAge = 120
)

// BillingDivisor scales billing amounts to thousands.
const BillingDivisor = 1000.0

// OutputColumns is the column order of a transformed dataset.
var OutputColumns = []string{
	ColAge,
	ColGender,
	ColBloodType,
	ColMedicalCondition,
	ColBillingAmount,
	ColMedication,
	ColTestResults,
	ColDateOfAdmission,
	ColAdmissionType,
}

// textOutputColumns are output columns stored as text.
var textOutputColumns = []string{
	ColGender,
	ColBloodType,
	ColMedicalCondition,
	ColMedication,
	ColTestResults,
	ColAdmissionType,
}

// IngestionSchema returns the column kinds a reader should assign to the
// patient file. Columns not listed are inferred.
func IngestionSchema() map[string]dataset.Kind {
	return map[string]dataset.Kind{
		ColName:             dataset.KindText,
		ColGender:           dataset.KindText,
		ColAge:              dataset.KindInt64,
		ColBloodType:        dataset.KindText,
		ColMedicalCondition: dataset.KindText,
		ColBillingAmount:    dataset.KindFloat64,
		ColMedication:       dataset.KindText,
		ColTestResults:      dataset.KindText,
		ColDateOfAdmission:  dataset.KindText,
		ColAdmissionType:    dataset.KindText,
	}
}
