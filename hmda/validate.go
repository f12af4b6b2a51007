package hmda

import (
	"fmt"
	"math"
	"strings"
)

// ErrorCounts carries per-category validation error counts. Missing fields
// count field names, invalid types count failed columns, validation errors
// count violating records.
type ErrorCounts struct {
	MissingFields    int `json:"missing_fields"`
	InvalidTypes     int `json:"invalid_types"`
	ValidationErrors int `json:"validation_errors"`
}

// ValidationReport is the outcome of validating a raw record set. It is
// always returned fully populated; validation itself never fails.
type ValidationReport struct {
	MissingFields    []string    `json:"missing_required_fields"`
	InvalidTypes     []string    `json:"invalid_data_types"`
	ValidationErrors []string    `json:"validation_errors"`
	Counts           ErrorCounts `json:"error_counts"`
}

// HasCriticalErrors reports whether the record set is unusable for register
// formatting: required columns are absent or could not be coerced.
func (r *ValidationReport) HasCriticalErrors() bool {
	return len(r.MissingFields) > 0 || len(r.InvalidTypes) > 0
}

// Empty reports whether validation found nothing to complain about.
func (r *ValidationReport) Empty() bool {
	return len(r.MissingFields) == 0 && len(r.InvalidTypes) == 0 && len(r.ValidationErrors) == 0
}

// Validate enforces the required-field contract on a raw record set and
// returns a best-effort cleaned copy alongside the report. Columns are
// coerced to their expected kinds; a column that fails coercion is reported
// and left as-is. Rows are never dropped.
func Validate(raw *Table) (*Table, *ValidationReport) {
	report := &ValidationReport{
		MissingFields:    []string{},
		InvalidTypes:     []string{},
		ValidationErrors: []string{},
	}

	missing := make([]string, 0)
	for _, f := range requiredFields {
		if !raw.HasCol(f.Name) {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		report.MissingFields = append(report.MissingFields,
			"Missing required fields: "+strings.Join(missing, ", "))
		report.Counts.MissingFields = len(missing)
	}

	clean := raw.Clone()
	for _, f := range requiredFields {
		col, ok := clean.Col(f.Name)
		if !ok || f.Kind == KindString {
			continue
		}
		converted, err := col.toNumeric(f.Kind)
		if err != nil {
			report.InvalidTypes = append(report.InvalidTypes,
				fmt.Sprintf("Error converting %s to %s: %v", f.Name, f.Kind, err))
			report.Counts.InvalidTypes++
			continue
		}
		clean.setCol(f.Name, converted)

		switch f.Name {
		case FieldLoanAmount:
			if n := countNonPositive(converted.Num); n > 0 {
				report.ValidationErrors = append(report.ValidationErrors,
					fmt.Sprintf("Invalid loan amounts found: %d records", n))
				report.Counts.ValidationErrors += n
			}
		case FieldActionTaken:
			if n := countInvalidActions(converted.Num); n > 0 {
				report.ValidationErrors = append(report.ValidationErrors,
					fmt.Sprintf("Invalid action taken codes found: %d records", n))
				report.Counts.ValidationErrors += n
			}
		}
	}

	// Derived columns the aggregations treat as numeric are coerced
	// best-effort; unparseable cells become missing values.
	for _, f := range optionalNumericFields {
		if col, ok := clean.Col(f.Name); ok && !col.IsNumeric() {
			clean.setCol(f.Name, col.toNumericLenient(f.Kind))
		}
	}

	return clean, report
}

func countNonPositive(vals []float64) int {
	n := 0
	for _, v := range vals {
		if !math.IsNaN(v) && v <= 0 {
			n++
		}
	}
	return n
}

// countInvalidActions counts records whose action-taken code is not an
// integer in 1..8. A missing code is invalid; it cannot be accepted as any
// disposition.
func countInvalidActions(vals []float64) int {
	n := 0
	for _, v := range vals {
		if math.IsNaN(v) || v < ActionOriginated || v > ActionPreapprovalApproved {
			n++
		}
	}
	return n
}
