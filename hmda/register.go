package hmda

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// RegisterStatistics summarizes a prepared register. Medians are nil when
// the column is unusable.
type RegisterStatistics struct {
	TotalOriginated  int      `json:"total_originated"`
	TotalDenied      int      `json:"total_denied"`
	TotalWithdrawn   int      `json:"total_withdrawn"`
	MedianLoanAmount *float64 `json:"median_loan_amount"`
	MedianIncome     *float64 `json:"median_income"`
}

// RegisterSummary reports the outcome of register preparation. Errors mean
// the input table was returned unchanged; warnings are quality-control
// findings on the formatted output.
type RegisterSummary struct {
	TotalRecords int                `json:"total_records"`
	Errors       []string           `json:"errors"`
	Warnings     []string           `json:"warnings"`
	Statistics   RegisterStatistics `json:"statistics"`
}

// registerDateLayout is the canonical LAR date form.
const registerDateLayout = "20060102"

// dateLayouts are the calendar forms accepted for application dates.
var dateLayouts = []string{
	registerDateLayout,
	"2006-01-02",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// PrepareRegister normalizes a validated record set into the canonical
// submission-ready LAR shape: loan amount and income rounded to whole
// dollars, application dates as 8-digit YYYYMMDD strings. Formatting is
// all-or-nothing: on missing-field or type errors, or any formatting
// failure, the original table is returned unchanged with the problem
// recorded in the summary.
func PrepareRegister(raw *Table) (*Table, *RegisterSummary) {
	summary := &RegisterSummary{
		TotalRecords: raw.NumRows(),
		Errors:       []string{},
		Warnings:     []string{},
	}

	clean, report := Validate(raw)
	if report.HasCriticalErrors() {
		summary.Errors = append(summary.Errors, report.MissingFields...)
		summary.Errors = append(summary.Errors, report.InvalidTypes...)
		return raw, summary
	}

	formatted := clean.Clone()

	if col, ok := formatted.Col(FieldLoanAmount); ok && col.IsNumeric() {
		formatted.setCol(FieldLoanAmount, roundColumn(col))
	}
	if col, ok := formatted.Col(FieldIncome); ok && col.IsNumeric() {
		formatted.setCol(FieldIncome, roundColumn(col))
	}

	if col, ok := formatted.Col(FieldApplicationDate); ok && col.Kind == KindString {
		normalized, err := normalizeDates(col)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Error preparing LAR: %v", err))
			return raw, summary
		}
		formatted.setCol(FieldApplicationDate, normalized)
	}

	if actions, ok := formatted.nums(FieldActionTaken); ok {
		summary.Statistics.TotalOriginated = countAction(actions, ActionOriginated)
		summary.Statistics.TotalDenied = countAction(actions, ActionDenied)
		summary.Statistics.TotalWithdrawn = countAction(actions, ActionWithdrawn)
	}
	if amounts, ok := formatted.nums(FieldLoanAmount); ok {
		summary.Statistics.MedianLoanAmount = medianPtr(amounts)
	}
	if incomes, ok := formatted.nums(FieldIncome); ok {
		summary.Statistics.MedianIncome = medianPtr(incomes)
	}

	qc := RunQC(formatted)
	for _, f := range qc.Flags {
		summary.Warnings = append(summary.Warnings, "QC Flag: "+f.String())
	}

	return formatted, summary
}

// roundColumn rounds every value to the nearest whole number.
func roundColumn(col *Column) *Column {
	rounded := make([]float64, len(col.Num))
	for i, v := range col.Num {
		if math.IsNaN(v) {
			rounded[i] = v
			continue
		}
		rounded[i] = math.Round(v)
	}
	return &Column{Kind: KindInt, Num: rounded}
}

// normalizeDates reformats every date cell to YYYYMMDD. Missing cells stay
// missing; an unparseable cell fails the whole column so the caller can
// roll back.
func normalizeDates(col *Column) (*Column, error) {
	out := make([]string, len(col.Str))
	for i, s := range col.Str {
		s = strings.TrimSpace(s)
		if missingTokens[s] {
			out[i] = ""
			continue
		}
		parsed, err := parseDate(s)
		if err != nil {
			return nil, fmt.Errorf("cannot parse application_date %q at row %d", s, i)
		}
		out[i] = parsed.Format(registerDateLayout)
	}
	return &Column{Kind: KindString, Str: out}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
