package hmda

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"hmda-lens/helpers"
)

// Quality-control policy constants.
const (
	highDenialRateLimit     = 0.4
	highWithdrawalRateLimit = 0.2
	outlierIQRFactor        = 1.5
	highAmountQuantile      = 0.9
)

// Flag types emitted by the quality-control engine.
const (
	FlagOutlier            = "outlier"
	FlagHighDenialRate     = "high_denial_rate"
	FlagHighWithdrawalRate = "high_withdrawal_rate"
	FlagMissingRateSpread  = "missing_rate_spread"
)

// Flag is a single quality-control finding. Only the fields relevant to the
// flag type are set; the rest stay zero and are omitted from JSON.
type Flag struct {
	Type      string  `json:"type"`
	Field     string  `json:"field,omitempty"`
	Count     int     `json:"count,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// String renders the flag for humans, as used in register warnings.
func (f Flag) String() string {
	switch f.Type {
	case FlagOutlier:
		return fmt.Sprintf("outlier values in %s: %d records above %s",
			f.Field, f.Count, formatFieldValue(f.Field, f.Threshold))
	case FlagHighDenialRate:
		return fmt.Sprintf("high denial rate: %.1f%% of applications denied", f.Value*100)
	case FlagHighWithdrawalRate:
		return fmt.Sprintf("high withdrawal rate: %.1f%% of applications withdrawn", f.Value*100)
	case FlagMissingRateSpread:
		return fmt.Sprintf("missing rate spread on %d high-amount loans", f.Count)
	default:
		return f.Type
	}
}

// formatFieldValue renders a numeric value in the field's natural unit.
func formatFieldValue(field string, v float64) string {
	switch field {
	case FieldLoanAmount, FieldIncome, FieldPropertyValue:
		return helpers.FormatUSD(v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// QCResult is the outcome of a quality-control run over a cleaned table.
type QCResult struct {
	CheckID         string             `json:"check_id"`
	GeneratedAt     time.Time          `json:"generated_at"`
	TotalRecords    int                `json:"total_records"`
	Flags           []Flag             `json:"flags"`
	Statistics      map[string]float64 `json:"statistics"`
	Recommendations []string           `json:"recommendations"`
}

// RunQC performs the statistical quality-control checks over a validated
// record set. It is deterministic and read-only apart from the generated
// check id and timestamp.
func RunQC(t *Table) *QCResult {
	res := &QCResult{
		CheckID:         uuid.NewString(),
		GeneratedAt:     time.Now().UTC(),
		TotalRecords:    t.NumRows(),
		Flags:           []Flag{},
		Statistics:      map[string]float64{},
		Recommendations: []string{},
	}

	for _, field := range []string{FieldLoanAmount, FieldIncome, FieldRateSpread} {
		vals, ok := t.nums(field)
		if !ok {
			continue
		}
		q1, ok1 := quantile(vals, 0.25)
		q3, ok3 := quantile(vals, 0.75)
		if !ok1 || !ok3 {
			continue
		}
		threshold := q3 + outlierIQRFactor*(q3-q1)
		count := 0
		for _, v := range vals {
			if v > threshold {
				count++
			}
		}
		if count > 0 {
			res.Flags = append(res.Flags, Flag{
				Type:      FlagOutlier,
				Field:     field,
				Count:     count,
				Threshold: threshold,
			})
		}
	}

	actions, _ := t.nums(FieldActionTaken)
	total := t.NumRows()
	res.Statistics["denial_rate"] = rate(countAction(actions, ActionDenied), total)
	res.Statistics["withdrawal_rate"] = rate(countAction(actions, ActionWithdrawn), total)
	res.Statistics["incomplete_rate"] = rate(countAction(actions, ActionIncomplete), total)

	if res.Statistics["denial_rate"] > highDenialRateLimit {
		res.Flags = append(res.Flags, Flag{Type: FlagHighDenialRate, Value: res.Statistics["denial_rate"]})
	}
	if res.Statistics["withdrawal_rate"] > highWithdrawalRateLimit {
		res.Flags = append(res.Flags, Flag{Type: FlagHighWithdrawalRate, Value: res.Statistics["withdrawal_rate"]})
	}

	if amounts, ok := t.nums(FieldLoanAmount); ok {
		if spreads, ok := t.nums(FieldRateSpread); ok {
			if p90, okq := quantile(amounts, highAmountQuantile); okq {
				count := 0
				for i, amount := range amounts {
					if amount > p90 && math.IsNaN(spreads[i]) {
						count++
					}
				}
				if count > 0 {
					res.Flags = append(res.Flags, Flag{Type: FlagMissingRateSpread, Count: count})
				}
			}
		}
	}

	if len(res.Flags) > 0 {
		res.Recommendations = append(res.Recommendations,
			"Review flagged records for data accuracy and completeness")
		for _, f := range res.Flags {
			if f.Type == FlagOutlier {
				res.Recommendations = append(res.Recommendations,
					"Implement additional validation rules for outlier values")
				break
			}
		}
	}

	return res
}

// countAction counts records with the given action-taken code.
func countAction(actions []float64, code int) int {
	n := 0
	for _, v := range actions {
		if v == float64(code) {
			n++
		}
	}
	return n
}
