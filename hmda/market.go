package hmda

import "math"

// Default amortization assumptions for affordability estimates.
const (
	DefaultInterestRate = 0.07
	DefaultTermYears    = 30
)

// MonthlyPayment computes the payment on a fixed-rate fully-amortizing
// mortgage.
func MonthlyPayment(amount, annualRate float64, termYears int) float64 {
	r := annualRate / 12
	n := float64(termYears * 12)
	if r == 0 {
		return amount / n
	}
	f := math.Pow(1+r, n)
	return amount * (r * f) / (f - 1)
}

// MarketAssessmentResult reports tract-level affordability of a proposed
// loan.
type MarketAssessmentResult struct {
	MedianFamilyIncome   float64  `json:"median_family_income"`
	AffordabilityRatio   *float64 `json:"affordability_ratio"`
	OwnerOccupiedPercent *float64 `json:"owner_occupied_percent"`
	MedianHomeAge        float64  `json:"median_home_age"`
}

// MarketAssessment estimates how affordable a proposed loan amount is in a
// tract: the annualized payment on an amortizing mortgage at the given rate
// and term relative to the tract's median family income, plus ownership and
// housing-age context. Callers without a scenario in mind pass
// DefaultInterestRate and DefaultTermYears. It returns false when the tract
// is not in the reference data.
func MarketAssessment(tracts TractSource, tractID string, loanAmount, annualRate float64, termYears int) (*MarketAssessmentResult, bool) {
	if tracts == nil {
		return nil, false
	}
	tract, ok := tracts.Tract(tractID)
	if !ok {
		return nil, false
	}

	monthly := MonthlyPayment(loanAmount, annualRate, termYears)
	return &MarketAssessmentResult{
		MedianFamilyIncome:   tract.MedianFamilyIncome,
		AffordabilityRatio:   divPtr(monthly*12, tract.MedianFamilyIncome),
		OwnerOccupiedPercent: divPtr(tract.OwnerOccupiedUnits, tract.OneToFourFamilyHomes),
		MedianHomeAge:        tract.MedianHousingAge,
	}, true
}
