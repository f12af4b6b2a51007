package hmda

import "math"

// IncomeLevel is the FFIEC classification of a census tract's median family
// income relative to its MSA/MD.
type IncomeLevel string

const (
	IncomeLevelNotKnown IncomeLevel = "Not Known"
	IncomeLevelLow      IncomeLevel = "Low"
	IncomeLevelModerate IncomeLevel = "Moderate"
	IncomeLevelMiddle   IncomeLevel = "Middle"
	IncomeLevelUpper    IncomeLevel = "Upper"
)

// ClassifyIncomeLevel maps a tract-to-MSA/MD median family income percentage
// to its FFIEC income level. Every income-level derivation in the package
// goes through this function; the breakpoints are fixed policy.
func ClassifyIncomeLevel(tractToMSAPercent float64) IncomeLevel {
	switch {
	case math.IsNaN(tractToMSAPercent), tractToMSAPercent == 0:
		return IncomeLevelNotKnown
	case tractToMSAPercent < 50:
		return IncomeLevelLow
	case tractToMSAPercent < 80:
		return IncomeLevelModerate
	case tractToMSAPercent < 120:
		return IncomeLevelMiddle
	default:
		return IncomeLevelUpper
	}
}

// CategorizeIncome buckets an applicant income relative to the area median
// income. Used by the income-level lending analysis.
func CategorizeIncome(income, areaMedianIncome float64) string {
	switch {
	case income <= areaMedianIncome*0.5:
		return "Very Low"
	case income <= areaMedianIncome*0.8:
		return "Low"
	case income <= areaMedianIncome*1.2:
		return "Moderate"
	default:
		return "High"
	}
}
