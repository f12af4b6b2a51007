package hmda

import (
	"math"
	"strings"
)

// comparableBand is the half-width of the similarity window applied to loan
// amount and income when searching for comparable applications.
const comparableBand = 0.2

// QualificationParams describe the target loan for qualification scoring.
// CensusTract must already be resolved; geography resolution is the
// caller's concern.
type QualificationParams struct {
	LoanAmount   float64
	Income       float64
	PropertyType string
	CensusTract  string
	MSAMD        string
}

// QualificationFactorsResult scores a target loan against comparable
// historical applications and the tract's reference attributes. Rates and
// medians are nil when no comparable supports them.
type QualificationFactorsResult struct {
	SimilarApplicationsCount int            `json:"similar_applications_count"`
	ApprovalRate             *float64       `json:"approval_rate"`
	TypicalDTIRatio          *float64       `json:"typical_dti_ratio"`
	MedianLoanAmount         *float64       `json:"median_loan_amount"`
	MedianIncome             *float64       `json:"median_income"`
	TractIncomeLevel         IncomeLevel    `json:"tract_income_level"`
	IncomeToTractMedianRatio *float64       `json:"income_to_tract_median_ratio"`
	HousingMarketFactors     HousingFactors `json:"housing_market_factors"`
}

// QualificationFactors filters the record set down to comparable
// applications in three sequential steps (loan amount within ±20%, income
// within ±20%, dwelling category containing the property type) and scores
// the target against them. Each step filters the previous step's subset.
// It returns false when the tract is not in the reference data; dependent
// figures cannot be computed without it.
func QualificationFactors(t *Table, tracts TractSource, p QualificationParams) (*QualificationFactorsResult, bool) {
	if tracts == nil {
		return nil, false
	}
	tract, ok := tracts.Tract(p.CensusTract)
	if !ok {
		return nil, false
	}

	t = FilterByMSA(t, p.MSAMD)

	similarAmounts := selectRange(t, FieldLoanAmount,
		p.LoanAmount*(1-comparableBand), p.LoanAmount*(1+comparableBand))
	similarIncomes := selectRange(similarAmounts, FieldIncome,
		p.Income*(1-comparableBand), p.Income*(1+comparableBand))
	comparables := selectDwelling(similarIncomes, p.PropertyType)

	res := &QualificationFactorsResult{
		SimilarApplicationsCount: comparables.NumRows(),
		TractIncomeLevel:         tract.IncomeLevel(),
		IncomeToTractMedianRatio: divPtr(p.Income, tract.MedianFamilyIncome),
		HousingMarketFactors:     tract.HousingFactors(),
	}

	actions, _ := comparables.nums(FieldActionTaken)
	if comparables.NumRows() > 0 {
		r := rate(countAction(actions, ActionOriginated), comparables.NumRows())
		res.ApprovalRate = &r
	}

	if dtis, ok := comparables.nums(FieldDTIRatio); ok && len(actions) > 0 {
		approved := make([]float64, 0, len(dtis))
		for i, v := range dtis {
			if actions[i] == ActionOriginated {
				approved = append(approved, v)
			}
		}
		res.TypicalDTIRatio = medianPtr(approved)
	}

	if amounts, ok := comparables.nums(FieldLoanAmount); ok {
		res.MedianLoanAmount = medianPtr(amounts)
	}
	if incomes, ok := comparables.nums(FieldIncome); ok {
		res.MedianIncome = medianPtr(incomes)
	}

	return res, true
}

// selectRange keeps rows whose field value lies in [lo, hi]. Rows with a
// missing value never match.
func selectRange(t *Table, field string, lo, hi float64) *Table {
	vals, ok := t.nums(field)
	if !ok {
		return t.Select(make([]bool, t.NumRows()))
	}
	mask := make([]bool, t.NumRows())
	for i, v := range vals {
		mask[i] = !math.IsNaN(v) && v >= lo && v <= hi
	}
	return t.Select(mask)
}

// selectDwelling keeps rows whose dwelling category contains the property
// type, case-insensitively. Rows with a missing category never match.
func selectDwelling(t *Table, propertyType string) *Table {
	col, ok := t.Col(FieldDwellingCategory)
	if !ok || col.Kind != KindString {
		return t.Select(make([]bool, t.NumRows()))
	}
	want := strings.ToLower(strings.TrimSpace(propertyType))
	mask := make([]bool, t.NumRows())
	for i, s := range col.Str {
		if col.Missing(i) {
			continue
		}
		mask[i] = strings.Contains(strings.ToLower(s), want)
	}
	return t.Select(mask)
}

// LocalStats summarizes the local market for the qualification estimate.
type LocalStats struct {
	MedianLoanAmount *float64 `json:"median_loan_amount"`
	MedianIncome     *float64 `json:"median_income"`
	ApprovalRate     float64  `json:"approval_rate"`
}

// LocalStatistics computes market medians and the approval rate over the
// records with a known MSA/MD.
func LocalStatistics(t *Table) *LocalStats {
	if col, ok := t.Col(FieldMSAMD); ok {
		mask := make([]bool, t.NumRows())
		for i := range mask {
			mask[i] = !col.Missing(i)
		}
		t = t.Select(mask)
	}

	stats := &LocalStats{}
	if amounts, ok := t.nums(FieldLoanAmount); ok {
		stats.MedianLoanAmount = medianPtr(amounts)
	}
	if incomes, ok := t.nums(FieldIncome); ok {
		stats.MedianIncome = medianPtr(incomes)
	}
	actions, _ := t.nums(FieldActionTaken)
	stats.ApprovalRate = rate(countAction(actions, ActionOriginated), t.NumRows())
	return stats
}

// EstimateDTI estimates a debt-to-income ratio for a purchase at the given
// property value, assuming a 20% down payment on a 30-year loan at the
// default rate plus 1.5% of the property value per year in taxes and
// insurance. Returns false when income is not positive.
func EstimateDTI(income, propertyValue float64) (float64, bool) {
	if income <= 0 {
		return 0, false
	}
	loanAmount := propertyValue * 0.8
	monthly := MonthlyPayment(loanAmount, DefaultInterestRate, DefaultTermYears)
	monthly += (propertyValue * 0.015) / 12
	return (monthly * 12) / income, true
}

// EstimateLTV computes a loan-to-value ratio. Returns false when the
// property value is not positive.
func EstimateLTV(propertyValue, loanAmount float64) (float64, bool) {
	if propertyValue <= 0 {
		return 0, false
	}
	return loanAmount / propertyValue, true
}
