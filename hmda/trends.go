package hmda

// MedianValues carries the market-trend medians. Each is nil when its
// column is unusable.
type MedianValues struct {
	MedianLoanAmount    *float64 `json:"median_loan_amount"`
	MedianIncome        *float64 `json:"median_income"`
	MedianPropertyValue *float64 `json:"median_property_value"`
	MedianLTV           *float64 `json:"median_ltv"`
}

// MarketTrendsResult reports category distributions and medians for a
// market.
type MarketTrendsResult struct {
	LoanTypeDistribution     map[string]int `json:"loan_type_distribution"`
	PropertyTypeDistribution map[string]int `json:"property_type_distribution"`
	LoanPurposeDistribution  map[string]int `json:"loan_purpose_distribution"`
	MedianValues             MedianValues   `json:"median_values"`
}

// MarketTrends analyzes market composition over a cleaned record set,
// optionally restricted to one MSA/MD. Loan types outside the program table
// are dropped from the loan-type distribution.
func MarketTrends(t *Table, msamd string) *MarketTrendsResult {
	t = FilterByMSA(t, msamd)
	res := &MarketTrendsResult{
		LoanTypeDistribution:     map[string]int{},
		PropertyTypeDistribution: map[string]int{},
		LoanPurposeDistribution:  map[string]int{},
	}

	if col, ok := t.Col(FieldLoanType); ok {
		for i := 0; i < col.Len(); i++ {
			v, ok := col.Float(i)
			if !ok {
				continue
			}
			if name, known := loanTypeNames[int(v)]; known && v == float64(int(v)) {
				res.LoanTypeDistribution[name]++
			}
		}
	}

	if col, ok := t.Col(FieldDwellingCategory); ok {
		for label, idx := range groupIndices(col) {
			res.PropertyTypeDistribution[label] = len(idx)
		}
	}

	if col, ok := t.Col(FieldLoanPurpose); ok {
		for label, idx := range groupIndices(col) {
			res.LoanPurposeDistribution[label] = len(idx)
		}
	}

	if vals, ok := t.nums(FieldLoanAmount); ok {
		res.MedianValues.MedianLoanAmount = medianPtr(vals)
	}
	if vals, ok := t.nums(FieldIncome); ok {
		res.MedianValues.MedianIncome = medianPtr(vals)
	}
	if vals, ok := t.nums(FieldPropertyValue); ok {
		res.MedianValues.MedianPropertyValue = medianPtr(vals)
	}
	if vals, ok := t.nums(FieldCombinedLTV); ok {
		res.MedianValues.MedianLTV = medianPtr(vals)
	}

	return res
}

// DemographicGroupStats is the per-group readout of the demographic
// analysis.
type DemographicGroupStats struct {
	ApprovalRate     float64  `json:"approval_rate"`
	MedianLoanAmount *float64 `json:"median_loan_amount"`
	MedianIncome     *float64 `json:"median_income"`
}

// DemographicsResult groups lending outcomes by the derived demographic
// columns.
type DemographicsResult struct {
	Race      map[string]DemographicGroupStats `json:"race"`
	Ethnicity map[string]DemographicGroupStats `json:"ethnicity"`
	Sex       map[string]DemographicGroupStats `json:"sex"`
}

// Demographics analyzes lending patterns by derived race, ethnicity, and
// sex, optionally restricted to one MSA/MD.
func Demographics(t *Table, msamd string) *DemographicsResult {
	t = FilterByMSA(t, msamd)
	return &DemographicsResult{
		Race:      demographicBreakdown(t, FieldDerivedRace),
		Ethnicity: demographicBreakdown(t, FieldDerivedEthnicity),
		Sex:       demographicBreakdown(t, FieldDerivedSex),
	}
}

func demographicBreakdown(t *Table, field string) map[string]DemographicGroupStats {
	out := map[string]DemographicGroupStats{}
	col, ok := t.Col(field)
	if !ok {
		return out
	}
	actions, _ := t.nums(FieldActionTaken)
	amounts, _ := t.nums(FieldLoanAmount)
	incomes, _ := t.nums(FieldIncome)

	for label, idx := range groupIndices(col) {
		stats := DemographicGroupStats{ApprovalRate: approvalRate(actions, idx)}
		if amounts != nil {
			stats.MedianLoanAmount = medianPtr(pick(amounts, idx))
		}
		if incomes != nil {
			stats.MedianIncome = medianPtr(pick(incomes, idx))
		}
		out[label] = stats
	}
	return out
}

// YearTrendSummary is one year's worth of demographic trend figures.
// Group shares and approvals are keyed "<demographic>_<group>".
type YearTrendSummary struct {
	Year              int                `json:"year"`
	TotalApplications int                `json:"total_applications"`
	ApprovalRate      float64            `json:"approval_rate"`
	MedianLoan        *float64           `json:"median_loan"`
	MedianIncome      *float64           `json:"median_income"`
	GroupShares       map[string]float64 `json:"group_shares"`
	GroupApprovals    map[string]float64 `json:"group_approvals"`
}

// demographicTrendFields maps the summary key prefix to its table column.
var demographicTrendFields = []struct {
	Prefix string
	Field  string
}{
	{"race", FieldDerivedRace},
	{"ethnicity", FieldDerivedEthnicity},
	{"sex", FieldDerivedSex},
}

// SummarizeYear condenses one year's cleaned record set into the trend
// figures used by the year-over-year demographic view.
func SummarizeYear(t *Table, year int) *YearTrendSummary {
	summary := &YearTrendSummary{
		Year:              year,
		TotalApplications: t.NumRows(),
		GroupShares:       map[string]float64{},
		GroupApprovals:    map[string]float64{},
	}

	actions, _ := t.nums(FieldActionTaken)
	summary.ApprovalRate = rate(countAction(actions, ActionOriginated), t.NumRows())
	if vals, ok := t.nums(FieldLoanAmount); ok {
		summary.MedianLoan = medianPtr(vals)
	}
	if vals, ok := t.nums(FieldIncome); ok {
		summary.MedianIncome = medianPtr(vals)
	}

	for _, demo := range demographicTrendFields {
		col, ok := t.Col(demo.Field)
		if !ok {
			continue
		}
		for label, idx := range groupIndices(col) {
			key := demo.Prefix + "_" + label
			summary.GroupShares[key] = rate(len(idx), t.NumRows())
			summary.GroupApprovals[key] = approvalRate(actions, idx)
		}
	}

	return summary
}
