package hmda

import (
	"math"
	"strconv"
	"strings"
)

// Minority-population bands. Right-closed like the income brackets, so a
// tract at exactly 20% falls in the first band.
var minorityBands = []struct {
	Limit float64
	Label string
}{
	{20, "0-20%"},
	{40, "20-40%"},
	{60, "40-60%"},
	{80, "60-80%"},
	{100, "80-100%"},
}

func minorityBand(pct float64) (string, bool) {
	if math.IsNaN(pct) || pct <= 0 {
		return "", false
	}
	for _, band := range minorityBands {
		if pct <= band.Limit {
			return band.Label, true
		}
	}
	return "", false
}

// sameMSA compares two geography codes, tolerating numeric and string
// renderings of the same code.
func sameMSA(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return na == nb
	}
	return a == b
}

// NeighborhoodBucketStats is the per-bucket readout of the neighborhood
// analysis. The DTI median is only reported for income-level buckets.
type NeighborhoodBucketStats struct {
	ApprovalRate        float64  `json:"approval_rate"`
	MedianLoanAmount    *float64 `json:"median_loan_amount"`
	MedianPropertyValue *float64 `json:"median_property_value"`
	MedianIncome        *float64 `json:"median_income"`
	MedianDTIRatio      *float64 `json:"median_dti_ratio,omitempty"`
}

// HousingIndicators are tract housing figures averaged across the records
// that matched a reference tract.
type HousingIndicators struct {
	OwnerOccupiedRate   *float64 `json:"owner_occupied_rate"`
	VacancyRate         *float64 `json:"vacancy_rate"`
	MedianHomeAge       *float64 `json:"median_home_age"`
	SingleFamilyHomePct *float64 `json:"single_family_home_pct"`
}

// NeighborhoodResult groups lending outcomes by the demographic and income
// character of the surrounding tract.
type NeighborhoodResult struct {
	MinorityAnalysis    map[string]NeighborhoodBucketStats `json:"minority_population_analysis"`
	TractIncomeAnalysis map[string]NeighborhoodBucketStats `json:"tract_income_analysis"`
	HousingIndicators   HousingIndicators                  `json:"housing_market_indicators"`
	UnmatchedRecords    int                                `json:"unmatched_records"`
}

// Neighborhood joins the record set to the tract reference data (left join
// on census tract; unmatched records keep no tract attributes and are
// excluded from tract-derived buckets) and reports lending outcomes by
// minority-population band and by FFIEC tract income level, plus averaged
// housing indicators. When a geography code is given, both the records and
// the matched tracts are restricted to it.
func Neighborhood(t *Table, tracts TractSource, msamd string) *NeighborhoodResult {
	t = FilterByMSA(t, msamd)
	res := &NeighborhoodResult{
		MinorityAnalysis:    map[string]NeighborhoodBucketStats{},
		TractIncomeAnalysis: map[string]NeighborhoodBucketStats{},
	}

	ids, ok := t.strs(FieldCensusTract)
	if !ok || tracts == nil {
		res.UnmatchedRecords = t.NumRows()
		return res
	}

	actions, _ := t.nums(FieldActionTaken)

	minorityRows := map[string][]int{}
	incomeLevelRows := map[string][]int{}
	var ownerRates, vacancyRates, singleFamilyPcts, homeAges []float64

	for i, id := range ids {
		tract, matched := tracts.Tract(strings.TrimSpace(id))
		if matched && msamd != "" && !sameMSA(tract.MSAMD, msamd) {
			matched = false
		}
		if !matched {
			res.UnmatchedRecords++
			continue
		}

		if band, ok := minorityBand(tract.MinorityPercent); ok {
			minorityRows[band] = append(minorityRows[band], i)
		}
		if !math.IsNaN(tract.TractToMSAIncomePct) {
			level := string(tract.IncomeLevel())
			incomeLevelRows[level] = append(incomeLevelRows[level], i)
		}

		if tract.TotalHousingUnits > 0 {
			ownerRates = append(ownerRates, tract.OwnerOccupiedUnits/tract.TotalHousingUnits)
			vacancyRates = append(vacancyRates, tract.VacantUnits/tract.TotalHousingUnits)
			singleFamilyPcts = append(singleFamilyPcts, tract.OneToFourFamilyHomes/tract.TotalHousingUnits)
		}
		homeAges = append(homeAges, tract.MedianHousingAge)
	}

	for band, idx := range minorityRows {
		res.MinorityAnalysis[band] = bucketStats(t, actions, idx, false)
	}
	for level, idx := range incomeLevelRows {
		res.TractIncomeAnalysis[level] = bucketStats(t, actions, idx, true)
	}

	res.HousingIndicators = HousingIndicators{
		OwnerOccupiedRate:   meanPtr(ownerRates),
		VacancyRate:         meanPtr(vacancyRates),
		MedianHomeAge:       medianPtr(homeAges),
		SingleFamilyHomePct: meanPtr(singleFamilyPcts),
	}

	return res
}

func bucketStats(t *Table, actions []float64, idx []int, withDTI bool) NeighborhoodBucketStats {
	stats := NeighborhoodBucketStats{ApprovalRate: approvalRate(actions, idx)}
	if amounts, ok := t.nums(FieldLoanAmount); ok {
		stats.MedianLoanAmount = medianPtr(pick(amounts, idx))
	}
	if values, ok := t.nums(FieldPropertyValue); ok {
		stats.MedianPropertyValue = medianPtr(pick(values, idx))
	}
	if incomes, ok := t.nums(FieldIncome); ok {
		stats.MedianIncome = medianPtr(pick(incomes, idx))
	}
	if withDTI {
		if dtis, ok := t.nums(FieldDTIRatio); ok {
			stats.MedianDTIRatio = medianPtr(pick(dtis, idx))
		}
	}
	return stats
}

// IncomeLevelsResult reports approval rates by applicant income relative to
// the area median income.
type IncomeLevelsResult struct {
	AreaMedianIncome           float64            `json:"area_median_income"`
	ApprovalRatesByIncomeLevel map[string]float64 `json:"approval_rates_by_income_level"`
}

// IncomeLevels categorizes applicant incomes against the area median family
// income (the median across the supplied reference tracts, restricted to
// the geography when given) and reports approval rates per category.
// It returns false when no reference tracts cover the area.
func IncomeLevels(t *Table, tracts []Tract, msamd string) (*IncomeLevelsResult, bool) {
	subset := make([]float64, 0, len(tracts))
	for _, tract := range tracts {
		if msamd != "" && !sameMSA(tract.MSAMD, msamd) {
			continue
		}
		subset = append(subset, tract.MedianFamilyIncome)
	}
	areaMedian, ok := median(subset)
	if !ok {
		return nil, false
	}

	t = FilterByMSA(t, msamd)
	res := &IncomeLevelsResult{
		AreaMedianIncome:           areaMedian,
		ApprovalRatesByIncomeLevel: map[string]float64{},
	}

	incomes, ok := t.nums(FieldIncome)
	if !ok {
		return res, true
	}
	actions, _ := t.nums(FieldActionTaken)

	counts := map[string]int{}
	approved := map[string]int{}
	for i, income := range incomes {
		if math.IsNaN(income) {
			continue
		}
		level := CategorizeIncome(income, areaMedian)
		counts[level]++
		if len(actions) > 0 && actions[i] == ActionOriginated {
			approved[level]++
		}
	}
	for level, n := range counts {
		res.ApprovalRatesByIncomeLevel[level] = rate(approved[level], n)
	}

	return res, true
}
