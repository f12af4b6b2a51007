package hmda

import "math"

// Tract is one census-tract reference row as supplied by the reference-data
// loader. Counts and percentages keep the FFIEC flat-file semantics.
type Tract struct {
	ID                   string  `json:"census_tract"`
	MSAMD                string  `json:"msa_md"`
	Population           float64 `json:"population"`
	MinorityPercent      float64 `json:"minority_population_percent"`
	MedianFamilyIncome   float64 `json:"median_family_income"`
	TractToMSAIncomePct  float64 `json:"tract_to_msa_income_percent"`
	BelowPovertyPercent  float64 `json:"below_poverty_line_percent"`
	OwnerOccupiedUnits   float64 `json:"owner_occupied_units"`
	OneToFourFamilyHomes float64 `json:"one_to_four_family_homes"`
	MedianHousingAge     float64 `json:"median_home_age"`
	TotalHousingUnits    float64 `json:"total_housing_units"`
	VacantUnits          float64 `json:"vacant_units"`
	RenterOccupiedUnits  float64 `json:"renter_occupied_units"`
	InsidePrincipalCity  float64 `json:"inside_principal_city"`
}

// TractSource supplies census-tract reference rows by tract id. A miss is
// reported as (Tract{}, false), never as an error; dependent queries degrade
// to empty results.
type TractSource interface {
	Tract(id string) (Tract, bool)
}

// IncomeLevel classifies the tract per the FFIEC breakpoints.
func (t Tract) IncomeLevel() IncomeLevel {
	return ClassifyIncomeLevel(t.TractToMSAIncomePct)
}

// HousingFactors is the housing-market bundle derived from a tract's unit
// counts. Rates are nil when the tract reports no housing units.
type HousingFactors struct {
	OwnerOccupiedRate *float64 `json:"owner_occupied_rate"`
	VacancyRate       *float64 `json:"vacancy_rate"`
	MedianHomeAge     *float64 `json:"median_home_age"`
	SingleFamilyPct   *float64 `json:"single_family_pct"`
}

// HousingFactors derives the housing-market bundle for the tract.
func (t Tract) HousingFactors() HousingFactors {
	return HousingFactors{
		OwnerOccupiedRate: divPtr(t.OwnerOccupiedUnits, t.TotalHousingUnits),
		VacancyRate:       divPtr(t.VacantUnits, t.TotalHousingUnits),
		MedianHomeAge:     fptr(t.MedianHousingAge),
		SingleFamilyPct:   divPtr(t.OneToFourFamilyHomes, t.TotalHousingUnits),
	}
}

// TractDemographics is the flattened demographic view of a single tract
// served to the dashboard.
type TractDemographics struct {
	Population              float64     `json:"population"`
	MinorityPercent         float64     `json:"minority_population_percent"`
	MedianFamilyIncome      float64     `json:"median_family_income"`
	TractToMSAIncomePercent float64     `json:"tract_to_msa_income_percent"`
	TractIncomeLevel        IncomeLevel `json:"tract_income_level"`
	BelowPovertyPercent     float64     `json:"below_poverty_line_percent"`
	OwnerOccupiedUnits      float64     `json:"owner_occupied_units"`
	OneToFourFamilyHomes    float64     `json:"one_to_four_family_homes"`
	MedianHomeAge           float64     `json:"median_home_age"`
	TotalHousingUnits       float64     `json:"total_housing_units"`
	VacantUnits             float64     `json:"vacant_units"`
	RenterOccupiedUnits     float64     `json:"renter_occupied_units"`
	InsidePrincipalCity     float64     `json:"inside_principal_city"`
}

// Demographics summarizes the tract's reference attributes, including its
// FFIEC income level.
func (t Tract) Demographics() *TractDemographics {
	return &TractDemographics{
		Population:              t.Population,
		MinorityPercent:         t.MinorityPercent,
		MedianFamilyIncome:      t.MedianFamilyIncome,
		TractToMSAIncomePercent: t.TractToMSAIncomePct,
		TractIncomeLevel:        t.IncomeLevel(),
		BelowPovertyPercent:     t.BelowPovertyPercent,
		OwnerOccupiedUnits:      t.OwnerOccupiedUnits,
		OneToFourFamilyHomes:    t.OneToFourFamilyHomes,
		MedianHomeAge:           t.MedianHousingAge,
		TotalHousingUnits:       t.TotalHousingUnits,
		VacantUnits:             t.VacantUnits,
		RenterOccupiedUnits:     t.RenterOccupiedUnits,
		InsidePrincipalCity:     t.InsidePrincipalCity,
	}
}

// fptr returns a pointer to v, nil when v is NaN.
func fptr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// divPtr returns a/b as a pointer, nil when the quotient is undefined.
func divPtr(a, b float64) *float64 {
	if b == 0 || math.IsNaN(a) || math.IsNaN(b) {
		return nil
	}
	q := a / b
	return &q
}
