package hmda

import (
	"math"
	"testing"
)

// sampleLAR builds a raw 10-record loan application register covering the
// required schema plus the derived columns the aggregations read. All
// columns are strings, as they come off a CSV extract.
//
// Dispositions: 4 originated, 3 denied, 2 withdrawn, 1 incomplete.
func sampleLAR(t *testing.T) *Table {
	t.Helper()
	cols := []struct {
		name string
		vals []string
	}{
		{FieldApplicationDate, []string{
			"20230115", "2023-02-20", "03/10/2023", "20230405", "2023-05-12",
			"20230618", "07/22/2023", "20230815", "2023-09-30", "20231024"}},
		{FieldLoanType, []string{"1", "1", "2", "3", "1", "2", "1", "4", "1", "1"}},
		{FieldLoanPurpose, []string{"1", "1", "1", "31", "1", "32", "1", "4", "1", "5"}},
		{FieldLoanAmount, []string{
			"200000", "250000", "150000", "300000", "175000",
			"225000", "275000", "100000", "325000", "205000"}},
		{FieldActionTaken, []string{"1", "1", "1", "1", "3", "3", "3", "4", "4", "5"}},
		{FieldState, []string{"CA", "CA", "CA", "CA", "CA", "CA", "NV", "CA", "CA", "CA"}},
		{FieldCounty, []string{"037", "037", "037", "037", "037", "037", "003", "037", "037", "037"}},
		{FieldCensusTract, []string{
			"06037231210", "06037231220", "06037231210", "06037980010", "06037231220",
			"06037231210", "32003002204", "06037231220", "06037231210", "06037980010"}},
		{FieldEthnicity, []string{"2", "1", "2", "2", "1", "2", "2", "3", "2", "2"}},
		{FieldRace, []string{"5", "2", "3", "5", "5", "2", "5", "5", "3", "5"}},
		{FieldSex, []string{"1", "2", "1", "3", "1", "2", "1", "1", "2", "1"}},
		{FieldIncome, []string{
			"60000", "85000", "45000", "120000", "55000",
			"95000", "150000", "30000", "160000", "72000"}},
		{FieldPurchaserType, []string{"0", "1", "3", "0", "0", "2", "0", "0", "1", "0"}},
		{FieldHOEPAStatus, []string{"3", "3", "3", "2", "3", "3", "3", "3", "3", "3"}},
		{FieldLienStatus, []string{"1", "1", "1", "1", "2", "1", "1", "1", "1", "1"}},
		{FieldNumberOfUnits, []string{"1", "1", "1", "4", "1", "1", "1", "2", "1", "1"}},
		{FieldMSAMD, []string{
			"31080", "31080", "31080", "31080", "31080",
			"31080", "40140", "40140", "40140", ""}},
		{FieldDwellingCategory, []string{
			"Single Family (1-4 Units):Site-Built", "Single Family (1-4 Units):Site-Built",
			"Single Family (1-4 Units):Site-Built", "Multifamily:Site-Built",
			"Single Family (1-4 Units):Site-Built", "Single Family (1-4 Units):Site-Built",
			"Single Family (1-4 Units):Site-Built", "Multifamily:Site-Built",
			"Single Family (1-4 Units):Site-Built", "Single Family (1-4 Units):Site-Built"}},
		{FieldDerivedRace, []string{
			"White", "Asian", "Black or African American", "White", "White",
			"Asian", "White", "White", "Black or African American", "White"}},
		{FieldDerivedEthnicity, []string{
			"Not Hispanic or Latino", "Hispanic or Latino", "Not Hispanic or Latino",
			"Not Hispanic or Latino", "Hispanic or Latino", "Not Hispanic or Latino",
			"Not Hispanic or Latino", "Joint", "Not Hispanic or Latino",
			"Not Hispanic or Latino"}},
		{FieldDerivedSex, []string{
			"Male", "Female", "Male", "Joint", "Male",
			"Female", "Male", "Male", "Female", "Male"}},
		{FieldRateSpread, []string{
			"1.25", "0.875", "NA", "1.5", "2.125",
			"NA", "0.625", "3.875", "NA", "1.125"}},
		{FieldDTIRatio, []string{"36", "42", "38", "30", "45", "40", "35", "50", "28", "44"}},
		{FieldCombinedLTV, []string{"80", "85", "75", "90", "70", "82", "78", "95", "65", "88"}},
		{FieldPropertyValue, []string{
			"250000", "315000", "185000", "375000", "215000",
			"285000", "345000", "125000", "405000", "255000"}},
		{FieldDenialReason1, []string{"", "", "", "", "3", "1", "9", "", "", ""}},
		{FieldDenialReason2, []string{"", "", "", "", "4", "", "", "", "", ""}},
	}

	tbl := NewTable()
	for _, c := range cols {
		if err := tbl.AddStrings(c.name, c.vals); err != nil {
			t.Fatalf("building sample table: %v", err)
		}
	}
	return tbl
}

// cleanLAR validates the sample register and fails the test if the fixture
// itself does not pass clean.
func cleanLAR(t *testing.T) *Table {
	t.Helper()
	clean, report := Validate(sampleLAR(t))
	if !report.Empty() {
		t.Fatalf("sample table should validate cleanly, got %+v", report)
	}
	return clean
}

// tractMap is an in-memory TractSource for tests.
type tractMap map[string]Tract

func (m tractMap) Tract(id string) (Tract, bool) {
	tr, ok := m[id]
	return tr, ok
}

// sampleTracts covers every census tract referenced by sampleLAR.
func sampleTracts() tractMap {
	return tractMap{
		"06037231210": {
			ID: "06037231210", MSAMD: "31080",
			Population: 4200, MinorityPercent: 35.2,
			MedianFamilyIncome: 75000, TractToMSAIncomePct: 95.5,
			BelowPovertyPercent: 12.1,
			OwnerOccupiedUnits:  800, OneToFourFamilyHomes: 1100,
			MedianHousingAge: 45, TotalHousingUnits: 1500,
			VacantUnits: 120, RenterOccupiedUnits: 580,
		},
		"06037231220": {
			ID: "06037231220", MSAMD: "31080",
			Population: 5100, MinorityPercent: 72.5,
			MedianFamilyIncome: 42000, TractToMSAIncomePct: 45,
			BelowPovertyPercent: 28.4,
			OwnerOccupiedUnits:  500, OneToFourFamilyHomes: 900,
			MedianHousingAge: 58, TotalHousingUnits: 1400,
			VacantUnits: 200, RenterOccupiedUnits: 700,
		},
		"06037980010": {
			ID: "06037980010", MSAMD: "31080",
			Population: 3800, MinorityPercent: 15,
			MedianFamilyIncome: 110000, TractToMSAIncomePct: 130,
			BelowPovertyPercent: 4.2,
			OwnerOccupiedUnits:  1200, OneToFourFamilyHomes: 1300,
			MedianHousingAge: 30, TotalHousingUnits: 1600,
			VacantUnits: 80, RenterOccupiedUnits: 320,
		},
		"32003002204": {
			ID: "32003002204", MSAMD: "40140",
			Population: 6200, MinorityPercent: 55,
			MedianFamilyIncome: 68000, TractToMSAIncomePct: 0,
			BelowPovertyPercent: 18,
			OwnerOccupiedUnits:  900, OneToFourFamilyHomes: 1250,
			MedianHousingAge: 22, TotalHousingUnits: 1800,
			VacantUnits: 150, RenterOccupiedUnits: 750,
		},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
