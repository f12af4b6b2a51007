package hmda

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorityBand(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
		ok   bool
	}{
		{pct: 0, ok: false},
		{pct: math.NaN(), ok: false},
		{pct: 0.1, want: "0-20%", ok: true},
		{pct: 20, want: "0-20%", ok: true},
		{pct: 20.1, want: "20-40%", ok: true},
		{pct: 60, want: "40-60%", ok: true},
		{pct: 100, want: "80-100%", ok: true},
		{pct: 100.5, ok: false},
	}
	for _, tt := range tests {
		got, ok := minorityBand(tt.pct)
		if ok != tt.ok {
			t.Errorf("pct %v: expected ok=%v, got %v", tt.pct, tt.ok, ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("pct %v: expected %s, got %s", tt.pct, tt.want, got)
		}
	}
}

func TestNeighborhood(t *testing.T) {
	res := Neighborhood(cleanLAR(t), sampleTracts(), "")

	assert.Equal(t, 0, res.UnmatchedRecords)

	require.Len(t, res.MinorityAnalysis, 4)
	assert.InDelta(t, 0.5, res.MinorityAnalysis["20-40%"].ApprovalRate, 1e-9)
	assert.InDelta(t, 1.0/3.0, res.MinorityAnalysis["60-80%"].ApprovalRate, 1e-9)
	assert.InDelta(t, 0.5, res.MinorityAnalysis["0-20%"].ApprovalRate, 1e-9)
	assert.InDelta(t, 0.0, res.MinorityAnalysis["40-60%"].ApprovalRate, 1e-9)
	assert.Nil(t, res.MinorityAnalysis["20-40%"].MedianDTIRatio,
		"minority buckets do not carry a DTI median")

	// The zero-percentage tract classifies as Not Known, which is a real
	// bucket here.
	require.Len(t, res.TractIncomeAnalysis, 4)
	assert.InDelta(t, 0.0, res.TractIncomeAnalysis["Not Known"].ApprovalRate, 1e-9)
	assert.InDelta(t, 0.5, res.TractIncomeAnalysis["Middle"].ApprovalRate, 1e-9)
	assert.InDelta(t, 1.0/3.0, res.TractIncomeAnalysis["Low"].ApprovalRate, 1e-9)
	assert.InDelta(t, 0.5, res.TractIncomeAnalysis["Upper"].ApprovalRate, 1e-9)
	require.NotNil(t, res.TractIncomeAnalysis["Middle"].MedianDTIRatio)

	wantOwner := (4*(800.0/1500.0) + 3*(500.0/1400.0) + 2*(1200.0/1600.0) + 900.0/1800.0) / 10
	require.NotNil(t, res.HousingIndicators.OwnerOccupiedRate)
	assert.InDelta(t, wantOwner, *res.HousingIndicators.OwnerOccupiedRate, 1e-9)
	require.NotNil(t, res.HousingIndicators.MedianHomeAge)
	assert.InDelta(t, 45, *res.HousingIndicators.MedianHomeAge, 1e-9)
}

func TestNeighborhoodFiltersTractsByMSA(t *testing.T) {
	res := Neighborhood(cleanLAR(t), sampleTracts(), "40140")

	// Three records carry this MSA/MD, but two of them sit in tracts that
	// belong to another one and count as unmatched.
	assert.Equal(t, 2, res.UnmatchedRecords)
	require.Len(t, res.MinorityAnalysis, 1)
	assert.Contains(t, res.MinorityAnalysis, "40-60%")
}

func TestNeighborhoodUnknownTracts(t *testing.T) {
	tbl := cleanLAR(t)
	col, _ := tbl.Col(FieldCensusTract)
	col.Str[0] = "99999999999"

	res := Neighborhood(tbl, sampleTracts(), "")
	assert.Equal(t, 1, res.UnmatchedRecords)
}

func TestIncomeLevels(t *testing.T) {
	var tracts []Tract
	for _, tr := range sampleTracts() {
		tracts = append(tracts, tr)
	}

	res, ok := IncomeLevels(cleanLAR(t), tracts, "")
	require.True(t, ok)
	assert.InDelta(t, 71500, res.AreaMedianIncome, 1e-9)

	rates := res.ApprovalRatesByIncomeLevel
	require.Len(t, rates, 4)
	assert.InDelta(t, 0.0, rates["Very Low"], 1e-9)
	assert.InDelta(t, 0.5, rates["Low"], 1e-9)
	assert.InDelta(t, 2.0/3.0, rates["Moderate"], 1e-9)
	assert.InDelta(t, 0.25, rates["High"], 1e-9)
}

func TestIncomeLevelsFiltered(t *testing.T) {
	var tracts []Tract
	for _, tr := range sampleTracts() {
		tracts = append(tracts, tr)
	}

	res, ok := IncomeLevels(cleanLAR(t), tracts, "31080")
	require.True(t, ok)
	assert.InDelta(t, 75000, res.AreaMedianIncome, 1e-9)
	assert.InDelta(t, 2.0/3.0, res.ApprovalRatesByIncomeLevel["Low"], 1e-9)
}

func TestIncomeLevelsNoTracts(t *testing.T) {
	_, ok := IncomeLevels(cleanLAR(t), nil, "")
	assert.False(t, ok)
}
