package hmda

import (
	"math"
	"testing"
)

func TestFilterByMSA(t *testing.T) {
	tbl := cleanLAR(t)

	tests := []struct {
		name string
		code string
		rows int
	}{
		{name: "empty code keeps everything", code: "", rows: 10},
		{name: "known code", code: "31080", rows: 6},
		{name: "other code", code: "40140", rows: 3},
		{name: "unknown code", code: "99999", rows: 0},
		{name: "unparseable code", code: "abc", rows: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByMSA(tbl, tt.code).NumRows()
			if got != tt.rows {
				t.Errorf("expected %d rows, got %d", tt.rows, got)
			}
		})
	}
}

func TestApprovalPatterns(t *testing.T) {
	res := ApprovalPatterns(cleanLAR(t), "")

	if !almostEqual(res.OverallApprovalRate, 0.4) {
		t.Errorf("expected overall rate 0.4, got %v", res.OverallApprovalRate)
	}

	wantTypes := map[string]float64{
		"Conventional": 2.0 / 6.0,
		"FHA":          0.5,
		"VA":           1.0,
		"USDA/FSA":     0.0,
	}
	if len(res.LoanTypeApprovalRates) != len(wantTypes) {
		t.Fatalf("expected %d loan types, got %v", len(wantTypes), res.LoanTypeApprovalRates)
	}
	for name, want := range wantTypes {
		if got, ok := res.LoanTypeApprovalRates[name]; !ok || !almostEqual(got, want) {
			t.Errorf("loan type %s: expected %v, got %v (ok=%v)", name, want, got, ok)
		}
	}

	wantBrackets := map[string]float64{
		"<50k":      0.5,
		"50k-100k":  0.4,
		"100k-150k": 0.5,
		">150k":     0.0,
	}
	if len(res.IncomeBracketApprovalRates) != len(wantBrackets) {
		t.Fatalf("expected %d brackets, got %v", len(wantBrackets), res.IncomeBracketApprovalRates)
	}
	for bracket, want := range wantBrackets {
		if got := res.IncomeBracketApprovalRates[bracket]; !almostEqual(got, want) {
			t.Errorf("bracket %s: expected %v, got %v", bracket, want, got)
		}
	}
}

func TestApprovalPatternsFiltered(t *testing.T) {
	res := ApprovalPatterns(cleanLAR(t), "31080")

	if !almostEqual(res.OverallApprovalRate, 4.0/6.0) {
		t.Errorf("expected overall rate 4/6, got %v", res.OverallApprovalRate)
	}
	if got := res.LoanTypeApprovalRates["Conventional"]; !almostEqual(got, 2.0/3.0) {
		t.Errorf("expected Conventional 2/3, got %v", got)
	}
	if got := res.LoanTypeApprovalRates["VA"]; !almostEqual(got, 1.0) {
		t.Errorf("expected VA 1.0, got %v", got)
	}
	if _, ok := res.LoanTypeApprovalRates["USDA/FSA"]; ok {
		t.Error("USDA/FSA loans are outside this MSA/MD")
	}
}

func TestIncomeBracketBoundaries(t *testing.T) {
	tests := []struct {
		income float64
		want   string
		ok     bool
	}{
		{income: 50000, want: bracketUnder50k, ok: true},
		{income: 50001, want: bracket50to100k, ok: true},
		{income: 100000, want: bracket50to100k, ok: true},
		{income: 150000, want: bracket100to150k, ok: true},
		{income: 150001, want: bracketOver150k, ok: true},
		{income: 0, ok: false},
		{income: -10, ok: false},
		{income: math.NaN(), ok: false},
	}

	for _, tt := range tests {
		got, ok := incomeBracket(tt.income)
		if ok != tt.ok {
			t.Errorf("income %v: expected ok=%v, got %v", tt.income, tt.ok, ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("income %v: expected %s, got %s", tt.income, tt.want, got)
		}
	}
}

func TestDenialPatterns(t *testing.T) {
	res := DenialPatterns(cleanLAR(t), "")

	if !almostEqual(res.DenialRate, 0.3) {
		t.Errorf("expected denial rate 0.3, got %v", res.DenialRate)
	}

	want := map[string]int{
		"Credit history":       1,
		"Debt-to-income ratio": 1,
		"Other":                1,
		"Collateral":           1,
	}
	if len(res.ReasonDistribution) != len(want) {
		t.Fatalf("expected %d reasons, got %v", len(want), res.ReasonDistribution)
	}
	for reason, count := range want {
		if got := res.ReasonDistribution[reason]; got != count {
			t.Errorf("reason %s: expected %d, got %d", reason, count, got)
		}
	}
}

func TestDenialPatternsIgnoresUnknownCodes(t *testing.T) {
	tbl := cleanLAR(t)
	col, _ := tbl.Col(FieldDenialReason1)
	col.Num[4] = 10 // off the schedule

	res := DenialPatterns(tbl, "")
	if _, ok := res.ReasonDistribution["Credit history"]; ok {
		t.Error("expected replaced reason to vanish")
	}
	total := 0
	for _, n := range res.ReasonDistribution {
		total += n
	}
	if total != 3 {
		t.Errorf("expected 3 counted reasons, got %d", total)
	}
}
