package hmda

import (
	"math"
	"testing"
)

func TestRecommendPrograms(t *testing.T) {
	tests := []struct {
		name        string
		dti         float64
		ltv         float64
		creditScore int
		loanTypes   []string
		likelihoods []string
	}{
		{
			name: "strong profile at conventional boundaries",
			dti:  0.43, ltv: 0.95, creditScore: 620,
			loanTypes:   []string{"Conventional", "FHA", "VA"},
			likelihoods: []string{"High", "High", "Unknown"},
		},
		{
			name: "score below conventional floor",
			dti:  0.30, ltv: 0.80, creditScore: 619,
			loanTypes:   []string{"FHA", "VA"},
			likelihoods: []string{"Medium", "Unknown"},
		},
		{
			name: "fha boundaries",
			dti:  0.50, ltv: 0.90, creditScore: 580,
			loanTypes:   []string{"FHA", "VA"},
			likelihoods: []string{"Medium", "Unknown"},
		},
		{
			name: "score below fha floor",
			dti:  0.30, ltv: 0.80, creditScore: 579,
			loanTypes:   []string{"VA"},
			likelihoods: []string{"Unknown"},
		},
		{
			name: "dti too high for conventional only",
			dti:  0.44, ltv: 0.80, creditScore: 700,
			loanTypes:   []string{"FHA", "VA"},
			likelihoods: []string{"High", "Unknown"},
		},
		{
			name: "ltv too high for conventional only",
			dti:  0.40, ltv: 0.96, creditScore: 700,
			loanTypes:   []string{"FHA", "VA"},
			likelihoods: []string{"High", "Unknown"},
		},
		{
			name: "undefined ratios leave only va",
			dti:  math.NaN(), ltv: math.NaN(), creditScore: 800,
			loanTypes:   []string{"VA"},
			likelihoods: []string{"Unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := RecommendPrograms(tt.dti, tt.ltv, tt.creditScore)
			if len(recs) != len(tt.loanTypes) {
				t.Fatalf("expected %d programs, got %d: %+v", len(tt.loanTypes), len(recs), recs)
			}
			for i, rec := range recs {
				if rec.LoanType != tt.loanTypes[i] {
					t.Errorf("program %d: expected %s, got %s", i, tt.loanTypes[i], rec.LoanType)
				}
				if rec.ApprovalLikelihood != tt.likelihoods[i] {
					t.Errorf("program %d: expected likelihood %s, got %s", i, tt.likelihoods[i], rec.ApprovalLikelihood)
				}
			}
		})
	}
}

func TestRecommendProgramRequirements(t *testing.T) {
	recs := RecommendPrograms(0.30, 0.80, 700)
	if len(recs) != 3 {
		t.Fatalf("expected 3 programs, got %d", len(recs))
	}

	wantReqs := map[string][]string{
		"Conventional": {"Credit score 620+", "DTI ratio <= 43%", "Down payment 5-20%"},
		"FHA":          {"Credit score 580+", "DTI ratio <= 50%", "Down payment 3.5%"},
		"VA":           {"Military service requirement", "No down payment required", "No minimum credit score"},
	}
	for _, rec := range recs {
		want := wantReqs[rec.LoanType]
		if len(rec.Requirements) != len(want) {
			t.Fatalf("%s: expected %d requirements, got %d", rec.LoanType, len(want), len(rec.Requirements))
		}
		for i, req := range rec.Requirements {
			if req != want[i] {
				t.Errorf("%s requirement %d: expected %q, got %q", rec.LoanType, i, want[i], req)
			}
		}
	}
}

func TestRecommendFromProfile(t *testing.T) {
	// Plenty of income against a modest property qualifies everywhere.
	recs := Recommend(150000, 700, 300000)
	if len(recs) != 3 {
		t.Fatalf("expected 3 programs, got %d", len(recs))
	}
	if recs[0].LoanType != "Conventional" || recs[0].ApprovalLikelihood != "High" {
		t.Errorf("expected high-likelihood Conventional first, got %+v", recs[0])
	}

	// No income means no ratios, so only VA survives.
	recs = Recommend(0, 800, 300000)
	if len(recs) != 1 || recs[0].LoanType != "VA" {
		t.Errorf("expected VA only, got %+v", recs)
	}
}
