package hmda

import "math"

// Underwriting cutoffs per loan program.
const (
	conventionalMinCreditScore = 620
	conventionalMaxDTI         = 0.43
	conventionalMaxLTV         = 0.95

	fhaMinCreditScore = 580
	fhaMaxDTI         = 0.50
)

// Recommendation is a loan program a borrower profile plausibly fits.
type Recommendation struct {
	LoanType           string   `json:"loan_type"`
	ApprovalLikelihood string   `json:"approval_likelihood"`
	Requirements       []string `json:"requirements"`
}

// RecommendPrograms matches precomputed borrower ratios against program
// cutoffs. Boundary values qualify. A VA entry is always included with an
// unknown likelihood since service eligibility cannot be derived from the
// inputs. Undefined ratios (NaN) fail every cutoff.
func RecommendPrograms(dti, ltv float64, creditScore int) []Recommendation {
	var recs []Recommendation

	if creditScore >= conventionalMinCreditScore && dti <= conventionalMaxDTI && ltv <= conventionalMaxLTV {
		recs = append(recs, Recommendation{
			LoanType:           "Conventional",
			ApprovalLikelihood: "High",
			Requirements: []string{
				"Credit score 620+",
				"DTI ratio <= 43%",
				"Down payment 5-20%",
			},
		})
	}

	if creditScore >= fhaMinCreditScore && dti <= fhaMaxDTI {
		likelihood := "Medium"
		if creditScore >= conventionalMinCreditScore {
			likelihood = "High"
		}
		recs = append(recs, Recommendation{
			LoanType:           "FHA",
			ApprovalLikelihood: likelihood,
			Requirements: []string{
				"Credit score 580+",
				"DTI ratio <= 50%",
				"Down payment 3.5%",
			},
		})
	}

	recs = append(recs, Recommendation{
		LoanType:           "VA",
		ApprovalLikelihood: "Unknown",
		Requirements: []string{
			"Military service requirement",
			"No down payment required",
			"No minimum credit score",
		},
	})

	return recs
}

// Recommend estimates the borrower's ratios from income and property value,
// assuming a 20% down payment, then matches programs.
func Recommend(income float64, creditScore int, propertyValue float64) []Recommendation {
	dti, ok := EstimateDTI(income, propertyValue)
	if !ok {
		dti = math.NaN()
	}
	ltv, ok := EstimateLTV(propertyValue, propertyValue*0.8)
	if !ok {
		ltv = math.NaN()
	}
	return RecommendPrograms(dti, ltv, creditScore)
}
