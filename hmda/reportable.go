package hmda

// ReportabilityInput describes a single loan for the disclosure decision.
// Zero values are the conservative defaults: an unsecured, zero-amount loan.
type ReportabilityInput struct {
	SecuredByDwelling   bool    `json:"secured_by_dwelling"`
	LoanAmount          float64 `json:"loan_amount"`
	TemporaryFinancing  bool    `json:"temporary_financing"`
	AgriculturalPurpose bool    `json:"agricultural_purpose"`
	BusinessPurpose     bool    `json:"business_purpose"`
	LoanPurpose         string  `json:"loan_purpose"`
}

// Purposes under which a business-purpose loan stays reportable.
const (
	PurposeHomePurchase    = "home_purchase"
	PurposeHomeImprovement = "home_improvement"
	PurposeRefinancing     = "refinancing"
)

// IsReportable decides whether a loan is subject to HMDA disclosure.
// The rules are evaluated in a fixed order and the first exclusion wins;
// later rules assume earlier ones did not already exclude the record.
func IsReportable(in ReportabilityInput) (bool, string) {
	if !in.SecuredByDwelling {
		return false, "Loan not secured by a dwelling"
	}
	if in.LoanAmount < 500 {
		return false, "Loan amount below $500 threshold"
	}
	if in.TemporaryFinancing {
		return false, "Temporary financing excluded"
	}
	if in.AgriculturalPurpose {
		return false, "Agricultural purpose excluded"
	}
	if in.BusinessPurpose {
		switch in.LoanPurpose {
		case PurposeHomePurchase, PurposeHomeImprovement, PurposeRefinancing:
		default:
			return false, "Business purpose loan not for home purchase, improvement, or refinancing"
		}
	}
	return true, "Loan is HMDA reportable"
}
