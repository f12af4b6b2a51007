package hmda

// Column names used across the pipeline. Derived columns keep the exact
// header spelling of the data-browser CSV extracts, hyphens included.
const (
	FieldApplicationDate = "application_date"
	FieldLoanType        = "loan_type"
	FieldLoanPurpose     = "loan_purpose"
	FieldLoanAmount      = "loan_amount"
	FieldActionTaken     = "action_taken"
	FieldState           = "state"
	FieldCounty          = "county"
	FieldCensusTract     = "census_tract"
	FieldEthnicity       = "ethnicity"
	FieldRace            = "race"
	FieldSex             = "sex"
	FieldIncome          = "income"
	FieldPurchaserType   = "purchaser_type"
	FieldHOEPAStatus     = "hoepa_status"
	FieldLienStatus      = "lien_status"
	FieldNumberOfUnits   = "number_of_units"

	FieldMSAMD            = "derived_msa-md"
	FieldDwellingCategory = "derived_dwelling_category"
	FieldDerivedRace      = "derived_race"
	FieldDerivedEthnicity = "derived_ethnicity"
	FieldDerivedSex       = "derived_sex"
	FieldRateSpread       = "rate_spread"
	FieldDTIRatio         = "debt_to_income_ratio"
	FieldCombinedLTV      = "combined_loan_to_value_ratio"
	FieldPropertyValue    = "property_value"
	FieldDenialReason1    = "denial_reason-1"
	FieldDenialReason2    = "denial_reason-2"
	FieldDenialReason3    = "denial_reason-3"
	FieldDenialReason4    = "denial_reason-4"
)

// Action-taken codes (HMDA schedule).
const (
	ActionOriginated          = 1
	ActionApprovedNotAccepted = 2
	ActionDenied              = 3
	ActionWithdrawn           = 4
	ActionIncomplete          = 5
	ActionPurchased           = 6
	ActionPreapprovalDenied   = 7
	ActionPreapprovalApproved = 8
)

type fieldSpec struct {
	Name string
	Kind Kind
}

// requiredFields is the fixed schema contract for a loan record set, in
// reporting order.
var requiredFields = []fieldSpec{
	{FieldApplicationDate, KindString},
	{FieldLoanType, KindInt},
	{FieldLoanPurpose, KindInt},
	{FieldLoanAmount, KindFloat},
	{FieldActionTaken, KindInt},
	{FieldState, KindString},
	{FieldCounty, KindString},
	{FieldCensusTract, KindString},
	{FieldEthnicity, KindString},
	{FieldRace, KindString},
	{FieldSex, KindString},
	{FieldIncome, KindFloat},
	{FieldPurchaserType, KindInt},
	{FieldHOEPAStatus, KindInt},
	{FieldLienStatus, KindInt},
	{FieldNumberOfUnits, KindInt},
}

// optionalNumericFields are derived columns coerced best-effort during
// validation so the aggregation queries can treat them as numeric.
// Unparseable cells become missing values and are never reported.
var optionalNumericFields = []fieldSpec{
	{FieldMSAMD, KindFloat},
	{FieldRateSpread, KindFloat},
	{FieldDTIRatio, KindFloat},
	{FieldCombinedLTV, KindFloat},
	{FieldPropertyValue, KindFloat},
	{FieldDenialReason1, KindFloat},
	{FieldDenialReason2, KindFloat},
	{FieldDenialReason3, KindFloat},
	{FieldDenialReason4, KindFloat},
}

// loanTypeNames maps HMDA loan-type codes to program names.
var loanTypeNames = map[int]string{
	1: "Conventional",
	2: "FHA",
	3: "VA",
	4: "USDA/FSA",
}

// denialReasonNames maps HMDA denial-reason codes to their descriptions.
// Codes outside this table are dropped from distributions.
var denialReasonNames = map[int]string{
	1: "Debt-to-income ratio",
	2: "Employment history",
	3: "Credit history",
	4: "Collateral",
	5: "Insufficient cash",
	6: "Unverifiable information",
	7: "Credit application incomplete",
	8: "Mortgage insurance denied",
	9: "Other",
}

// denialReasonFields lists the up-to-four denial reason columns pooled by
// the denial-pattern analysis.
var denialReasonFields = []string{
	FieldDenialReason1,
	FieldDenialReason2,
	FieldDenialReason3,
	FieldDenialReason4,
}
