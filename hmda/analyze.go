package hmda

import (
	"math"
	"strconv"
	"strings"
)

// Income bracket labels for approval-pattern grouping. Brackets are
// right-closed: an income of exactly 50000 falls in the first bracket.
const (
	bracketUnder50k  = "<50k"
	bracket50to100k  = "50k-100k"
	bracket100to150k = "100k-150k"
	bracketOver150k  = ">150k"
)

// FilterByMSA restricts the table to rows whose derived MSA/MD equals code.
// An empty code or an absent geography column leaves the table untouched.
func FilterByMSA(t *Table, code string) *Table {
	code = strings.TrimSpace(code)
	if code == "" || !t.HasCol(FieldMSAMD) {
		return t
	}
	col, _ := t.Col(FieldMSAMD)
	mask := make([]bool, t.NumRows())
	if col.IsNumeric() {
		want, err := strconv.ParseFloat(code, 64)
		if err != nil {
			return t.Select(mask)
		}
		for i, v := range col.Num {
			mask[i] = v == want
		}
	} else {
		for i, s := range col.Str {
			mask[i] = strings.TrimSpace(s) == code
		}
	}
	return t.Select(mask)
}

// Float reads cell i as a number regardless of the column kind. Missing
// and unparseable cells report false.
func (c *Column) Float(i int) (float64, bool) {
	if c.IsNumeric() {
		v := c.Num[i]
		return v, !math.IsNaN(v)
	}
	v, err := parseNumeric(c.Str[i], KindFloat)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// groupIndices maps each non-missing group label to its row indices.
// Numeric labels render without a decimal point.
func groupIndices(col *Column) map[string][]int {
	groups := make(map[string][]int)
	for i := 0; i < col.Len(); i++ {
		if col.Missing(i) {
			continue
		}
		label := strings.TrimSpace(col.cell(i))
		groups[label] = append(groups[label], i)
	}
	return groups
}

// pick gathers vals at the given row indices.
func pick(vals []float64, idx []int) []float64 {
	out := make([]float64, 0, len(idx))
	for _, i := range idx {
		out = append(out, vals[i])
	}
	return out
}

// approvalRate returns the fraction of the given rows that were originated.
func approvalRate(actions []float64, idx []int) float64 {
	if len(actions) == 0 {
		return 0
	}
	n := 0
	for _, i := range idx {
		if actions[i] == ActionOriginated {
			n++
		}
	}
	return rate(n, len(idx))
}

// loanTypeName maps a loan-type group label to its program name, keeping
// the numeric label when the code is unknown.
func loanTypeName(label string) string {
	if code, err := strconv.Atoi(label); err == nil {
		if name, ok := loanTypeNames[code]; ok {
			return name
		}
	}
	return label
}

// incomeBracket buckets an income into the fixed approval-pattern brackets.
// Missing and non-positive incomes are unbracketed.
func incomeBracket(income float64) (string, bool) {
	switch {
	case math.IsNaN(income) || income <= 0:
		return "", false
	case income <= 50000:
		return bracketUnder50k, true
	case income <= 100000:
		return bracket50to100k, true
	case income <= 150000:
		return bracket100to150k, true
	default:
		return bracketOver150k, true
	}
}

// ApprovalPatternsResult reports approval rates overall and grouped by loan
// type and income bracket.
type ApprovalPatternsResult struct {
	OverallApprovalRate        float64            `json:"overall_approval_rate"`
	LoanTypeApprovalRates      map[string]float64 `json:"loan_type_approval_rates"`
	IncomeBracketApprovalRates map[string]float64 `json:"income_bracket_approval_rates"`
}

// ApprovalPatterns analyzes approval patterns over a cleaned record set,
// optionally restricted to one MSA/MD.
func ApprovalPatterns(t *Table, msamd string) *ApprovalPatternsResult {
	t = FilterByMSA(t, msamd)
	res := &ApprovalPatternsResult{
		LoanTypeApprovalRates:      map[string]float64{},
		IncomeBracketApprovalRates: map[string]float64{},
	}

	actions, _ := t.nums(FieldActionTaken)
	res.OverallApprovalRate = rate(countAction(actions, ActionOriginated), t.NumRows())

	if col, ok := t.Col(FieldLoanType); ok {
		for label, idx := range groupIndices(col) {
			res.LoanTypeApprovalRates[loanTypeName(label)] = approvalRate(actions, idx)
		}
	}

	if incomes, ok := t.nums(FieldIncome); ok {
		counts := map[string]int{}
		approved := map[string]int{}
		for i, income := range incomes {
			bracket, ok := incomeBracket(income)
			if !ok {
				continue
			}
			counts[bracket]++
			if len(actions) > 0 && actions[i] == ActionOriginated {
				approved[bracket]++
			}
		}
		for bracket, n := range counts {
			res.IncomeBracketApprovalRates[bracket] = rate(approved[bracket], n)
		}
	}

	return res
}

// DenialPatternsResult reports the denial rate and the distribution of
// denial reasons among denied applications.
type DenialPatternsResult struct {
	DenialRate         float64        `json:"denial_rate"`
	ReasonDistribution map[string]int `json:"reason_distribution"`
}

// DenialPatterns analyzes denial patterns over a cleaned record set,
// optionally restricted to one MSA/MD. Reasons are pooled across the four
// denial-reason columns of denied records; codes outside the reason table
// are dropped.
func DenialPatterns(t *Table, msamd string) *DenialPatternsResult {
	t = FilterByMSA(t, msamd)
	res := &DenialPatternsResult{ReasonDistribution: map[string]int{}}

	actions, _ := t.nums(FieldActionTaken)
	res.DenialRate = rate(countAction(actions, ActionDenied), t.NumRows())

	for _, field := range denialReasonFields {
		col, ok := t.Col(field)
		if !ok {
			continue
		}
		for i := 0; i < col.Len(); i++ {
			if len(actions) == 0 || actions[i] != ActionDenied {
				continue
			}
			v, ok := col.Float(i)
			if !ok || v != math.Trunc(v) {
				continue
			}
			if name, known := denialReasonNames[int(v)]; known {
				res.ReasonDistribution[name]++
			}
		}
	}

	return res
}
