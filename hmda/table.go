// Package hmda implements the data validation, quality-control, and
// statistical aggregation pipeline for HMDA (Home Mortgage Disclosure Act)
// loan application data.
//
// The package operates on columnar tables parsed from data-browser CSV
// extracts. Raw tables flow through Validate, which enforces the required
// field contract and coerces column types, then into the quality-control
// engine (RunQC), the register formatter (PrepareRegister), and the family
// of read-only aggregation queries (ApprovalPatterns, DenialPatterns,
// MarketTrends, Demographics, QualificationFactors, Neighborhood, ...).
// All aggregations are pure over their inputs and safe to run in parallel
// across independent calls.
package hmda

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Kind is the semantic type of a table column.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// missingTokens are cell values treated as absent when coercing columns.
// HMDA extracts use "NA" and "Exempt" for unavailable fields.
var missingTokens = map[string]bool{
	"":       true,
	"NA":     true,
	"N/A":    true,
	"NaN":    true,
	"Exempt": true,
}

// Column is a single named column of a Table. Numeric columns store values
// in Num with NaN marking missing cells; string columns store values in Str
// with "" marking missing cells.
type Column struct {
	Kind Kind
	Str  []string
	Num  []float64
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	if c.Kind == KindString {
		return len(c.Str)
	}
	return len(c.Num)
}

// IsNumeric reports whether the column holds numeric values.
func (c *Column) IsNumeric() bool {
	return c.Kind == KindInt || c.Kind == KindFloat
}

// Missing reports whether the cell at row i holds no value.
func (c *Column) Missing(i int) bool {
	if c.Kind == KindString {
		return missingTokens[strings.TrimSpace(c.Str[i])]
	}
	return math.IsNaN(c.Num[i])
}

// cell renders the value at row i for CSV output. Missing numeric cells
// render as empty strings; integral floats render without a decimal point.
func (c *Column) cell(i int) string {
	if c.Kind == KindString {
		return c.Str[i]
	}
	v := c.Num[i]
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// clone returns a deep copy of the column.
func (c *Column) clone() *Column {
	out := &Column{Kind: c.Kind}
	if c.Str != nil {
		out.Str = append([]string(nil), c.Str...)
	}
	if c.Num != nil {
		out.Num = append([]float64(nil), c.Num...)
	}
	return out
}

// parseNumeric converts one raw cell to a numeric value of the given kind.
// Missing tokens become NaN without error.
func parseNumeric(raw string, kind Kind) (float64, error) {
	s := strings.TrimSpace(raw)
	if missingTokens[s] {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", raw)
	}
	if kind == KindInt && v != math.Trunc(v) {
		return 0, fmt.Errorf("non-integer value %q", raw)
	}
	return v, nil
}

// toNumeric coerces the column to the given numeric kind. The whole column
// fails on the first unparseable cell; missing cells are tolerated.
func (c *Column) toNumeric(kind Kind) (*Column, error) {
	if c.IsNumeric() {
		if kind == KindInt {
			for i, v := range c.Num {
				if !math.IsNaN(v) && v != math.Trunc(v) {
					return nil, fmt.Errorf("non-integer value %v at row %d", v, i)
				}
			}
		}
		return &Column{Kind: kind, Num: c.Num}, nil
	}
	nums := make([]float64, len(c.Str))
	for i, s := range c.Str {
		v, err := parseNumeric(s, kind)
		if err != nil {
			return nil, fmt.Errorf("%v at row %d", err, i)
		}
		nums[i] = v
	}
	return &Column{Kind: kind, Num: nums}, nil
}

// toNumericLenient coerces the column to the given numeric kind, turning
// unparseable cells into NaN instead of failing.
func (c *Column) toNumericLenient(kind Kind) *Column {
	if c.IsNumeric() {
		return &Column{Kind: kind, Num: c.Num}
	}
	nums := make([]float64, len(c.Str))
	for i, s := range c.Str {
		v, err := parseNumeric(s, kind)
		if err != nil {
			v = math.NaN()
		}
		nums[i] = v
	}
	return &Column{Kind: kind, Num: nums}
}

// Table is an in-memory columnar record set with a stable column order.
type Table struct {
	names []string
	cols  map[string]*Column
	rows  int
}

// NewTable returns an empty table with no columns.
func NewTable() *Table {
	return &Table{cols: make(map[string]*Column)}
}

// FromCSV parses a CSV document with a header row into a table of string
// columns. Ragged or headerless input is rejected; this is the only place
// a malformed record set surfaces as an error rather than a report.
func FromCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	t := NewTable()
	for _, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := t.cols[name]; dup {
			return nil, fmt.Errorf("duplicate column %q in csv header", name)
		}
		t.names = append(t.names, name)
		t.cols[name] = &Column{Kind: KindString}
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", t.rows+2, err)
		}
		for i, name := range t.names {
			col := t.cols[name]
			col.Str = append(col.Str, record[i])
		}
		t.rows++
	}
	return t, nil
}

// WriteCSV writes the table as CSV with a header row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.names); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	record := make([]string, len(t.names))
	for i := 0; i < t.rows; i++ {
		for j, name := range t.names {
			record[j] = t.cols[name].cell(i)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns in the table.
func (t *Table) NumCols() int { return len(t.names) }

// Names returns the column names in their stable input order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// HasCol reports whether the table has a column with the given name.
func (t *Table) HasCol(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Col returns the named column.
func (t *Table) Col(name string) (*Column, bool) {
	c, ok := t.cols[name]
	return c, ok
}

// AddStrings appends a string column. The first column added fixes the
// table's row count; later columns must match it.
func (t *Table) AddStrings(name string, vals []string) error {
	return t.add(name, &Column{Kind: KindString, Str: vals})
}

// AddNumbers appends a numeric column of the given kind.
func (t *Table) AddNumbers(name string, kind Kind, vals []float64) error {
	if kind == KindString {
		return fmt.Errorf("column %q: numeric column cannot have kind string", name)
	}
	return t.add(name, &Column{Kind: kind, Num: vals})
}

func (t *Table) add(name string, col *Column) error {
	if _, dup := t.cols[name]; dup {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(t.names) > 0 && col.Len() != t.rows {
		return fmt.Errorf("column %q has %d rows, table has %d", name, col.Len(), t.rows)
	}
	if len(t.names) == 0 {
		t.rows = col.Len()
	}
	t.names = append(t.names, name)
	t.cols[name] = col
	return nil
}

// setCol replaces an existing column in place, keeping the column order.
func (t *Table) setCol(name string, col *Column) {
	if _, ok := t.cols[name]; !ok {
		t.names = append(t.names, name)
	}
	t.cols[name] = col
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable()
	out.names = append([]string(nil), t.names...)
	out.rows = t.rows
	for name, col := range t.cols {
		out.cols[name] = col.clone()
	}
	return out
}

// Select returns a new table holding only the rows where mask is true.
// The mask must cover every row.
func (t *Table) Select(mask []bool) *Table {
	n := 0
	for _, keep := range mask {
		if keep {
			n++
		}
	}
	out := NewTable()
	out.names = append([]string(nil), t.names...)
	out.rows = n
	for name, col := range t.cols {
		sel := &Column{Kind: col.Kind}
		if col.Kind == KindString {
			sel.Str = make([]string, 0, n)
			for i, keep := range mask {
				if keep {
					sel.Str = append(sel.Str, col.Str[i])
				}
			}
		} else {
			sel.Num = make([]float64, 0, n)
			for i, keep := range mask {
				if keep {
					sel.Num = append(sel.Num, col.Num[i])
				}
			}
		}
		out.cols[name] = sel
	}
	return out
}

// nums returns the numeric values of the named column, or false when the
// column is absent or non-numeric.
func (t *Table) nums(name string) ([]float64, bool) {
	c, ok := t.cols[name]
	if !ok || !c.IsNumeric() {
		return nil, false
	}
	return c.Num, true
}

// strs returns the string values of the named column, or false when the
// column is absent or not a string column.
func (t *Table) strs(name string) ([]string, bool) {
	c, ok := t.cols[name]
	if !ok || c.Kind != KindString {
		return nil, false
	}
	return c.Str, true
}
