// Package census loads FFIEC census flat files and serves tract reference
// data to the analytics pipeline.
package census

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"hmda-lens/hmda"
)

// Historical census flat files exist from this year onwards.
const minYear = 2018

// Column names of the FFIEC census flat file.
const (
	colTract              = "census_tract"
	colMSAMD              = "derived_msa-md"
	colPopulation         = "tract_population"
	colMinorityPct        = "tract_minority_population_percent"
	colMedianFamilyIncome = "ffiec_msa_md_median_family_income"
	colTractToMSAPct      = "tract_to_msa_income_percentage"
	colBelowPoverty       = "tract_below_poverty_line_percent"
	colOwnerOccupied      = "tract_owner_occupied_units"
	colOneToFour          = "tract_one_to_four_family_homes"
	colMedianHousingAge   = "tract_median_age_of_housing_units"
	colTotalUnits         = "tract_total_housing_units"
	colVacantUnits        = "tract_vacant_units"
	colRenterOccupied     = "tract_renter_occupied_units"
	colInsideCity         = "tract_inside_principal_city"
)

type key struct {
	tract string
	year  int
}

// Data is the in-memory census reference set, keyed by (tract, year). It is
// loaded once at startup and read-only afterwards, so lookups are safe for
// concurrent use.
type Data struct {
	defaultYear int
	byKey       map[key]hmda.Tract
	byYear      map[int][]hmda.Tract
	duplicates  int
}

// Stats is the reference-data health readout.
type Stats struct {
	TractCount  int   `json:"tract_count"`
	Years       []int `json:"years"`
	DefaultYear int   `json:"default_year"`
	Duplicates  int   `json:"duplicate_rows"`
}

// New returns an empty reference set answering lookups for defaultYear
// unless a year is named explicitly.
func New(defaultYear int) *Data {
	return &Data{
		defaultYear: defaultYear,
		byKey:       make(map[key]hmda.Tract),
		byYear:      make(map[int][]hmda.Tract),
	}
}

// Load builds a reference set from per-year flat files.
func Load(files map[int]string, defaultYear int) (*Data, error) {
	d := New(defaultYear)
	years := make([]int, 0, len(files))
	for year := range files {
		years = append(years, year)
	}
	sort.Ints(years)
	for _, year := range years {
		if err := d.LoadFile(files[year], year); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// LoadFile parses one FFIEC flat file into the set under the given year.
// On a duplicate (tract, year) the first row wins and the duplicate is
// counted rather than silently dropped.
func (d *Data) LoadFile(path string, year int) error {
	if year < minYear {
		return fmt.Errorf("census data only available from %d onwards, got %d", minYear, year)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening census file: %w", err)
	}
	defer f.Close()

	t, err := hmda.FromCSV(f)
	if err != nil {
		return fmt.Errorf("parsing census file %s: %w", path, err)
	}
	if !t.HasCol(colTract) {
		return fmt.Errorf("census file %s has no %s column", path, colTract)
	}

	str := func(name string, i int) string {
		col, ok := t.Col(name)
		if !ok || col.Kind != hmda.KindString {
			return ""
		}
		return strings.TrimSpace(col.Str[i])
	}
	num := func(name string, i int) float64 {
		col, ok := t.Col(name)
		if !ok {
			return math.NaN()
		}
		v, ok := col.Float(i)
		if !ok {
			return math.NaN()
		}
		return v
	}

	for i := 0; i < t.NumRows(); i++ {
		id := str(colTract, i)
		if id == "" {
			continue
		}
		k := key{tract: id, year: year}
		if _, dup := d.byKey[k]; dup {
			d.duplicates++
			continue
		}
		tract := hmda.Tract{
			ID:                   id,
			MSAMD:                str(colMSAMD, i),
			Population:           num(colPopulation, i),
			MinorityPercent:      num(colMinorityPct, i),
			MedianFamilyIncome:   num(colMedianFamilyIncome, i),
			TractToMSAIncomePct:  num(colTractToMSAPct, i),
			BelowPovertyPercent:  num(colBelowPoverty, i),
			OwnerOccupiedUnits:   num(colOwnerOccupied, i),
			OneToFourFamilyHomes: num(colOneToFour, i),
			MedianHousingAge:     num(colMedianHousingAge, i),
			TotalHousingUnits:    num(colTotalUnits, i),
			VacantUnits:          num(colVacantUnits, i),
			RenterOccupiedUnits:  num(colRenterOccupied, i),
			InsidePrincipalCity:  num(colInsideCity, i),
		}
		d.byKey[k] = tract
		d.byYear[year] = append(d.byYear[year], tract)
	}
	return nil
}

// DefaultYear returns the year answering unqualified lookups.
func (d *Data) DefaultYear() int { return d.defaultYear }

// Tract looks a tract up in the default year. Implements hmda.TractSource.
func (d *Data) Tract(id string) (hmda.Tract, bool) {
	return d.TractYear(id, d.defaultYear)
}

// TractYear looks a tract up in a specific year. Years with no flat file
// loaded answer from the default year instead.
func (d *Data) TractYear(id string, year int) (hmda.Tract, bool) {
	id = strings.TrimSpace(id)
	if year != d.defaultYear && len(d.byYear[year]) == 0 {
		year = d.defaultYear
	}
	tr, ok := d.byKey[key{tract: id, year: year}]
	return tr, ok
}

// ForYear returns a TractSource view answering lookups for the given year.
// Year 0 means the default year.
func (d *Data) ForYear(year int) hmda.TractSource {
	if year == 0 {
		year = d.defaultYear
	}
	return yearView{d: d, year: year}
}

type yearView struct {
	d    *Data
	year int
}

func (v yearView) Tract(id string) (hmda.Tract, bool) {
	return v.d.TractYear(id, v.year)
}

// Tracts returns the default year's tracts in file order.
func (d *Data) Tracts() []hmda.Tract {
	return d.TractsForYear(d.defaultYear)
}

// TractsForYear returns one year's tracts in file order. Year 0 and years
// with no flat file loaded mean the default year.
func (d *Data) TractsForYear(year int) []hmda.Tract {
	if year == 0 || len(d.byYear[year]) == 0 {
		year = d.defaultYear
	}
	return append([]hmda.Tract(nil), d.byYear[year]...)
}

// Duplicates reports how many duplicate (tract, year) rows the flat files
// carried.
func (d *Data) Duplicates() int { return d.duplicates }

// Stats summarizes the loaded reference data for the health endpoint.
func (d *Data) Stats() Stats {
	years := make([]int, 0, len(d.byYear))
	for year := range d.byYear {
		years = append(years, year)
	}
	sort.Ints(years)
	return Stats{
		TractCount:  len(d.byKey),
		Years:       years,
		DefaultYear: d.defaultYear,
		Duplicates:  d.duplicates,
	}
}
