package census

import (
	"fmt"
	"os"
	"strings"

	"hmda-lens/hmda"
)

// MSAIndex resolves city/state pairs to MSA/MD geography codes from a flat
// lookup file with city, state, and msa_md columns.
type MSAIndex struct {
	codes map[string]string
}

func msaKey(city, state string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToUpper(strings.TrimSpace(state))
}

// LoadMSAIndex parses the lookup file. An empty path yields an empty index;
// the city/state resolution path then degrades to misses.
func LoadMSAIndex(path string) (*MSAIndex, error) {
	idx := &MSAIndex{codes: make(map[string]string)}
	if path == "" {
		return idx, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening msa lookup file: %w", err)
	}
	defer f.Close()

	t, err := hmda.FromCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parsing msa lookup file %s: %w", path, err)
	}
	for _, name := range []string{"city", "state", "msa_md"} {
		if !t.HasCol(name) {
			return nil, fmt.Errorf("msa lookup file %s has no %s column", path, name)
		}
	}

	cities, _ := t.Col("city")
	states, _ := t.Col("state")
	codes, _ := t.Col("msa_md")
	for i := 0; i < t.NumRows(); i++ {
		code := strings.TrimSpace(codes.Str[i])
		if code == "" {
			continue
		}
		idx.codes[msaKey(cities.Str[i], states.Str[i])] = code
	}
	return idx, nil
}

// Lookup resolves a city/state pair to its MSA/MD code. Matching is
// case-insensitive; a miss reports false.
func (m *MSAIndex) Lookup(city, state string) (string, bool) {
	code, ok := m.codes[msaKey(city, state)]
	return code, ok
}

// Len returns the number of lookup entries.
func (m *MSAIndex) Len() int { return len(m.codes) }
