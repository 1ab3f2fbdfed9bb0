package league

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// CountryTable maps the numeric country codes used in the source records to
// ISO-style three-letter abbreviations
type CountryTable map[int]string

// DefaultCountryTable returns the built-in 16-entry code table
func DefaultCountryTable() CountryTable {
	return CountryTable{
		1: "ESP", 2: "GER", 3: "ENG", 4: "FRA", 5: "ITA", 6: "POR",
		7: "BEL", 8: "NED", 9: "GRE", 10: "CZE", 11: "NOR", 12: "DEN",
		13: "TUR", 14: "AZE", 15: "CYP", 16: "KAZ",
	}
}

// LoadCountryTable reads a code table from a JSON object mapping numeric
// codes to abbreviations, e.g. {"1": "ESP", "2": "GER"}
func LoadCountryTable(path string) (CountryTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read country table: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse country table %s: %w", path, err)
	}

	table := make(CountryTable, len(raw))
	for key, abbrev := range raw {
		code, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("country table %s: non-numeric code %q", path, key)
		}
		if abbrev == "" {
			return nil, fmt.Errorf("country table %s: empty abbreviation for code %d", path, code)
		}
		table[code] = abbrev
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("country table %s: no entries", path)
	}
	return table, nil
}

// Codes returns the table's codes in ascending order
func (t CountryTable) Codes() []int {
	codes := make([]int, 0, len(t))
	for c := range t {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	return codes
}

// ErrUnknownCountry is returned when a record's country code has no table
// entry. An unmapped code is a configuration error, never a silent default.
type ErrUnknownCountry struct {
	Code int
	Row  int
}

func (e *ErrUnknownCountry) Error() string {
	return fmt.Sprintf("unknown country code %d at row %d", e.Code, e.Row)
}
