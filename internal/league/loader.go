package league

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"schedule-optimizer/internal/models"
)

// coordinateScale is the fixed-point factor of the source records: raw
// latitude/longitude values are integer degrees multiplied by 1,000,000.
const coordinateScale = 1000000.0

// RawRecord is one team row as it appears in the input file, before
// country-code resolution and coordinate scaling
type RawRecord struct {
	Name        string `json:"name"`
	Stadium     string `json:"stadium"`
	LatMicroDeg int64  `json:"lat_microdeg"`
	LonMicroDeg int64  `json:"lon_microdeg"`
	CountryCode int    `json:"country_code"`
	Pot         int    `json:"pot"`
}

// LoadTeams reads team records from a CSV or JSON file (by extension) and
// resolves them against the country table. Any unknown country code aborts
// the load with the offending code and row.
func LoadTeams(path string, table CountryTable) (*Registry, error) {
	records, err := loadRecords(path)
	if err != nil {
		return nil, err
	}

	teams := make([]models.Team, 0, len(records))
	for i, rec := range records {
		country, ok := table[rec.CountryCode]
		if !ok {
			return nil, &ErrUnknownCountry{Code: rec.CountryCode, Row: i + 1}
		}
		teams = append(teams, models.Team{
			Name:    rec.Name,
			Stadium: rec.Stadium,
			Lat:     float64(rec.LatMicroDeg) / coordinateScale,
			Lon:     float64(rec.LonMicroDeg) / coordinateScale,
			Country: country,
			Pot:     rec.Pot,
		})
	}

	reg, err := NewRegistry(teams)
	if err != nil {
		return nil, err
	}

	log.Printf("[LOAD] Loaded %d teams from %s (%d countries, %d pots)",
		reg.Size(), path, len(reg.Countries()), len(reg.Pots()))
	return reg, nil
}

func loadRecords(path string) ([]RawRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSONRecords(path)
	case ".csv":
		return loadCSVRecords(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .csv or .json)", filepath.Ext(path))
	}
}

func loadJSONRecords(path string) ([]RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read teams file: %w", err)
	}
	var records []RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse teams file %s: %w", path, err)
	}
	return records, nil
}

// loadCSVRecords reads the tabular schema: name, stadium, latitude and
// longitude as ×10⁶ fixed-point integers, numeric country code, pot.
// The first row is a header and is skipped.
func loadCSVRecords(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open teams file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 6
	reader.TrimLeadingSpace = true

	var records []RawRecord
	row := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read teams file %s: %w", path, err)
		}
		row++
		if row == 1 {
			continue // header
		}

		rec := RawRecord{Name: fields[0], Stadium: fields[1]}
		if rec.LatMicroDeg, err = strconv.ParseInt(fields[2], 10, 64); err != nil {
			return nil, fmt.Errorf("row %d: invalid latitude %q", row, fields[2])
		}
		if rec.LonMicroDeg, err = strconv.ParseInt(fields[3], 10, 64); err != nil {
			return nil, fmt.Errorf("row %d: invalid longitude %q", row, fields[3])
		}
		if rec.CountryCode, err = strconv.Atoi(fields[4]); err != nil {
			return nil, fmt.Errorf("row %d: invalid country code %q", row, fields[4])
		}
		if rec.Pot, err = strconv.Atoi(fields[5]); err != nil {
			return nil, fmt.Errorf("row %d: invalid pot %q", row, fields[5])
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("teams file %s contains no records", path)
	}
	return records, nil
}
