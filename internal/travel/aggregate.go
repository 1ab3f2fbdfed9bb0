package travel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"

	"schedule-optimizer/internal/geo"
	"schedule-optimizer/internal/models"
)

// Match is one fixture of an already-fixed calendar
type Match struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// VenueIndex maps normalized team names to home venue coordinates
type VenueIndex map[string]models.Coordinates

// BuildVenueIndex indexes team venues by normalized name
func BuildVenueIndex(teams []models.Team) VenueIndex {
	idx := make(VenueIndex, len(teams))
	for _, t := range teams {
		if key, ok := Normalize(t.Name); ok {
			idx[key] = t.GetCoords()
		}
	}
	return idx
}

// TeamTravel is one team's aggregate away travel over the calendar
type TeamTravel struct {
	Team    string  `json:"team"`
	TotalKm float64 `json:"total_km"`
	Matches int     `json:"matches"`
}

// Report ranks teams by total away travel. Skipped counts matches excluded
// because a team name had no venue match; exclusions are always counted,
// never silently dropped.
type Report struct {
	Rankings []TeamTravel `json:"rankings"`
	TotalKm  float64      `json:"total_km"`
	Skipped  int          `json:"skipped"`
}

// Aggregate sums the away-leg distance of every match per traveling team
// and ranks teams by total, descending
func Aggregate(matches []Match, venues VenueIndex) (*Report, error) {
	type bucket struct {
		name    string
		totalKm float64
		matches int
	}
	buckets := make(map[string]*bucket)
	report := &Report{}

	for _, match := range matches {
		homeKey, homeOK := Normalize(match.Home)
		awayKey, awayOK := Normalize(match.Away)
		if !homeOK || !awayOK {
			report.Skipped++
			continue
		}

		homeVenue, ok := venues[homeKey]
		if !ok {
			report.Skipped++
			continue
		}
		awayVenue, ok := venues[awayKey]
		if !ok {
			report.Skipped++
			continue
		}

		km, err := geo.Between(awayVenue, homeVenue)
		if err != nil {
			return nil, fmt.Errorf("match %s at %s: %w", match.Away, match.Home, err)
		}

		b, ok := buckets[awayKey]
		if !ok {
			b = &bucket{name: match.Away}
			buckets[awayKey] = b
		}
		b.totalKm += km
		b.matches++
	}

	for _, b := range buckets {
		report.Rankings = append(report.Rankings, TeamTravel{
			Team:    b.name,
			TotalKm: math.Round(b.totalKm*100) / 100,
			Matches: b.matches,
		})
	}
	sort.Slice(report.Rankings, func(a, b int) bool {
		if report.Rankings[a].TotalKm != report.Rankings[b].TotalKm {
			return report.Rankings[a].TotalKm > report.Rankings[b].TotalKm
		}
		return report.Rankings[a].Team < report.Rankings[b].Team
	})

	total := 0.0
	for _, r := range report.Rankings {
		total += r.TotalKm
	}
	report.TotalKm = math.Round(total*100) / 100

	if report.Skipped > 0 {
		log.Printf("[TRAVEL] Excluded %d match(es) with unmatched team names", report.Skipped)
	}
	return report, nil
}

// LoadMatches reads a fixed-calendar CSV whose first two columns are the
// home and away team names. The first row is a header and is skipped.
func LoadMatches(path string) ([]Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var matches []Match
	row := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read calendar file %s: %w", path, err)
		}
		row++
		if row == 1 {
			continue // header
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("calendar file %s row %d: want at least 2 columns, got %d", path, row, len(fields))
		}
		matches = append(matches, Match{Home: fields[0], Away: fields[1]})
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("calendar file %s contains no matches", path)
	}
	return matches, nil
}
