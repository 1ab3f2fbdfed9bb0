package models

import "math"

// Coordinates represents a geographic point in decimal degrees
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RoundCoordinate rounds a coordinate to 5 decimal places (~1m precision).
// Cache keys and equality checks all go through this so the same venue
// always resolves to the same entry.
func RoundCoordinate(v float64) float64 {
	return math.Round(v*100000) / 100000
}

// Team represents a club taking part in the league phase.
// IDs are dense 0..N-1 and are the sole key used by the distance matrix,
// the model builder and the validator.
type Team struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Stadium string  `json:"stadium"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	Pot     int     `json:"pot"`
}

// GetCoords returns the team's home venue coordinates
func (t *Team) GetCoords() Coordinates {
	return Coordinates{Lat: t.Lat, Lon: t.Lon}
}

// TeamFixtures lists one team's opponents by venue side
type TeamFixtures struct {
	Team          string   `json:"team"`
	AwayOpponents []string `json:"away_opponents"`
	HomeOpponents []string `json:"home_opponents"`
}

// OptimizationSummary contains aggregate stats for an optimization run
type OptimizationSummary struct {
	RunID           string  `json:"run_id"`
	Teams           int     `json:"teams"`
	Fixtures        int     `json:"fixtures"`
	TotalDistanceKm float64 `json:"total_distance_km"`
	SolverStatus    string  `json:"solver_status"`
	SolveSecs       float64 `json:"solve_secs"`
}

// OptimizationResult is the structured output of a full optimization run
type OptimizationResult struct {
	Fixtures []TeamFixtures      `json:"fixtures"`
	Summary  OptimizationSummary `json:"summary"`
}

// DistanceCacheEntry represents a cached distance lookup
type DistanceCacheEntry struct {
	Origin      Coordinates `json:"origin"`
	Destination Coordinates `json:"destination"`
	DistanceKm  float64     `json:"distance_km"`
}
