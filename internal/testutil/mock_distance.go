package testutil

import (
	"context"
	"fmt"
	"math"

	"schedule-optimizer/internal/models"
)

// DistanceCall tracks a call to the distance calculator
type DistanceCall struct {
	Origin models.Coordinates
	Dest   models.Coordinates
}

// MockDistanceCalculator is a deterministic geo.Calculator for tests.
// It returns scaled Euclidean distance between coordinates unless a pair
// has an explicit override.
type MockDistanceCalculator struct {
	ScaleFactor float64
	Overrides   map[string]float64
	Calls       []DistanceCall
}

func NewMockDistanceCalculator() *MockDistanceCalculator {
	return &MockDistanceCalculator{
		ScaleFactor: 111, // 1 degree ≈ 111 km
		Overrides:   make(map[string]float64),
		Calls:       []DistanceCall{},
	}
}

func (m *MockDistanceCalculator) makeKey(origin, dest models.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f->%.5f,%.5f", origin.Lat, origin.Lon, dest.Lat, dest.Lon)
}

// SetDistance sets a custom distance for a specific origin-destination pair
func (m *MockDistanceCalculator) SetDistance(origin, dest models.Coordinates, km float64) {
	m.Overrides[m.makeKey(origin, dest)] = km
}

// GetDistance returns the distance between two points in kilometers
func (m *MockDistanceCalculator) GetDistance(ctx context.Context, origin, dest models.Coordinates) (float64, error) {
	m.Calls = append(m.Calls, DistanceCall{Origin: origin, Dest: dest})

	if km, ok := m.Overrides[m.makeKey(origin, dest)]; ok {
		return km, nil
	}

	if models.RoundCoordinate(origin.Lat) == models.RoundCoordinate(dest.Lat) &&
		models.RoundCoordinate(origin.Lon) == models.RoundCoordinate(dest.Lon) {
		return 0, nil
	}

	dLat := dest.Lat - origin.Lat
	dLon := dest.Lon - origin.Lon
	return math.Sqrt(dLat*dLat+dLon*dLon) * m.ScaleFactor, nil
}
