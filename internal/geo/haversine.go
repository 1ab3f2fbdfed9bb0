package geo

import (
	"fmt"
	"math"

	"schedule-optimizer/internal/models"
)

// EarthRadiusKm is the IUGG mean Earth radius. Every distance in the system
// goes through this single constant.
const EarthRadiusKm = 6371.0088

// ErrUndefinedDistance is returned when a coordinate is NaN or infinite.
// A malformed coordinate must surface as an error, never as a silent zero.
type ErrUndefinedDistance struct {
	Origin models.Coordinates
	Dest   models.Coordinates
}

func (e *ErrUndefinedDistance) Error() string {
	return fmt.Sprintf("undefined distance: origin=(%v,%v) dest=(%v,%v)",
		e.Origin.Lat, e.Origin.Lon, e.Dest.Lat, e.Dest.Lon)
}

// Distance computes the haversine great-circle distance in kilometers
// between two points given in decimal degrees. The result is non-negative,
// symmetric, and zero for coincident points.
func Distance(latA, lonA, latB, lonB float64) (float64, error) {
	if !finite(latA) || !finite(lonA) || !finite(latB) || !finite(lonB) {
		return 0, &ErrUndefinedDistance{
			Origin: models.Coordinates{Lat: latA, Lon: lonA},
			Dest:   models.Coordinates{Lat: latB, Lon: lonB},
		}
	}

	latARad := latA * math.Pi / 180
	lonARad := lonA * math.Pi / 180
	latBRad := latB * math.Pi / 180
	lonBRad := lonB * math.Pi / 180

	dLat := latBRad - latARad
	dLon := lonBRad - lonARad

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(latARad)*math.Cos(latBRad)*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c, nil
}

// Between is a convenience wrapper over Distance for Coordinates values
func Between(origin, dest models.Coordinates) (float64, error) {
	return Distance(origin.Lat, origin.Lon, dest.Lat, dest.Lon)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
