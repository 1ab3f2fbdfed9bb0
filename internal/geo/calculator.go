package geo

import (
	"context"
	"log"

	"schedule-optimizer/internal/database"
	"schedule-optimizer/internal/models"
)

// Calculator provides venue-to-venue distances in kilometers
type Calculator interface {
	GetDistance(ctx context.Context, origin, dest models.Coordinates) (float64, error)
}

type haversineCalculator struct{}

// NewHaversineCalculator returns a Calculator backed directly by the
// great-circle formula
func NewHaversineCalculator() Calculator {
	return &haversineCalculator{}
}

func (c *haversineCalculator) GetDistance(ctx context.Context, origin, dest models.Coordinates) (float64, error) {
	if models.RoundCoordinate(origin.Lat) == models.RoundCoordinate(dest.Lat) &&
		models.RoundCoordinate(origin.Lon) == models.RoundCoordinate(dest.Lon) {
		return 0, nil
	}
	return Between(origin, dest)
}

type cachedCalculator struct {
	inner Calculator
	cache database.DistanceCacheRepository
}

// NewCachedCalculator wraps a Calculator with a persistent distance cache
func NewCachedCalculator(inner Calculator, cache database.DistanceCacheRepository) Calculator {
	return &cachedCalculator{inner: inner, cache: cache}
}

func (c *cachedCalculator) GetDistance(ctx context.Context, origin, dest models.Coordinates) (float64, error) {
	cached, err := c.cache.Get(ctx, origin, dest)
	if err != nil {
		return 0, err
	}
	if cached != nil {
		return cached.DistanceKm, nil
	}

	km, err := c.inner.GetDistance(ctx, origin, dest)
	if err != nil {
		return 0, err
	}

	entry := &models.DistanceCacheEntry{Origin: origin, Destination: dest, DistanceKm: km}
	if err := c.cache.Set(ctx, entry); err != nil {
		// A write failure degrades to recomputation, not a lost distance
		log.Printf("[GEO] Failed to cache distance: %v", err)
	}

	return km, nil
}
