package database

import (
	"context"
	"time"

	"schedule-optimizer/internal/models"
)

// Run is a persisted snapshot of one optimization run
type Run struct {
	ID        string                    `json:"id"`
	CreatedAt time.Time                 `json:"created_at"`
	Result    models.OptimizationResult `json:"result"`
}

// DistanceCacheRepository stores computed venue-to-venue distances so that
// repeated runs over the same field of teams skip recomputation
type DistanceCacheRepository interface {
	Get(ctx context.Context, origin, dest models.Coordinates) (*models.DistanceCacheEntry, error)
	Set(ctx context.Context, entry *models.DistanceCacheEntry) error
	Count(ctx context.Context) (int, error)
}

// RunRepository keeps a history of optimization runs
type RunRepository interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	List(ctx context.Context) ([]models.OptimizationSummary, error)
}

// DataStore aggregates the repositories backed by one database file
type DataStore interface {
	DistanceCache() DistanceCacheRepository
	Runs() RunRepository
	Close() error
}
