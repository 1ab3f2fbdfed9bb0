package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"schedule-optimizer/internal/models"
)

type distanceCacheRepository struct {
	store *Store
}

func (r *distanceCacheRepository) Get(ctx context.Context, origin, dest models.Coordinates) (*models.DistanceCacheEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT origin_lat, origin_lon, dest_lat, dest_lon, distance_km
	          FROM distance_cache
	          WHERE origin_lat = ? AND origin_lon = ? AND dest_lat = ? AND dest_lon = ?`

	var entry models.DistanceCacheEntry
	err := r.store.db.QueryRowContext(ctx, query,
		models.RoundCoordinate(origin.Lat), models.RoundCoordinate(origin.Lon),
		models.RoundCoordinate(dest.Lat), models.RoundCoordinate(dest.Lon),
	).Scan(
		&entry.Origin.Lat, &entry.Origin.Lon,
		&entry.Destination.Lat, &entry.Destination.Lon,
		&entry.DistanceKm,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get distance cache entry: %w", err)
	}

	return &entry, nil
}

func (r *distanceCacheRepository) Set(ctx context.Context, entry *models.DistanceCacheEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	query := `INSERT OR REPLACE INTO distance_cache
	          (origin_lat, origin_lon, dest_lat, dest_lon, distance_km)
	          VALUES (?, ?, ?, ?, ?)`

	_, err := r.store.db.ExecContext(ctx, query,
		models.RoundCoordinate(entry.Origin.Lat), models.RoundCoordinate(entry.Origin.Lon),
		models.RoundCoordinate(entry.Destination.Lat), models.RoundCoordinate(entry.Destination.Lon),
		entry.DistanceKm,
	)
	if err != nil {
		return fmt.Errorf("failed to set distance cache entry: %w", err)
	}

	return nil
}

func (r *distanceCacheRepository) Count(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int
	if err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM distance_cache`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count distance cache entries: %w", err)
	}
	return count, nil
}
