package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedule-optimizer/internal/database"
	"schedule-optimizer/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDistanceCacheRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	origin := models.Coordinates{Lat: 41.380898, Lon: 2.122820}
	dest := models.Coordinates{Lat: 48.841363, Lon: 2.253036}

	entry := &models.DistanceCacheEntry{Origin: origin, Destination: dest, DistanceKm: 831.59}
	require.NoError(t, store.DistanceCache().Set(ctx, entry))

	cached, err := store.DistanceCache().Get(ctx, origin, dest)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, 831.59, cached.DistanceKm)

	count, err := store.DistanceCache().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDistanceCacheMissReturnsNil(t *testing.T) {
	store := setupTestStore(t)

	cached, err := store.DistanceCache().Get(context.Background(),
		models.Coordinates{Lat: 1, Lon: 2}, models.Coordinates{Lat: 3, Lon: 4})
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestDistanceCacheKeysAreRounded(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	origin := models.Coordinates{Lat: 41.3808981234, Lon: 2.1228201234}
	dest := models.Coordinates{Lat: 48.8413631234, Lon: 2.2530361234}
	require.NoError(t, store.DistanceCache().Set(ctx, &models.DistanceCacheEntry{
		Origin: origin, Destination: dest, DistanceKm: 100,
	}))

	// Sub-meter jitter resolves to the same entry
	jittered := models.Coordinates{Lat: 41.3808981111, Lon: 2.1228201111}
	cached, err := store.DistanceCache().Get(ctx, jittered, dest)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, 100.0, cached.DistanceKm)
}

func sampleRun(id string) *database.Run {
	return &database.Run{
		ID:        id,
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Result: models.OptimizationResult{
			Fixtures: []models.TeamFixtures{
				{Team: "A", AwayOpponents: []string{"B"}, HomeOpponents: []string{"C"}},
			},
			Summary: models.OptimizationSummary{
				RunID:           id,
				Teams:           6,
				Fixtures:        12,
				TotalDistanceKm: 1234.56,
				SolverStatus:    "Optimal",
				SolveSecs:       1.5,
			},
		},
	}
}

func TestRunSaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	run := sampleRun("run-1")
	require.NoError(t, store.Runs().Save(ctx, run))

	got, err := store.Runs().Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.Result.Summary.TotalDistanceKm, got.Result.Summary.TotalDistanceKm)
	assert.Equal(t, run.Result.Fixtures, got.Result.Fixtures)
}

func TestRunGetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Runs().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRunList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first := sampleRun("run-1")
	first.CreatedAt = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	second := sampleRun("run-2")
	second.CreatedAt = time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Runs().Save(ctx, first))
	require.NoError(t, store.Runs().Save(ctx, second))

	summaries, err := store.Runs().List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	// Newest first
	assert.Equal(t, "run-2", summaries[0].RunID)
	assert.Equal(t, "run-1", summaries[1].RunID)
}

func TestStoreReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persist.db")
	ctx := context.Background()

	store, err := New(path)
	require.NoError(t, err)
	require.NoError(t, store.DistanceCache().Set(ctx, &models.DistanceCacheEntry{
		Origin:      models.Coordinates{Lat: 1, Lon: 2},
		Destination: models.Coordinates{Lat: 3, Lon: 4},
		DistanceKm:  42,
	}))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DistanceCache().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
