package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"schedule-optimizer/internal/database"
	"schedule-optimizer/internal/models"
)

type runRepository struct {
	store *Store
}

func (r *runRepository) Save(ctx context.Context, run *database.Run) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal run result: %w", err)
	}

	query := `INSERT INTO runs
	          (id, created_at, teams, fixtures, total_distance_km, solver_status, solve_secs, result_json)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.store.db.ExecContext(ctx, query,
		run.ID, run.CreatedAt,
		run.Result.Summary.Teams, run.Result.Summary.Fixtures,
		run.Result.Summary.TotalDistanceKm, run.Result.Summary.SolverStatus,
		run.Result.Summary.SolveSecs, string(resultJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

func (r *runRepository) Get(ctx context.Context, id string) (*database.Run, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT id, created_at, result_json FROM runs WHERE id = ?`

	var run database.Run
	var resultJSON string
	err := r.store.db.QueryRowContext(ctx, query, id).Scan(&run.ID, &run.CreatedAt, &resultJSON)
	if err == sql.ErrNoRows {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if err := json.Unmarshal([]byte(resultJSON), &run.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run result: %w", err)
	}

	return &run, nil
}

func (r *runRepository) List(ctx context.Context) ([]models.OptimizationSummary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT id, teams, fixtures, total_distance_km, solver_status, solve_secs
	          FROM runs
	          ORDER BY created_at DESC`

	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var summaries []models.OptimizationSummary
	for rows.Next() {
		var s models.OptimizationSummary
		if err := rows.Scan(&s.RunID, &s.Teams, &s.Fixtures, &s.TotalDistanceKm, &s.SolverStatus, &s.SolveSecs); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return summaries, nil
}
