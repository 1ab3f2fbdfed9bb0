package schedule

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"schedule-optimizer/internal/database"
	"schedule-optimizer/internal/league"
	"schedule-optimizer/internal/models"
	"schedule-optimizer/internal/solver"
)

// ErrInfeasible is returned when the solver proves no valid schedule exists
// under the current constraints. Not retryable; the configuration is wrong.
type ErrInfeasible struct{}

func (e *ErrInfeasible) Error() string {
	return "no valid schedule exists under the current constraints"
}

// ErrNoIncumbent is returned when the time budget ran out before any
// feasible schedule was found. Retryable with a larger budget.
type ErrNoIncumbent struct {
	TimeLimit time.Duration
}

func (e *ErrNoIncumbent) Error() string {
	return fmt.Sprintf("no schedule found within %v; retry with a larger time limit", e.TimeLimit)
}

// ErrInvalidAssignment means the solver returned an assignment that fails
// independent validation. This is an internal-consistency bug in the model
// encoding and is never silently accepted.
type ErrInvalidAssignment struct {
	Violations []ViolationReport
}

func (e *ErrInvalidAssignment) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("solver returned an invalid assignment (%d violations): %s",
		len(e.Violations), strings.Join(msgs, "; "))
}

// Request holds the immutable inputs of one optimization run
type Request struct {
	Registry  *league.Registry
	Matrix    *league.DistanceMatrix
	Format    Format
	TimeLimit time.Duration
	Verbose   bool
}

// Optimizer runs the full pipeline: model build, structural precheck,
// bounded-time solve, decode, independent validation, reporting. Each run
// consumes a fresh registry/matrix pair and produces fresh outputs; nothing
// is shared across runs.
type Optimizer struct {
	engine solver.Solver
	runs   database.RunRepository
}

// NewOptimizer creates an optimizer on top of any compliant solver
func NewOptimizer(engine solver.Solver) *Optimizer {
	return &Optimizer{engine: engine}
}

// WithRunStore makes the optimizer persist each completed run
func (o *Optimizer) WithRunStore(runs database.RunRepository) *Optimizer {
	o.runs = runs
	return o
}

// Optimize produces a minimal-travel fixture assignment for the request
func (o *Optimizer) Optimize(ctx context.Context, req Request) (*models.OptimizationResult, *models.FixtureAssignment, error) {
	start := time.Now()

	// Structural contradictions are configuration errors; they are rejected
	// with a diagnostic before the solver ever runs.
	if err := req.Format.Check(req.Registry); err != nil {
		return nil, nil, err
	}

	model, err := BuildModel(req.Registry, req.Matrix, req.Format)
	if err != nil {
		return nil, nil, err
	}

	solveStart := time.Now()
	sol, err := o.engine.Solve(ctx, model, solver.Options{
		TimeLimit: req.TimeLimit,
		Verbose:   req.Verbose,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("solve failed: %w", err)
	}
	solveSecs := time.Since(solveStart).Seconds()
	log.Printf("[TIMING] Solve: %v (status=%s)", time.Since(solveStart), sol.Status)

	switch sol.Status {
	case solver.StatusInfeasible:
		return nil, nil, &ErrInfeasible{}
	case solver.StatusNoSolution:
		return nil, nil, &ErrNoIncumbent{TimeLimit: req.TimeLimit}
	}

	assignment, err := DecodeAssignment(sol.Values, req.Registry.Size())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode solution: %w", err)
	}

	if violations := Validate(assignment, req.Registry, req.Format); len(violations) > 0 {
		return nil, nil, &ErrInvalidAssignment{Violations: violations}
	}

	totalKm, err := TotalDistance(assignment, req.Matrix)
	if err != nil {
		return nil, nil, err
	}

	result := BuildResult(assignment, req.Registry, models.OptimizationSummary{
		RunID:           uuid.NewString(),
		TotalDistanceKm: totalKm,
		SolverStatus:    sol.Status.String(),
		SolveSecs:       solveSecs,
	})

	if o.runs != nil {
		run := &database.Run{
			ID:        result.Summary.RunID,
			CreatedAt: time.Now().UTC(),
			Result:    *result,
		}
		if err := o.runs.Save(ctx, run); err != nil {
			// History is best effort; the result itself is unaffected
			log.Printf("[OPTIMIZER] Failed to persist run %s: %v", run.ID, err)
		}
	}

	log.Printf("[OPTIMIZER] Complete: teams=%d fixtures=%d total=%.2fkm status=%s elapsed=%v",
		result.Summary.Teams, result.Summary.Fixtures, totalKm, sol.Status, time.Since(start))
	return result, assignment, nil
}
