package solver

import (
	"context"
	"time"
)

// Status classifies the outcome of a solve
type Status int

const (
	// StatusOptimal means the search completed and the incumbent is proven best
	StatusOptimal Status = iota
	// StatusFeasible means the time budget ran out with an incumbent in hand
	StatusFeasible
	// StatusInfeasible means the search proved no assignment satisfies the
	// constraints. This is a property of the model, not of the budget.
	StatusInfeasible
	// StatusNoSolution means the time budget ran out before any feasible
	// assignment was found. Retryable with a larger budget.
	StatusNoSolution
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusFeasible:
		return "Feasible"
	case StatusInfeasible:
		return "Infeasible"
	case StatusNoSolution:
		return "NoSolution"
	default:
		return "Unknown"
	}
}

// Options controls a single solve invocation
type Options struct {
	TimeLimit time.Duration
	Verbose   bool
}

// Solution is the outcome of a solve. Values holds one 0/1 entry per model
// variable and is only meaningful for Optimal and Feasible statuses.
type Solution struct {
	Status    Status
	Objective float64
	Values    []uint8
}

// Solver is the external optimization capability the core requires: any
// engine that handles binary-variable linear minimization under a wall-clock
// budget qualifies. The model is immutable input; a solve that is canceled
// at the timeout boundary leaves no observable partial state.
type Solver interface {
	Solve(ctx context.Context, m *Model, opts Options) (*Solution, error)
}
