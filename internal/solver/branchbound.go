package solver

import (
	"context"
	"log"
	"math"
	"sort"
	"time"
)

const eps = 1e-9

// branchAndBound is the bundled engine: deterministic depth-first search
// over the binary variables with constraint-activity pruning, an incumbent
// upper bound on the objective, and sparse deadline checks. Exact when it
// runs to completion; best-effort under the time budget otherwise.
type branchAndBound struct{}

// NewBranchAndBound returns the bundled combinatorial engine
func NewBranchAndBound() Solver {
	return &branchAndBound{}
}

func (s *branchAndBound) Solve(ctx context.Context, m *Model, opts Options) (*Solution, error) {
	e := newEngine(ctx, m, opts)
	return e.run(), nil
}

// occurrence records one appearance of a variable inside a constraint
type occurrence struct {
	con  int
	coef float64
}

type bbEngine struct {
	ctx   context.Context
	model *Model
	opts  Options

	n      int
	order  []int  // branching order: ascending objective coefficient
	values []int8 // -1 unfixed, else 0/1

	// Incremental constraint state: activity over fixed variables plus the
	// least/greatest contribution still achievable from unfixed ones.
	activity []float64
	minRem   []float64
	maxRem   []float64
	varOccs  [][]occurrence

	cost      float64
	minObjRem float64 // least achievable objective over unfixed variables

	bestValues []uint8
	bestCost   float64
	foundAny   bool

	useDeadline bool
	deadline    time.Time
	steps       int
	nodes       int64
	stopped     bool
}

func newEngine(ctx context.Context, m *Model, opts Options) *bbEngine {
	n := m.NumVars()
	cons := m.Constraints()

	e := &bbEngine{
		ctx:      ctx,
		model:    m,
		opts:     opts,
		n:        n,
		values:   make([]int8, n),
		activity: make([]float64, len(cons)),
		minRem:   make([]float64, len(cons)),
		maxRem:   make([]float64, len(cons)),
		varOccs:  make([][]occurrence, n),
		bestCost: math.Inf(1),
	}

	for v := 0; v < n; v++ {
		e.values[v] = -1
		if c := m.ObjectiveCoef(v); c < 0 {
			e.minObjRem += c
		}
	}

	for ci, con := range cons {
		for _, t := range con.Terms {
			e.varOccs[t.Var] = append(e.varOccs[t.Var], occurrence{con: ci, coef: t.Coef})
			if t.Coef > 0 {
				e.maxRem[ci] += t.Coef
			} else {
				e.minRem[ci] += t.Coef
			}
		}
	}

	// Branch on cheap legs first so good incumbents appear early.
	// Fully deterministic: coefficient order with index tiebreak.
	e.order = make([]int, n)
	for i := range e.order {
		e.order[i] = i
	}
	sort.SliceStable(e.order, func(a, b int) bool {
		ca, cb := m.ObjectiveCoef(e.order[a]), m.ObjectiveCoef(e.order[b])
		if ca != cb {
			return ca < cb
		}
		return e.order[a] < e.order[b]
	})

	if opts.TimeLimit > 0 {
		e.useDeadline = true
		e.deadline = time.Now().Add(opts.TimeLimit)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && (!e.useDeadline || ctxDeadline.Before(e.deadline)) {
		e.useDeadline = true
		e.deadline = ctxDeadline
	}

	return e
}

func (e *bbEngine) run() *Solution {
	// A constraint with no variables is decided up front; a contradiction
	// there is a proven infeasibility, not a search outcome.
	for ci, con := range e.model.Constraints() {
		if len(con.Terms) == 0 && !senseHolds(con.Sense, 0, con.RHS) {
			if e.opts.Verbose {
				log.Printf("[SOLVER] Constraint %q (#%d) is trivially infeasible", con.Label, ci)
			}
			return &Solution{Status: StatusInfeasible}
		}
	}

	start := time.Now()
	e.search(0)

	sol := &Solution{}
	switch {
	case e.stopped && e.foundAny:
		sol.Status = StatusFeasible
	case e.stopped:
		sol.Status = StatusNoSolution
	case e.foundAny:
		sol.Status = StatusOptimal
	default:
		sol.Status = StatusInfeasible
	}
	if e.foundAny {
		sol.Objective = e.bestCost
		sol.Values = e.bestValues
	}

	if e.opts.Verbose {
		log.Printf("[SOLVER] %s: objective=%.2f nodes=%d elapsed=%v",
			sol.Status, sol.Objective, e.nodes, time.Since(start))
	}
	return sol
}

// stopCheck performs a rare deadline and cancellation test (every 1024 nodes)
func (e *bbEngine) stopCheck() bool {
	e.steps++
	if (e.steps & 1023) != 0 {
		return false
	}
	if e.useDeadline && time.Now().After(e.deadline) {
		return true
	}
	return e.ctx.Err() != nil
}

func (e *bbEngine) search(depth int) {
	if e.stopCheck() {
		e.stopped = true
		return
	}
	e.nodes++

	// Objective bound against the incumbent
	if e.foundAny && e.cost+e.minObjRem >= e.bestCost-eps {
		return
	}

	if depth == e.n {
		// All variables fixed; every constraint was exact-checked when its
		// last variable was assigned.
		e.bestCost = e.cost
		e.bestValues = make([]uint8, e.n)
		for v, val := range e.values {
			e.bestValues[v] = uint8(val)
		}
		e.foundAny = true
		if e.opts.Verbose {
			log.Printf("[SOLVER] Incumbent %.2f after %d nodes", e.bestCost, e.nodes)
		}
		return
	}

	v := e.order[depth]
	for _, val := range [2]int8{1, 0} {
		e.fix(v, val)
		if e.localFeasible(v) {
			e.search(depth + 1)
		}
		e.unfix(v, val)
		if e.stopped {
			return
		}
	}
}

func (e *bbEngine) fix(v int, val int8) {
	e.values[v] = val
	coef := e.model.ObjectiveCoef(v)
	e.cost += coef * float64(val)
	if coef < 0 {
		e.minObjRem -= coef
	}
	for _, occ := range e.varOccs[v] {
		e.activity[occ.con] += occ.coef * float64(val)
		if occ.coef > 0 {
			e.maxRem[occ.con] -= occ.coef
		} else {
			e.minRem[occ.con] -= occ.coef
		}
	}
}

func (e *bbEngine) unfix(v int, val int8) {
	e.values[v] = -1
	coef := e.model.ObjectiveCoef(v)
	e.cost -= coef * float64(val)
	if coef < 0 {
		e.minObjRem += coef
	}
	for _, occ := range e.varOccs[v] {
		e.activity[occ.con] -= occ.coef * float64(val)
		if occ.coef > 0 {
			e.maxRem[occ.con] += occ.coef
		} else {
			e.minRem[occ.con] += occ.coef
		}
	}
}

// localFeasible checks every constraint touching v against the activity
// still achievable from its unfixed variables
func (e *bbEngine) localFeasible(v int) bool {
	cons := e.model.Constraints()
	for _, occ := range e.varOccs[v] {
		act := e.activity[occ.con]
		lo := act + e.minRem[occ.con]
		hi := act + e.maxRem[occ.con]
		switch cons[occ.con].Sense {
		case LessEqual:
			if lo > cons[occ.con].RHS+eps {
				return false
			}
		case Equal:
			if lo > cons[occ.con].RHS+eps || hi < cons[occ.con].RHS-eps {
				return false
			}
		case GreaterEqual:
			if hi < cons[occ.con].RHS-eps {
				return false
			}
		}
	}
	return true
}

func senseHolds(s Sense, lhs, rhs float64) bool {
	switch s {
	case LessEqual:
		return lhs <= rhs+eps
	case Equal:
		return math.Abs(lhs-rhs) <= eps
	case GreaterEqual:
		return lhs >= rhs-eps
	default:
		return false
	}
}
