package schedule

import (
	"fmt"
	"log"
	"time"

	"schedule-optimizer/internal/league"
	"schedule-optimizer/internal/models"
	"schedule-optimizer/internal/solver"
)

// varID maps the fixture relation onto dense variable ids: variable i*N+j
// set means team i travels to team j. The mapping is the contract between
// the builder and the decoder.
func varID(i, j, n int) int { return i*n + j }

// BuildModel encodes the competition rules and the travel objective as a
// binary minimization model over the registry and distance matrix. Purely
// declarative; no solving happens here.
//
// Constraint families, per team i:
//  1. exactly AwayMatches away legs and HomeMatches home legs
//  2. at most one leg against any other team
//  3. no legs against same-country teams
//  4. at most MaxSameCountry legs involving any one foreign country
//  5. exactly MatchesPerPot away and home legs against every pot,
//     excluding i itself from its own pot
func BuildModel(reg *league.Registry, dm *league.DistanceMatrix, f Format) (*solver.Model, error) {
	start := time.Now()
	n := reg.Size()
	if dm.Size() != n {
		return nil, fmt.Errorf("distance matrix covers %d teams, registry has %d", dm.Size(), n)
	}

	m := solver.NewModel()
	teams := reg.Teams()

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.AddBinary(fmt.Sprintf("leg_%d_%d", i, j))
		}
	}

	// Objective: total kilometers traveled across all away legs.
	// The diagonal is cost-free, so it is pinned to zero explicitly below.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			km, err := dm.At(i, j)
			if err != nil {
				return nil, err
			}
			if err := m.SetObjectiveCoef(varID(i, j, n), km); err != nil {
				return nil, err
			}
		}
	}

	for i := 0; i < n; i++ {
		if err := m.AddConstraint(
			[]solver.Term{{Var: varID(i, i, n), Coef: 1}},
			solver.Equal, 0, fmt.Sprintf("no_self_%d", i),
		); err != nil {
			return nil, err
		}
	}

	// 1. Degree: half the fixtures away, half at home
	for i := 0; i < n; i++ {
		away := make([]solver.Term, 0, n-1)
		home := make([]solver.Term, 0, n-1)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			away = append(away, solver.Term{Var: varID(i, j, n), Coef: 1})
			home = append(home, solver.Term{Var: varID(j, i, n), Coef: 1})
		}
		if err := m.AddConstraint(away, solver.Equal, float64(f.AwayMatches()), fmt.Sprintf("away_degree_%d", i)); err != nil {
			return nil, err
		}
		if err := m.AddConstraint(home, solver.Equal, float64(f.HomeMatches()), fmt.Sprintf("home_degree_%d", i)); err != nil {
			return nil, err
		}
	}

	// 2. Pairing: at most one leg between any pair
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			terms := []solver.Term{
				{Var: varID(i, j, n), Coef: 1},
				{Var: varID(j, i, n), Coef: 1},
			}
			if err := m.AddConstraint(terms, solver.LessEqual, 1, fmt.Sprintf("pair_%d_%d", i, j)); err != nil {
				return nil, err
			}
		}
	}

	// 3. Nationality exclusion: no fixtures inside one country
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if teams[i].Country != teams[j].Country {
				continue
			}
			terms := []solver.Term{
				{Var: varID(i, j, n), Coef: 1},
				{Var: varID(j, i, n), Coef: 1},
			}
			if err := m.AddConstraint(terms, solver.Equal, 0, fmt.Sprintf("same_country_%d_%d", i, j)); err != nil {
				return nil, err
			}
		}
	}

	// 4. Nationality cap: both legs count against the foreign-country budget
	for i := 0; i < n; i++ {
		for _, country := range reg.Countries() {
			if country == teams[i].Country {
				continue
			}
			members := reg.ByCountry()[country]
			terms := make([]solver.Term, 0, 2*len(members))
			for _, j := range members {
				terms = append(terms,
					solver.Term{Var: varID(i, j, n), Coef: 1},
					solver.Term{Var: varID(j, i, n), Coef: 1},
				)
			}
			if err := m.AddConstraint(terms, solver.LessEqual, float64(f.MaxSameCountry),
				fmt.Sprintf("country_cap_%d_%s", i, country)); err != nil {
				return nil, err
			}
		}
	}

	// 5. Pot balance: exactly MatchesPerPot away and home per pot, with the
	// team itself excluded from its own pot
	for i := 0; i < n; i++ {
		for _, pot := range reg.Pots() {
			away := make([]solver.Term, 0, len(reg.ByPot()[pot]))
			home := make([]solver.Term, 0, len(reg.ByPot()[pot]))
			for _, j := range reg.ByPot()[pot] {
				if j == i {
					continue
				}
				away = append(away, solver.Term{Var: varID(i, j, n), Coef: 1})
				home = append(home, solver.Term{Var: varID(j, i, n), Coef: 1})
			}
			if err := m.AddConstraint(away, solver.Equal, float64(f.MatchesPerPot), fmt.Sprintf("pot_away_%d_%d", i, pot)); err != nil {
				return nil, err
			}
			if err := m.AddConstraint(home, solver.Equal, float64(f.MatchesPerPot), fmt.Sprintf("pot_home_%d_%d", i, pot)); err != nil {
				return nil, err
			}
		}
	}

	log.Printf("[TIMING] Model build: %d vars, %d constraints in %v",
		m.NumVars(), len(m.Constraints()), time.Since(start))
	return m, nil
}

// DecodeAssignment converts solver variable values back into a
// FixtureAssignment using the builder's id mapping
func DecodeAssignment(values []uint8, n int) (*models.FixtureAssignment, error) {
	if len(values) != n*n {
		return nil, fmt.Errorf("solution has %d values, expected %d", len(values), n*n)
	}
	a := models.NewFixtureAssignment(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if values[varID(i, j, n)] != 1 {
				continue
			}
			if i == j {
				return nil, fmt.Errorf("solver set self-fixture variable for team %d", i)
			}
			a.SetAway(i, j)
		}
	}
	return a, nil
}
