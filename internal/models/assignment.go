package models

import "fmt"

// FixtureAssignment is the central decision artifact: a dense N×N binary
// matrix where cell (i,j) set means team i plays away at team j's venue.
// The diagonal is always zero. Created fresh per optimization run and
// treated as a value afterwards.
type FixtureAssignment struct {
	n     int
	cells []uint8
}

// NewFixtureAssignment creates an empty assignment for n teams
func NewFixtureAssignment(n int) *FixtureAssignment {
	return &FixtureAssignment{n: n, cells: make([]uint8, n*n)}
}

// Size returns the number of teams
func (a *FixtureAssignment) Size() int { return a.n }

func (a *FixtureAssignment) checkBounds(i, j int) error {
	if i < 0 || i >= a.n || j < 0 || j >= a.n {
		return fmt.Errorf("fixture index out of range: (%d,%d) with %d teams", i, j, a.n)
	}
	return nil
}

// Away reports whether team i travels to team j. Out-of-range indices panic;
// ids are dense by construction so a bad index is a programming error.
func (a *FixtureAssignment) Away(i, j int) bool {
	if err := a.checkBounds(i, j); err != nil {
		panic(err)
	}
	return a.cells[i*a.n+j] == 1
}

// SetAway marks team i as traveling to team j
func (a *FixtureAssignment) SetAway(i, j int) {
	if err := a.checkBounds(i, j); err != nil {
		panic(err)
	}
	if i == j {
		panic(fmt.Sprintf("self-fixture for team %d", i))
	}
	a.cells[i*a.n+j] = 1
}

// AwayOpponents returns the ids of all teams that team i visits, ascending
func (a *FixtureAssignment) AwayOpponents(i int) []int {
	out := make([]int, 0, 4)
	for j := 0; j < a.n; j++ {
		if a.cells[i*a.n+j] == 1 {
			out = append(out, j)
		}
	}
	return out
}

// HomeOpponents returns the ids of all teams that team i hosts, ascending
func (a *FixtureAssignment) HomeOpponents(i int) []int {
	out := make([]int, 0, 4)
	for j := 0; j < a.n; j++ {
		if a.cells[j*a.n+i] == 1 {
			out = append(out, j)
		}
	}
	return out
}

// FixtureCount returns the total number of scheduled legs
func (a *FixtureAssignment) FixtureCount() int {
	total := 0
	for _, c := range a.cells {
		if c == 1 {
			total++
		}
	}
	return total
}
