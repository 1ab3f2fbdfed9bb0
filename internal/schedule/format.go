package schedule

import (
	"fmt"

	"schedule-optimizer/internal/league"
)

// Format holds the competition format parameters. The reference league
// phase plays 8 matches per team (4 home, 4 away), caps opponents from one
// foreign country at 2, and meets every pot exactly once home and once away.
type Format struct {
	TotalMatches   int `json:"total_matches"`
	MaxSameCountry int `json:"max_same_country"`
	MatchesPerPot  int `json:"matches_per_pot"`
}

// DefaultFormat returns the reference competition format
func DefaultFormat() Format {
	return Format{TotalMatches: 8, MaxSameCountry: 2, MatchesPerPot: 1}
}

// HomeMatches returns the number of home legs per team
func (f Format) HomeMatches() int { return f.TotalMatches / 2 }

// AwayMatches returns the number of away legs per team
func (f Format) AwayMatches() int { return f.TotalMatches / 2 }

// ErrInfeasibleFormat is returned when the format parameters contradict the
// field of teams before any solving is attempted
type ErrInfeasibleFormat struct {
	Reason string
}

func (e *ErrInfeasibleFormat) Error() string {
	return fmt.Sprintf("infeasible format: %s", e.Reason)
}

// Check rejects structurally impossible configurations: the pot-balance
// constraints sum to 2 × pots × matchesPerPot legs per team, so the model is
// only feasible when that identity matches TotalMatches, and every pot must
// be large enough that a team in it still has MatchesPerPot opponents left
// after excluding itself.
func (f Format) Check(reg *league.Registry) error {
	if f.TotalMatches <= 0 || f.TotalMatches%2 != 0 {
		return &ErrInfeasibleFormat{Reason: fmt.Sprintf("total matches must be positive and even, got %d", f.TotalMatches)}
	}
	if f.MatchesPerPot <= 0 {
		return &ErrInfeasibleFormat{Reason: fmt.Sprintf("matches per pot must be positive, got %d", f.MatchesPerPot)}
	}
	if f.MaxSameCountry < 0 {
		return &ErrInfeasibleFormat{Reason: fmt.Sprintf("same-country cap must be non-negative, got %d", f.MaxSameCountry)}
	}

	pots := reg.Pots()
	if required := 2 * len(pots) * f.MatchesPerPot; required != f.TotalMatches {
		return &ErrInfeasibleFormat{Reason: fmt.Sprintf(
			"%d pots at %d match(es) each force %d total matches per team, format says %d",
			len(pots), f.MatchesPerPot, required, f.TotalMatches)}
	}

	for _, p := range pots {
		if size := len(reg.ByPot()[p]); size < f.MatchesPerPot+1 {
			return &ErrInfeasibleFormat{Reason: fmt.Sprintf(
				"pot %d has %d team(s), need at least %d for %d match(es) per pot",
				p, size, f.MatchesPerPot+1, f.MatchesPerPot)}
		}
	}

	return nil
}
