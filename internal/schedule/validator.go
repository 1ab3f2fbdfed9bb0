package schedule

import (
	"fmt"
	"strings"

	"schedule-optimizer/internal/league"
	"schedule-optimizer/internal/models"
)

// ViolationReport names one broken rule: which teams, pot or country it
// concerns and the measured versus expected value
type ViolationReport struct {
	Rule    string   `json:"rule"`
	Teams   []string `json:"teams,omitempty"`
	Pot     int      `json:"pot,omitempty"`
	Country string   `json:"country,omitempty"`
	Got     int      `json:"got"`
	Want    int      `json:"want"`
}

func (v ViolationReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: got %d, want %d", v.Rule, v.Got, v.Want)
	if len(v.Teams) > 0 {
		fmt.Fprintf(&b, " (teams: %s", strings.Join(v.Teams, ", "))
		if v.Pot != 0 {
			fmt.Fprintf(&b, ", pot %d", v.Pot)
		}
		if v.Country != "" {
			fmt.Fprintf(&b, ", country %s", v.Country)
		}
		b.WriteString(")")
	}
	return b.String()
}

// Validate independently re-checks every structural invariant against a
// candidate assignment. The solver is untrusted from the core's point of
// view; a model-encoding bug must surface here, not in production output.
// Returns an empty list iff the assignment is valid.
func Validate(a *models.FixtureAssignment, reg *league.Registry, f Format) []ViolationReport {
	var out []ViolationReport
	n := reg.Size()
	teams := reg.Teams()

	if a.Size() != n {
		return []ViolationReport{{
			Rule: "size", Got: a.Size(), Want: n,
		}}
	}

	// Self-fixtures and pairing
	for i := 0; i < n; i++ {
		if a.Away(i, i) {
			out = append(out, ViolationReport{
				Rule: "self_fixture", Teams: []string{teams[i].Name}, Got: 1, Want: 0,
			})
		}
		for j := i + 1; j < n; j++ {
			legs := count(a.Away(i, j)) + count(a.Away(j, i))
			if legs > 1 {
				out = append(out, ViolationReport{
					Rule:  "pairing",
					Teams: []string{teams[i].Name, teams[j].Name},
					Got:   legs, Want: 1,
				})
			}
		}
	}

	// Degree
	for i := 0; i < n; i++ {
		away := len(a.AwayOpponents(i))
		home := len(a.HomeOpponents(i))
		if away != f.AwayMatches() {
			out = append(out, ViolationReport{
				Rule: "away_degree", Teams: []string{teams[i].Name}, Got: away, Want: f.AwayMatches(),
			})
		}
		if home != f.HomeMatches() {
			out = append(out, ViolationReport{
				Rule: "home_degree", Teams: []string{teams[i].Name}, Got: home, Want: f.HomeMatches(),
			})
		}
	}

	// Nationality exclusion
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if teams[i].Country != teams[j].Country {
				continue
			}
			if legs := count(a.Away(i, j)) + count(a.Away(j, i)); legs > 0 {
				out = append(out, ViolationReport{
					Rule:    "same_country",
					Teams:   []string{teams[i].Name, teams[j].Name},
					Country: teams[i].Country,
					Got:     legs, Want: 0,
				})
			}
		}
	}

	// Nationality cap over foreign countries
	for i := 0; i < n; i++ {
		for _, country := range reg.Countries() {
			if country == teams[i].Country {
				continue
			}
			legs := 0
			for _, j := range reg.ByCountry()[country] {
				legs += count(a.Away(i, j)) + count(a.Away(j, i))
			}
			if legs > f.MaxSameCountry {
				out = append(out, ViolationReport{
					Rule:    "country_cap",
					Teams:   []string{teams[i].Name},
					Country: country,
					Got:     legs, Want: f.MaxSameCountry,
				})
			}
		}
	}

	// Pot balance, the team's own pot included (minus itself)
	for i := 0; i < n; i++ {
		for _, pot := range reg.Pots() {
			away, home := 0, 0
			for _, j := range reg.ByPot()[pot] {
				if j == i {
					continue
				}
				away += count(a.Away(i, j))
				home += count(a.Away(j, i))
			}
			if away != f.MatchesPerPot {
				out = append(out, ViolationReport{
					Rule: "pot_away", Teams: []string{teams[i].Name}, Pot: pot,
					Got: away, Want: f.MatchesPerPot,
				})
			}
			if home != f.MatchesPerPot {
				out = append(out, ViolationReport{
					Rule: "pot_home", Teams: []string{teams[i].Name}, Pot: pot,
					Got: home, Want: f.MatchesPerPot,
				})
			}
		}
	}

	return out
}

func count(b bool) int {
	if b {
		return 1
	}
	return 0
}
