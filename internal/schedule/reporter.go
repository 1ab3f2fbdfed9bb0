package schedule

import (
	"fmt"
	"math"
	"strings"

	"schedule-optimizer/internal/league"
	"schedule-optimizer/internal/models"
)

// TotalDistance sums the kilometers of every away leg in the assignment,
// rounded to 2 decimal places
func TotalDistance(a *models.FixtureAssignment, dm *league.DistanceMatrix) (float64, error) {
	total := 0.0
	n := a.Size()
	for i := 0; i < n; i++ {
		for _, j := range a.AwayOpponents(i) {
			km, err := dm.At(i, j)
			if err != nil {
				return 0, err
			}
			total += km
		}
	}
	return math.Round(total*100) / 100, nil
}

// BuildResult converts an assignment into the structured, serializable
// result consumed by downstream tooling
func BuildResult(a *models.FixtureAssignment, reg *league.Registry, summary models.OptimizationSummary) *models.OptimizationResult {
	teams := reg.Teams()
	fixtures := make([]models.TeamFixtures, len(teams))
	for i := range teams {
		fixtures[i] = models.TeamFixtures{
			Team:          teams[i].Name,
			AwayOpponents: opponentNames(a.AwayOpponents(i), teams),
			HomeOpponents: opponentNames(a.HomeOpponents(i), teams),
		}
	}
	summary.Teams = len(teams)
	summary.Fixtures = a.FixtureCount()
	return &models.OptimizationResult{Fixtures: fixtures, Summary: summary}
}

// RenderText renders the per-team opponent table followed by the minimized
// total distance. Pure formatting; no decision logic.
func RenderText(result *models.OptimizationResult) string {
	var b strings.Builder
	b.WriteString("Team\tAway opponents\tHome opponents\n")
	b.WriteString(strings.Repeat("-", 120))
	b.WriteString("\n")
	for _, f := range result.Fixtures {
		fmt.Fprintf(&b, "%s\t%s\t%s\n",
			f.Team,
			strings.Join(f.AwayOpponents, ", "),
			strings.Join(f.HomeOpponents, ", "))
	}
	b.WriteString(strings.Repeat("-", 120))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total distance: %.2f km (%s)\n",
		result.Summary.TotalDistanceKm, result.Summary.SolverStatus)
	return b.String()
}

func opponentNames(ids []int, teams []models.Team) []string {
	names := make([]string, len(ids))
	for k, id := range ids {
		names[k] = teams[id].Name
	}
	return names
}
