package schedule

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"schedule-optimizer/internal/geo"
	"schedule-optimizer/internal/league"
	"schedule-optimizer/internal/models"
	"schedule-optimizer/internal/solver"
)

func mustRegistry(t *testing.T, teams []models.Team) *league.Registry {
	t.Helper()
	reg, err := league.NewRegistry(teams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return reg
}

func mustMatrix(t *testing.T, reg *league.Registry) *league.DistanceMatrix {
	t.Helper()
	dm, err := league.BuildDistanceMatrix(context.Background(), reg, geo.NewHaversineCalculator())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return dm
}

// fourTeams is the smallest two-pot field: A,B in pot 1 and C,D in pot 2,
// countries X={A,C} and Y={B,D}
func fourTeams() []models.Team {
	return []models.Team{
		{Name: "A", Country: "X", Pot: 1, Lat: 0, Lon: 0},
		{Name: "B", Country: "Y", Pot: 1, Lat: 0, Lon: 10},
		{Name: "C", Country: "X", Pot: 2, Lat: 10, Lon: 0},
		{Name: "D", Country: "Y", Pot: 2, Lat: 10, Lon: 10},
	}
}

// sixTeams is the smallest field where both pot-balance legs can avoid the
// pairing conflict: two pots of three, countries pairing across pots
func sixTeams() []models.Team {
	return []models.Team{
		{Name: "A", Country: "X", Pot: 1, Lat: 0, Lon: 0},
		{Name: "B", Country: "Y", Pot: 1, Lat: 0, Lon: 10},
		{Name: "C", Country: "Z", Pot: 1, Lat: 0, Lon: 20},
		{Name: "D", Country: "X", Pot: 2, Lat: 10, Lon: 0},
		{Name: "E", Country: "Y", Pot: 2, Lat: 10, Lon: 10},
		{Name: "F", Country: "Z", Pot: 2, Lat: 10, Lon: 20},
	}
}

func twoPotFormat() Format {
	return Format{TotalMatches: 4, MaxSameCountry: 2, MatchesPerPot: 1}
}

func TestFormatCheck_AcceptsReferenceIdentity(t *testing.T) {
	teams := make([]models.Team, 0, 8)
	for pot := 1; pot <= 4; pot++ {
		for k := 0; k < 2; k++ {
			teams = append(teams, models.Team{
				Name: string(rune('A'+len(teams))), Country: string(rune('a' + len(teams))),
				Pot: pot, Lat: float64(pot), Lon: float64(k),
			})
		}
	}
	reg := mustRegistry(t, teams)

	if err := DefaultFormat().Check(reg); err != nil {
		t.Errorf("reference format should pass on 4 pots: %v", err)
	}
}

func TestFormatCheck_RejectsPotCountMismatch(t *testing.T) {
	// 3 pots cannot support 8 total matches: 2 x 3 x 1 = 6
	teams := make([]models.Team, 0, 6)
	for pot := 1; pot <= 3; pot++ {
		for k := 0; k < 2; k++ {
			teams = append(teams, models.Team{
				Name: string(rune('A'+len(teams))), Country: string(rune('a' + len(teams))),
				Pot: pot, Lat: float64(pot), Lon: float64(k),
			})
		}
	}
	reg := mustRegistry(t, teams)

	err := DefaultFormat().Check(reg)
	if err == nil {
		t.Fatal("expected infeasible-format error, got nil")
	}
	var infeasible *ErrInfeasibleFormat
	if !errors.As(err, &infeasible) {
		t.Errorf("expected ErrInfeasibleFormat, got %T", err)
	}
}

// failSolver fails the test if the optimizer reaches the solve step
type failSolver struct {
	t *testing.T
}

func (s *failSolver) Solve(ctx context.Context, m *solver.Model, opts solver.Options) (*solver.Solution, error) {
	s.t.Error("solver must not be invoked for a structurally infeasible format")
	return &solver.Solution{Status: solver.StatusInfeasible}, nil
}

func TestOptimize_RejectsBadFormatBeforeSolving(t *testing.T) {
	teams := make([]models.Team, 0, 6)
	for pot := 1; pot <= 3; pot++ {
		for k := 0; k < 2; k++ {
			teams = append(teams, models.Team{
				Name: string(rune('A'+len(teams))), Country: string(rune('a' + len(teams))),
				Pot: pot, Lat: float64(pot), Lon: float64(k),
			})
		}
	}
	reg := mustRegistry(t, teams)
	dm := mustMatrix(t, reg)

	_, _, err := NewOptimizer(&failSolver{t: t}).Optimize(context.Background(), Request{
		Registry: reg,
		Matrix:   dm,
		Format:   DefaultFormat(),
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var infeasible *ErrInfeasibleFormat
	if !errors.As(err, &infeasible) {
		t.Errorf("expected ErrInfeasibleFormat, got %v", err)
	}
}

// enumerateFourTeams walks every one of the 2^12 candidate assignments over
// the off-diagonal cells and reports how many pass validation
func enumerateFourTeams(reg *league.Registry, f Format) int {
	type cell struct{ i, j int }
	var cells []cell
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i != j {
				cells = append(cells, cell{i, j})
			}
		}
	}

	valid := 0
	for mask := 0; mask < 1<<len(cells); mask++ {
		a := models.NewFixtureAssignment(4)
		for bit, c := range cells {
			if mask&(1<<bit) != 0 {
				a.SetAway(c.i, c.j)
			}
		}
		if len(Validate(a, reg, f)) == 0 {
			valid++
		}
	}
	return valid
}

// With pots of size two, the single non-self pot member must be met both
// home and away, which the pairing rule forbids. The instance is provably
// infeasible and the solver must say so rather than time out.
func TestOptimize_TwoTeamPotsAreInfeasible(t *testing.T) {
	reg := mustRegistry(t, fourTeams())
	dm := mustMatrix(t, reg)
	f := twoPotFormat()

	if got := enumerateFourTeams(reg, f); got != 0 {
		t.Fatalf("exhaustive enumeration found %d valid assignments, expected 0", got)
	}

	_, _, err := NewOptimizer(solver.NewBranchAndBound()).Optimize(context.Background(), Request{
		Registry: reg,
		Matrix:   dm,
		Format:   f,
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var infeasible *ErrInfeasible
	if !errors.As(err, &infeasible) {
		t.Errorf("expected ErrInfeasible, got %v", err)
	}
}

// bruteForceSixTeams enumerates every away-pair choice per team (one pot-1
// opponent, one pot-2 opponent, same-country excluded), validates each full
// assignment and returns the minimal total distance
func bruteForceSixTeams(t *testing.T, reg *league.Registry, dm *league.DistanceMatrix, f Format) float64 {
	t.Helper()
	teams := reg.Teams()
	n := reg.Size()

	type choice struct{ p1, p2 int }
	choices := make([][]choice, n)
	for i := 0; i < n; i++ {
		for _, j1 := range reg.ByPot()[1] {
			if j1 == i || teams[j1].Country == teams[i].Country {
				continue
			}
			for _, j2 := range reg.ByPot()[2] {
				if j2 == i || teams[j2].Country == teams[i].Country {
					continue
				}
				choices[i] = append(choices[i], choice{p1: j1, p2: j2})
			}
		}
	}

	best := math.Inf(1)
	picks := make([]choice, n)
	var rec func(i int)
	rec = func(i int) {
		if i == n {
			a := models.NewFixtureAssignment(n)
			for team, c := range picks {
				a.SetAway(team, c.p1)
				a.SetAway(team, c.p2)
			}
			if len(Validate(a, reg, f)) != 0 {
				return
			}
			total, err := TotalDistance(a, dm)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if total < best {
				best = total
			}
			return
		}
		for _, c := range choices[i] {
			picks[i] = c
			rec(i + 1)
		}
	}
	rec(0)

	if math.IsInf(best, 1) {
		t.Fatal("brute force found no valid assignment; instance should be feasible")
	}
	return best
}

func TestOptimize_MatchesBruteForceMinimum(t *testing.T) {
	reg := mustRegistry(t, sixTeams())
	dm := mustMatrix(t, reg)
	f := twoPotFormat()

	want := bruteForceSixTeams(t, reg, dm, f)

	result, assignment, err := NewOptimizer(solver.NewBranchAndBound()).Optimize(context.Background(), Request{
		Registry: reg,
		Matrix:   dm,
		Format:   f,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Summary.SolverStatus != solver.StatusOptimal.String() {
		t.Errorf("expected Optimal status, got %s", result.Summary.SolverStatus)
	}
	if math.Abs(result.Summary.TotalDistanceKm-want) > 1e-6 {
		t.Errorf("optimizer total %.6f differs from brute-force minimum %.6f",
			result.Summary.TotalDistanceKm, want)
	}
	if violations := Validate(assignment, reg, f); len(violations) != 0 {
		t.Errorf("optimizer returned invalid assignment: %v", violations)
	}
	if result.Summary.Fixtures != reg.Size()*f.AwayMatches() {
		t.Errorf("expected %d fixtures, got %d", reg.Size()*f.AwayMatches(), result.Summary.Fixtures)
	}
}

// validSixTeamAssignment builds a hand-checked valid schedule: away cycles
// inside each pot plus country-respecting cross-pot legs
func validSixTeamAssignment() *models.FixtureAssignment {
	a := models.NewFixtureAssignment(6)
	// ids: A=0 B=1 C=2 D=3 E=4 F=5
	a.SetAway(0, 1) // A at B (pot 1)
	a.SetAway(1, 2) // B at C
	a.SetAway(2, 0) // C at A
	a.SetAway(3, 4) // D at E (pot 2)
	a.SetAway(4, 5) // E at F
	a.SetAway(5, 3) // F at D
	a.SetAway(0, 4) // A at E (cross)
	a.SetAway(1, 5) // B at F
	a.SetAway(2, 3) // C at D
	a.SetAway(3, 1) // D at B
	a.SetAway(4, 2) // E at C
	a.SetAway(5, 0) // F at A
	return a
}

func TestValidate_AcceptsValidAssignment(t *testing.T) {
	reg := mustRegistry(t, sixTeams())
	if violations := Validate(validSixTeamAssignment(), reg, twoPotFormat()); len(violations) != 0 {
		t.Errorf("expected no violations, got %v", violations)
	}
}

func TestValidate_ReportsDegreeViolation(t *testing.T) {
	reg := mustRegistry(t, sixTeams())
	a := models.NewFixtureAssignment(6)
	a.SetAway(0, 1)

	violations := Validate(a, reg, twoPotFormat())
	if len(violations) == 0 {
		t.Fatal("expected violations, got none")
	}
	if !hasRule(violations, "away_degree") || !hasRule(violations, "home_degree") {
		t.Errorf("expected degree violations, got %v", violations)
	}
}

func TestValidate_ReportsPairingViolation(t *testing.T) {
	reg := mustRegistry(t, sixTeams())
	a := validSixTeamAssignment()
	a.SetAway(1, 0) // B at A while A already travels to B

	violations := Validate(a, reg, twoPotFormat())
	if !hasRule(violations, "pairing") {
		t.Errorf("expected pairing violation, got %v", violations)
	}
}

func TestValidate_ReportsSameCountryViolation(t *testing.T) {
	reg := mustRegistry(t, sixTeams())
	a := models.NewFixtureAssignment(6)
	a.SetAway(0, 3) // A at D, both country X

	violations := Validate(a, reg, twoPotFormat())
	if !hasRule(violations, "same_country") {
		t.Errorf("expected same-country violation, got %v", violations)
	}
	for _, v := range violations {
		if v.Rule == "same_country" && v.Country != "X" {
			t.Errorf("expected country X in report, got %q", v.Country)
		}
	}
}

func TestValidate_ReportsCountryCapViolation(t *testing.T) {
	// Field with three teams from one country so a traveler can exceed the
	// cap of two legs against it
	teams := []models.Team{
		{Name: "A", Country: "X", Pot: 1, Lat: 0, Lon: 0},
		{Name: "B", Country: "Y", Pot: 1, Lat: 0, Lon: 10},
		{Name: "C", Country: "Y", Pot: 1, Lat: 0, Lon: 20},
		{Name: "D", Country: "Y", Pot: 2, Lat: 10, Lon: 0},
		{Name: "E", Country: "X", Pot: 2, Lat: 10, Lon: 10},
		{Name: "F", Country: "Z", Pot: 2, Lat: 10, Lon: 20},
	}
	reg := mustRegistry(t, teams)

	a := models.NewFixtureAssignment(6)
	a.SetAway(0, 1) // A at B (Y)
	a.SetAway(0, 3) // A at D (Y)
	a.SetAway(2, 0) // C at A: A hosts a third Y side
	a.SetAway(1, 0) // B at A: fourth leg against Y for A

	violations := Validate(a, reg, twoPotFormat())
	if !hasRule(violations, "country_cap") {
		t.Errorf("expected country-cap violation, got %v", violations)
	}
}

func TestValidate_ReportsPotBalanceViolation(t *testing.T) {
	reg := mustRegistry(t, sixTeams())
	a := models.NewFixtureAssignment(6)
	a.SetAway(0, 1) // A at B (pot 1)
	a.SetAway(0, 2) // A at C (pot 1 again, none against pot 2)

	violations := Validate(a, reg, twoPotFormat())
	if !hasRule(violations, "pot_away") {
		t.Errorf("expected pot-away violation, got %v", violations)
	}
}

func TestRenderText_ListsOpponentsAndTotal(t *testing.T) {
	reg := mustRegistry(t, sixTeams())
	a := validSixTeamAssignment()

	dm := mustMatrix(t, reg)
	total, err := TotalDistance(a, dm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := BuildResult(a, reg, models.OptimizationSummary{
		TotalDistanceKm: total,
		SolverStatus:    "Optimal",
	})
	text := RenderText(result)

	if !strings.Contains(text, "Team\tAway opponents\tHome opponents") {
		t.Error("missing header line")
	}
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		if !strings.Contains(text, name) {
			t.Errorf("missing team %s in output", name)
		}
	}
	if !strings.Contains(text, "Total distance:") {
		t.Error("missing total distance line")
	}
}

func TestDecodeAssignment_RejectsDiagonal(t *testing.T) {
	values := make([]uint8, 9)
	values[0] = 1 // (0,0)
	if _, err := DecodeAssignment(values, 3); err == nil {
		t.Fatal("expected error for diagonal value, got nil")
	}
}

func TestDecodeAssignment_RejectsWrongLength(t *testing.T) {
	if _, err := DecodeAssignment(make([]uint8, 5), 3); err == nil {
		t.Fatal("expected error for short value vector, got nil")
	}
}

func hasRule(violations []ViolationReport, rule string) bool {
	for _, v := range violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}
