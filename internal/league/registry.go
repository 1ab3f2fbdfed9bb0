package league

import (
	"fmt"
	"sort"

	"schedule-optimizer/internal/models"
)

// Registry holds the normalized team entities for one competition edition.
// Teams are immutable once loaded; pot and country groupings are computed
// once at construction.
type Registry struct {
	teams     []models.Team
	byPot     map[int][]int
	byCountry map[string][]int
}

// NewRegistry builds a registry from loaded teams, assigning dense ids in
// input order. Pot numbers must be positive and countries non-empty.
func NewRegistry(teams []models.Team) (*Registry, error) {
	if len(teams) == 0 {
		return nil, fmt.Errorf("registry requires at least one team")
	}

	r := &Registry{
		teams:     make([]models.Team, len(teams)),
		byPot:     make(map[int][]int),
		byCountry: make(map[string][]int),
	}

	for i, t := range teams {
		if t.Pot < 1 {
			return nil, fmt.Errorf("team %q: invalid pot %d", t.Name, t.Pot)
		}
		if t.Country == "" {
			return nil, fmt.Errorf("team %q: missing country", t.Name)
		}
		t.ID = i
		r.teams[i] = t
		r.byPot[t.Pot] = append(r.byPot[t.Pot], i)
		r.byCountry[t.Country] = append(r.byCountry[t.Country], i)
	}

	return r, nil
}

// Size returns the number of teams
func (r *Registry) Size() int { return len(r.teams) }

// Team returns the team with the given dense id
func (r *Registry) Team(id int) (models.Team, error) {
	if id < 0 || id >= len(r.teams) {
		return models.Team{}, fmt.Errorf("team id %d out of range (0..%d)", id, len(r.teams)-1)
	}
	return r.teams[id], nil
}

// Teams returns all teams in id order. Callers must not mutate the slice.
func (r *Registry) Teams() []models.Team { return r.teams }

// ByPot returns team ids grouped by pot number
func (r *Registry) ByPot() map[int][]int { return r.byPot }

// ByCountry returns team ids grouped by country abbreviation
func (r *Registry) ByCountry() map[string][]int { return r.byCountry }

// Pots returns the pot numbers present, ascending
func (r *Registry) Pots() []int {
	pots := make([]int, 0, len(r.byPot))
	for p := range r.byPot {
		pots = append(pots, p)
	}
	sort.Ints(pots)
	return pots
}

// Countries returns the country abbreviations present, sorted
func (r *Registry) Countries() []string {
	countries := make([]string, 0, len(r.byCountry))
	for c := range r.byCountry {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	return countries
}
