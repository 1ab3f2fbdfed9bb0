package league

import (
	"context"
	"fmt"
	"log"
	"time"

	"schedule-optimizer/internal/geo"
)

// DistanceMatrix holds precomputed pairwise great-circle distances in
// kilometers over all teams. Symmetric with a zero diagonal; read-only
// after construction.
type DistanceMatrix struct {
	n     int
	cells []float64
}

// BuildDistanceMatrix computes the full pairwise matrix through the given
// calculator. Each unordered pair is computed once and mirrored.
func BuildDistanceMatrix(ctx context.Context, reg *Registry, calc geo.Calculator) (*DistanceMatrix, error) {
	start := time.Now()
	n := reg.Size()
	m := &DistanceMatrix{n: n, cells: make([]float64, n*n)}

	teams := reg.Teams()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			km, err := calc.GetDistance(ctx, teams[i].GetCoords(), teams[j].GetCoords())
			if err != nil {
				return nil, fmt.Errorf("distance %s -> %s: %w", teams[i].Name, teams[j].Name, err)
			}
			m.cells[i*n+j] = km
			m.cells[j*n+i] = km
		}
	}

	log.Printf("[TIMING] Distance matrix (%dx%d): %v", n, n, time.Since(start))
	return m, nil
}

// Size returns the number of teams covered
func (m *DistanceMatrix) Size() int { return m.n }

// At returns the distance between teams i and j in kilometers
func (m *DistanceMatrix) At(i, j int) (float64, error) {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		return 0, fmt.Errorf("distance index out of range: (%d,%d) with %d teams", i, j, m.n)
	}
	return m.cells[i*m.n+j], nil
}
