package matrix

import (
	"context"
	"fmt"
	"time"

	"fleet-route-planner/internal/domain"
	"fleet-route-planner/internal/platform/obs"
	"fleet-route-planner/internal/ports"
)

// Matrix is a complete pairwise distance/duration table over a fixed
// location set, in one travel mode. It is built once per solve and read
// by the model builder and the verifier.
type Matrix struct {
	Mode  domain.TravelMode
	ids   []string
	index map[string]int
	dist  [][]float64 // km
	dur   [][]int     // seconds
}

// DistanceKm returns the distance between two locations by identifier.
func (m *Matrix) DistanceKm(from, to string) (float64, error) {
	i, j, err := m.pair(from, to)
	if err != nil {
		return 0, err
	}
	return m.dist[i][j], nil
}

// Duration returns the provider travel time between two locations.
// Aerial vehicles recompute this from distance and their own speed.
func (m *Matrix) Duration(from, to string) (time.Duration, error) {
	i, j, err := m.pair(from, to)
	if err != nil {
		return 0, err
	}
	return time.Duration(m.dur[i][j]) * time.Second, nil
}

func (m *Matrix) pair(from, to string) (int, int, error) {
	i, ok := m.index[from]
	if !ok {
		return 0, 0, fmt.Errorf("matrix: unknown location %q", from)
	}
	j, ok := m.index[to]
	if !ok {
		return 0, 0, fmt.Errorf("matrix: unknown location %q", to)
	}
	return i, j, nil
}

// Locations returns the identifiers the matrix covers, in index order.
func (m *Matrix) Locations() []string { return m.ids }

// Build produces the complete pairwise matrix for the given locations.
//
// Travel is treated as symmetric in both modes, so each unordered pair
// costs a single provider lookup and the result fills both triangles.
// With a warm cache behind the provider the build is deterministic and
// touches no external service.
func Build(
	ctx context.Context,
	locations []domain.Location,
	provider ports.DistanceProvider,
) (_ *Matrix, err error) {
	defer obs.Time(ctx, "matrix.Build")(&err)

	n := len(locations)
	m := &Matrix{
		Mode:  provider.Mode(),
		ids:   make([]string, n),
		index: make(map[string]int, n),
		dist:  make([][]float64, n),
		dur:   make([][]int, n),
	}

	for i, loc := range locations {
		if _, dup := m.index[loc.ID]; dup {
			return nil, fmt.Errorf("build matrix: duplicate location %q", loc.ID)
		}
		m.ids[i] = loc.ID
		m.index[loc.ID] = i
		m.dist[i] = make([]float64, n)
		m.dur[i] = make([]int, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r, err := provider.GetDistance(ctx, locations[i], locations[j])
			if err != nil {
				return nil, fmt.Errorf(
					"build matrix: %q -> %q: %w",
					locations[i].ID, locations[j].ID, err,
				)
			}

			km := float64(r.DistanceMeters) / 1000

			m.dist[i][j] = km
			m.dist[j][i] = km
			m.dur[i][j] = r.DurationSeconds
			m.dur[j][i] = r.DurationSeconds
		}
	}

	return m, nil
}
