package distance

import (
	"context"
	"fmt"

	"fleet-route-planner/internal/domain"
	"fleet-route-planner/internal/ports"
)

type MockPair struct {
	From, To string
	Meters   int
	Seconds  int
}

// MockDistanceProvider serves canned pair results and counts calls, so
// tests can assert that cache hits never reach the provider.
type MockDistanceProvider struct {
	m     map[string]ports.DistanceResult
	mode  domain.TravelMode
	Calls int
}

func NewMockDistanceProvider(mode domain.TravelMode, pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockDistanceProvider{m: m, mode: mode}
}

func (p *MockDistanceProvider) Mode() domain.TravelMode { return p.mode }

func (p *MockDistanceProvider) GetDistance(
	_ context.Context,
	origin, destination domain.Location,
) (ports.DistanceResult, error) {
	p.Calls++

	r, ok := p.m[origin.ID+"|"+destination.ID]
	if !ok {
		// Pairs are stored once; try the mirrored key.
		r, ok = p.m[destination.ID+"|"+origin.ID]
	}
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %q -> %q", origin.ID, destination.ID)
	}

	return r, nil
}
