//go:build highs

package opt

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleet-route-planner/internal/domain"
)

// These tests drive the real engine and need the solver plugin installed;
// run them with -tags highs.

func TestSolveTinyInstance(t *testing.T) {
	inst := tinyInstance(t)

	s := NewMIPSolver(time.Minute, 0)
	sol, err := s.Solve(context.Background(), inst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sol.Status != StatusOptimal {
		t.Errorf("status = %s, want %s", sol.Status, StatusOptimal)
	}
	if len(sol.Routes) != 1 {
		t.Fatalf("got %d routes, want 1", len(sol.Routes))
	}

	r := sol.Routes[0]
	if r.ClientsServed() != 3 {
		t.Errorf("clients served = %d, want 3", r.ClientsServed())
	}
	// Demands 10+20+15 fit the 50 kg vehicle in a single route.
	if r.InitialLoadKg != 45 {
		t.Errorf("initial load = %d, want 45", r.InitialLoadKg)
	}

	seq := r.Sequence()
	if seq[0] != "CDA" || seq[len(seq)-1] != "CDA" {
		t.Errorf("route must start and end at the depot: %v", seq)
	}

	for _, stop := range r.Stops {
		var c domain.Client
		for _, cand := range inst.Clients {
			if cand.DisplayID() == stop.ClientID {
				c = cand
			}
		}
		if !c.Window.Contains(stop.ArriveAt) {
			t.Errorf("arrival at %s (%v) outside window %s", stop.ClientID, stop.ArriveAt, c.Window)
		}
	}
}

func TestSolveInfeasibleWhenDemandExceedsFleet(t *testing.T) {
	inst := tinyInstance(t)
	// Total demand is 45 kg; shrink the only vehicle below it.
	inst.Vehicles[0].CapacityKg = 20

	s := NewMIPSolver(time.Minute, 0)
	_, err := s.Solve(context.Background(), inst)
	if !errors.Is(err, domain.ErrModelInfeasible) {
		t.Fatalf("expected ErrModelInfeasible, got %v", err)
	}
}
