package matrix

import (
	"context"
	"testing"

	"fleet-route-planner/internal/adapters/cache"
	"fleet-route-planner/internal/adapters/distance"
	"fleet-route-planner/internal/domain"
)

var testLocations = []domain.Location{
	{ID: "CDA", Coord: domain.Coordinates{Lat: 4.60, Lon: -74.08}},
	{ID: "C001", Coord: domain.Coordinates{Lat: 4.65, Lon: -74.05}},
	{ID: "C002", Coord: domain.Coordinates{Lat: 4.70, Lon: -74.10}},
}

func TestBuildSymmetric(t *testing.T) {
	provider := distance.NewHaversineProvider(45)

	m, err := Build(context.Background(), testLocations, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, from := range m.Locations() {
		for _, to := range m.Locations() {
			ab, err := m.DistanceKm(from, to)
			if err != nil {
				t.Fatalf("distance %s -> %s: %v", from, to, err)
			}
			ba, err := m.DistanceKm(to, from)
			if err != nil {
				t.Fatalf("distance %s -> %s: %v", to, from, err)
			}
			if ab != ba {
				t.Errorf("distance(%s,%s)=%v != distance(%s,%s)=%v", from, to, ab, to, from, ba)
			}
			if from == to && ab != 0 {
				t.Errorf("diagonal distance(%s,%s)=%v, want 0", from, to, ab)
			}
		}
	}
}

func TestBuildIdempotentAndCached(t *testing.T) {
	pairs := []distance.MockPair{
		{From: "C001", To: "CDA", Meters: 8000, Seconds: 900},
		{From: "C002", To: "CDA", Meters: 12000, Seconds: 1300},
		{From: "C001", To: "C002", Meters: 7000, Seconds: 800},
	}
	inner := distance.NewMockDistanceProvider(domain.ModeRoad, pairs)
	store := cache.NewMemoryDistanceCache()
	provider := distance.NewCachingProvider(inner, store)

	ctx := context.Background()

	first, err := Build(ctx, testLocations, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.Calls != 3 {
		t.Fatalf("cold build issued %d provider calls, want 3", inner.Calls)
	}

	second, err := Build(ctx, testLocations, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.Calls != 3 {
		t.Errorf("warm build issued %d extra provider calls, want 0", inner.Calls-3)
	}

	for _, from := range first.Locations() {
		for _, to := range first.Locations() {
			a, _ := first.DistanceKm(from, to)
			b, _ := second.DistanceKm(from, to)
			if a != b {
				t.Errorf("distance(%s,%s) changed across builds: %v vs %v", from, to, a, b)
			}
			da, _ := first.Duration(from, to)
			db, _ := second.Duration(from, to)
			if da != db {
				t.Errorf("duration(%s,%s) changed across builds: %v vs %v", from, to, da, db)
			}
		}
	}
}

func TestBuildUnknownLocation(t *testing.T) {
	provider := distance.NewHaversineProvider(45)
	m, err := Build(context.Background(), testLocations, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := m.DistanceKm("C001", "C999"); err == nil {
		t.Error("expected error for unknown location")
	}
}
