package distance

import (
	"context"
	"errors"
	"testing"

	"fleet-route-planner/internal/adapters/cache"
	"fleet-route-planner/internal/domain"
	"fleet-route-planner/internal/ports"
)

var (
	locA = domain.Location{ID: "C001", Coord: domain.Coordinates{Lat: 4.65, Lon: -74.05}}
	locB = domain.Location{ID: "CDA", Coord: domain.Coordinates{Lat: 4.60, Lon: -74.08}}
)

func TestCachingProviderHitSkipsProvider(t *testing.T) {
	inner := NewMockDistanceProvider(domain.ModeRoad, []MockPair{
		{From: "C001", To: "CDA", Meters: 8000, Seconds: 900},
	})
	store := cache.NewMemoryDistanceCache()
	p := NewCachingProvider(inner, store)

	ctx := context.Background()

	first, err := p.GetDistance(ctx, locA, locB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.Calls != 1 {
		t.Fatalf("expected 1 provider call after cold lookup, got %d", inner.Calls)
	}

	// Same pair in both directions: hit, no provider call.
	second, err := p.GetDistance(ctx, locB, locA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.Calls != 1 {
		t.Errorf("cache hit triggered a provider call (calls=%d)", inner.Calls)
	}
	if first != second {
		t.Errorf("mirrored lookup = %+v, want %+v", second, first)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 cached entry for the unordered pair, got %d", store.Len())
	}
}

func TestCachingProviderWarmStoreNeedsNoProvider(t *testing.T) {
	store := cache.NewMemoryDistanceCache()
	if err := store.Put(context.Background(), "C001", "CDA", domain.ModeRoad, ports.DistanceResult{DistanceMeters: 8000, DurationSeconds: 900}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	// Provider with no pairs at all: any call through would fail.
	inner := NewMockDistanceProvider(domain.ModeRoad, nil)
	p := NewCachingProvider(inner, store)

	r, err := p.GetDistance(context.Background(), locA, locB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.Calls != 0 {
		t.Errorf("warm store run issued %d provider calls, want 0", inner.Calls)
	}
	if r.DistanceMeters != 8000 {
		t.Errorf("distance = %d, want 8000", r.DistanceMeters)
	}
}

type unavailableProvider struct{}

func (unavailableProvider) Mode() domain.TravelMode { return domain.ModeRoad }

func (unavailableProvider) GetDistance(context.Context, domain.Location, domain.Location) (ports.DistanceResult, error) {
	return ports.DistanceResult{}, domain.ErrProviderUnavailable
}

func TestCachingProviderFallback(t *testing.T) {
	store := cache.NewMemoryDistanceCache()

	p := NewCachingProvider(unavailableProvider{}, store)
	if _, err := p.GetDistance(context.Background(), locA, locB); !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("without fallback expected ErrProviderUnavailable, got %v", err)
	}

	p.Fallback = NewHaversineFallback(30)
	r, err := p.GetDistance(context.Background(), locA, locB)
	if err != nil {
		t.Fatalf("fallback lookup failed: %v", err)
	}
	if r.DistanceMeters <= 0 {
		t.Errorf("fallback distance = %d, want > 0", r.DistanceMeters)
	}
	if store.Len() != 0 {
		t.Errorf("fallback results must not be cached, got %d entries", store.Len())
	}
}

func TestHaversineSymmetric(t *testing.T) {
	ab := Haversine(locA.Coord, locB.Coord)
	ba := Haversine(locB.Coord, locA.Coord)
	if ab != ba {
		t.Errorf("haversine not symmetric: %v vs %v", ab, ba)
	}
	// Roughly 6.4 km between the two fixture points.
	if ab < 5000 || ab > 8000 {
		t.Errorf("haversine distance %v m outside plausible bounds", ab)
	}
}
