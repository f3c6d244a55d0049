package distance

import (
	"context"
	"errors"
	"fmt"
	"log"

	"fleet-route-planner/internal/domain"
	"fleet-route-planner/internal/ports"
)

// CachingProvider wraps a DistanceProvider with a persistent cache.
//
// A lookup hit never reaches the inner provider. On a miss the result is
// written through before returning, so an interrupted run keeps everything
// it already paid for. Pair keys are normalized to lexicographic order:
// both travel modes here are symmetric, so each unordered pair is stored
// once.
//
// If a Fallback is configured, provider-unavailable errors degrade to a
// straight-line estimate instead of failing the run. Fallback results are
// not cached, so a later run with a healthy provider fills in the real
// value.
type CachingProvider struct {
	Inner    ports.DistanceProvider
	Cache    ports.DistanceCache
	Fallback ports.DistanceProvider
}

func NewCachingProvider(inner ports.DistanceProvider, cache ports.DistanceCache) *CachingProvider {
	return &CachingProvider{Inner: inner, Cache: cache}
}

func (p *CachingProvider) Mode() domain.TravelMode { return p.Inner.Mode() }

func (p *CachingProvider) GetDistance(
	ctx context.Context,
	origin, destination domain.Location,
) (ports.DistanceResult, error) {
	a, b := origin, destination
	if b.ID < a.ID {
		a, b = b, a
	}

	mode := p.Inner.Mode()

	if p.Cache != nil {
		r, ok, err := p.Cache.Get(ctx, a.ID, b.ID, mode)
		if err != nil {
			return ports.DistanceResult{}, fmt.Errorf("distance cache get %q -> %q: %w", a.ID, b.ID, err)
		}
		if ok {
			return r, nil
		}
	}

	r, err := p.Inner.GetDistance(ctx, a, b)
	if err != nil {
		if p.Fallback != nil && errors.Is(err, domain.ErrProviderUnavailable) {
			log.Printf("distance provider unavailable for %q -> %q, using straight-line estimate", a.ID, b.ID)
			return p.Fallback.GetDistance(ctx, a, b)
		}
		return ports.DistanceResult{}, err
	}

	if p.Cache != nil {
		if err := p.Cache.Put(ctx, a.ID, b.ID, mode, r); err != nil {
			log.Printf("distance cache write failed: %v", err)
		}
	}

	return r, nil
}
