package cache

import (
	"context"

	"fleet-route-planner/internal/domain"
	"fleet-route-planner/internal/ports"
)

// In-memory cache, used in tests and for runs where persistence is not
// wanted. The pipeline is single-threaded, so no locking is needed.
type MemoryDistanceCache struct {
	m map[string]ports.DistanceResult
}

func NewMemoryDistanceCache() *MemoryDistanceCache {
	return &MemoryDistanceCache{m: make(map[string]ports.DistanceResult)}
}

func key(origin, destination string, mode domain.TravelMode) string {
	return origin + "|" + destination + "|" + string(mode)
}

func (c *MemoryDistanceCache) Get(
	_ context.Context,
	origin, destination string,
	mode domain.TravelMode,
) (ports.DistanceResult, bool, error) {
	r, ok := c.m[key(origin, destination, mode)]
	return r, ok, nil
}

func (c *MemoryDistanceCache) Put(
	_ context.Context,
	origin, destination string,
	mode domain.TravelMode,
	r ports.DistanceResult,
) error {
	c.m[key(origin, destination, mode)] = r
	return nil
}

// Len reports the number of cached entries.
func (c *MemoryDistanceCache) Len() int { return len(c.m) }
