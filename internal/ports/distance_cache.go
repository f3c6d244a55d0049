package ports

import (
	"context"

	"fleet-route-planner/internal/domain"
)

// Port: a persisted key-value store for computed distance results.
//
// Keys are (origin, destination, mode) triples of location identifiers.
// Once a value is stored for a key it is stable: implementations overwrite
// rather than invalidate, and there is no eviction. Callers normalize the
// pair order for symmetric modes before lookup.
type DistanceCache interface {
	// Get returns the cached result and whether the key was present.
	Get(ctx context.Context, origin, destination string, mode domain.TravelMode) (DistanceResult, bool, error)
	// Put stores a result for the key, replacing any previous value.
	Put(ctx context.Context, origin, destination string, mode domain.TravelMode, r DistanceResult) error
}
