package ports

import (
	"context"

	"fleet-route-planner/internal/domain"
)

// Distance and travel duration between two locations.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for retrieving travel distance and duration between locations.
type DistanceProvider interface {
	// Mode reports which travel mode the provider measures.
	Mode() domain.TravelMode
	// Return travel distance and estimated duration between two locations.
	GetDistance(ctx context.Context, origin, destination domain.Location) (DistanceResult, error)
}
