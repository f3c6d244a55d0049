package distance

import (
	"context"
	"math"

	"fleet-route-planner/internal/domain"
	"fleet-route-planner/internal/ports"
)

const earthRadiusMeters = 6371000.0

// HaversineProvider measures straight-line great-circle distances. It is
// the travel model for aerial vehicles and the fallback when the road
// provider is unreachable. Durations assume the configured cruise speed;
// callers that know a specific vehicle's speed recompute duration from the
// distance instead.
type HaversineProvider struct {
	SpeedKmh float64
	mode     domain.TravelMode
}

func NewHaversineProvider(speedKmh float64) *HaversineProvider {
	return &HaversineProvider{SpeedKmh: speedKmh, mode: domain.ModeAir}
}

// NewHaversineFallback builds a straight-line estimator reported under the
// road mode, for use when the road provider is down.
func NewHaversineFallback(speedKmh float64) *HaversineProvider {
	return &HaversineProvider{SpeedKmh: speedKmh, mode: domain.ModeRoad}
}

func (p *HaversineProvider) Mode() domain.TravelMode { return p.mode }

func (p *HaversineProvider) GetDistance(
	_ context.Context,
	origin, destination domain.Location,
) (ports.DistanceResult, error) {
	meters := Haversine(origin.Coord, destination.Coord)

	seconds := 0
	if p.SpeedKmh > 0 {
		seconds = int(math.Round(meters / (p.SpeedKmh * 1000 / 3600)))
	}

	return ports.DistanceResult{
		DistanceMeters:  int(math.Round(meters)),
		DurationSeconds: seconds,
	}, nil
}

// Haversine computes the great-circle distance between two points in meters.
func Haversine(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}
