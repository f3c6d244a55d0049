package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"fleet-route-planner/internal/domain"
	"fleet-route-planner/internal/platform/obs"
	"fleet-route-planner/internal/ports"
)

// OSRMProvider implements DistanceProvider against an OSRM routing
// service. Failures to reach the service surface as
// domain.ErrProviderUnavailable so the caller can retry or fall back to a
// straight-line estimate.
type OSRMProvider struct {
	session *http.Client
	baseURL string
	profile string
}

func NewOSRMProvider(baseURL string) *OSRMProvider {
	return &OSRMProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		profile: "driving",
	}
}

func (o *OSRMProvider) Mode() domain.TravelMode { return domain.ModeRoad }

type osrmRoute struct {
	Distance float64 `json:"distance"` // meters
	Duration float64 `json:"duration"` // seconds
}

type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

func (o *OSRMProvider) GetDistance(
	ctx context.Context,
	origin, destination domain.Location,
) (_ ports.DistanceResult, err error) {
	defer obs.Time(ctx, "osrm.GetDistance")(&err)

	url := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=false",
		o.baseURL, o.profile,
		origin.Coord.Lon, origin.Coord.Lat,
		destination.Coord.Lon, destination.Coord.Lat,
	)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodGet, url)
	})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf(
			"osrm route %q -> %q: %w: %w",
			origin.ID, destination.ID, domain.ErrProviderUnavailable, err,
		)
	}
	defer resp.Body.Close()

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("osrm route: decode response: %w", err)
	}

	if body.Code != "Ok" || len(body.Routes) == 0 {
		return ports.DistanceResult{}, fmt.Errorf(
			"osrm route %q -> %q: no route (code=%q): %w",
			origin.ID, destination.ID, body.Code, domain.ErrProviderUnavailable,
		)
	}

	r := body.Routes[0]
	return ports.DistanceResult{
		DistanceMeters:  int(math.Round(r.Distance)),
		DurationSeconds: int(math.Round(r.Duration)),
	}, nil
}
