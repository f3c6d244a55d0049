package opt

import (
	"fmt"
	"time"

	"fleet-route-planner/internal/domain"
	"fleet-route-planner/internal/matrix"
)

// Options select the constraint modules active for a case. Capacity and
// visit-exactly-once are always enforced; the rest vary per case.
type Options struct {
	TimeWindows bool
	Range       bool
	DepotHours  bool
	ServiceTime time.Duration
}

// Instance is one solvable routing problem: a depot, the clients to serve,
// the fleet, and the distance matrices for the travel modes the fleet
// uses. It exists for the scope of a single solve.
type Instance struct {
	Depot    domain.Depot
	Clients  []domain.Client
	Vehicles []domain.Vehicle
	Road     *matrix.Matrix
	Air      *matrix.Matrix
	Costs    domain.CostRates
	Start    time.Time
	Opts     Options
}

// Nodes returns all stop codes: the depot code followed by client codes.
func (in *Instance) Nodes() []string {
	nodes := make([]string, 0, len(in.Clients)+1)
	nodes = append(nodes, in.Depot.Code)
	for _, c := range in.Clients {
		nodes = append(nodes, c.DisplayID())
	}
	return nodes
}

// matrixFor returns the distance matrix for the vehicle's travel mode.
func (in *Instance) matrixFor(v domain.Vehicle) (*matrix.Matrix, error) {
	switch v.Type.Mode() {
	case domain.ModeAir:
		if in.Air == nil {
			return nil, fmt.Errorf("instance: no air matrix for vehicle %s", v.DisplayID())
		}
		return in.Air, nil
	default:
		if in.Road == nil {
			return nil, fmt.Errorf("instance: no road matrix for vehicle %s", v.DisplayID())
		}
		return in.Road, nil
	}
}

// DistanceKm returns the leg distance for a vehicle between two stops.
func (in *Instance) DistanceKm(v domain.Vehicle, from, to string) (float64, error) {
	m, err := in.matrixFor(v)
	if err != nil {
		return 0, err
	}
	return m.DistanceKm(from, to)
}

// TravelTime returns the leg travel time for a vehicle. Ground vehicles
// take the road matrix duration; aerial vehicles fly the straight-line
// distance at their own speed.
func (in *Instance) TravelTime(v domain.Vehicle, from, to string) (time.Duration, error) {
	m, err := in.matrixFor(v)
	if err != nil {
		return 0, err
	}

	if v.Type.Mode() == domain.ModeAir && v.SpeedKmh > 0 {
		km, err := m.DistanceKm(from, to)
		if err != nil {
			return 0, err
		}
		return time.Duration(km / v.SpeedKmh * float64(time.Hour)), nil
	}

	return m.Duration(from, to)
}

// Horizon returns the planning horizon in seconds from the operational
// start: the latest window or depot close, padded with the slowest
// possible return leg.
func (in *Instance) Horizon() (float64, error) {
	latest := in.Depot.Hours.End
	for _, c := range in.Clients {
		if c.Window.End.After(latest) {
			latest = c.Window.End
		}
	}

	horizon := latest.Sub(in.Start).Seconds()

	var maxLeg float64
	for _, v := range in.Vehicles {
		for _, from := range in.Nodes() {
			for _, to := range in.Nodes() {
				if from == to {
					continue
				}
				d, err := in.TravelTime(v, from, to)
				if err != nil {
					return 0, err
				}
				if s := d.Seconds(); s > maxLeg {
					maxLeg = s
				}
			}
		}
	}

	return horizon + maxLeg + in.Opts.ServiceTime.Seconds(), nil
}

// seconds converts an instant to model time (seconds since Start),
// clamped at zero for windows opening before the operational start.
func (in *Instance) seconds(t time.Time) float64 {
	s := t.Sub(in.Start).Seconds()
	if s < 0 {
		return 0
	}
	return s
}

// instant converts model time back to a wall-clock instant.
func (in *Instance) instant(s float64) time.Time {
	return in.Start.Add(time.Duration(s * float64(time.Second))).Round(time.Second)
}
