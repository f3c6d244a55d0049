package domain

import "time"

// A single stop on a planned route: the vehicle arrives at a client,
// delivers its demand, and carries LoadAfterKg onward.
type RouteStop struct {
	ClientID    string
	ArriveAt    time.Time
	DemandKg    int
	LoadAfterKg int
}

// The planned route for one vehicle: depot -> clients -> depot.
// Produced only after a successful solve and treated as immutable.
type RouteAssignment struct {
	VehicleID       string
	DepotID         string
	InitialLoadKg   int
	Stops           []RouteStop
	DepartAt        time.Time
	ReturnAt        time.Time
	TotalDistanceKm float64
	TotalCost       float64
}

// Sequence returns the ordered stop codes including the depot legs,
// e.g. ["CDA", "C001", "C003", "CDA"].
func (r RouteAssignment) Sequence() []string {
	seq := make([]string, 0, len(r.Stops)+2)
	seq = append(seq, r.DepotID)
	for _, s := range r.Stops {
		seq = append(seq, s.ClientID)
	}
	seq = append(seq, r.DepotID)
	return seq
}

// ClientsServed returns the number of client stops on the route.
func (r RouteAssignment) ClientsServed() int { return len(r.Stops) }

// Duration returns the wall-clock span from departure to return.
func (r RouteAssignment) Duration() time.Duration {
	return r.ReturnAt.Sub(r.DepartAt)
}
