package opt

import (
	"fmt"
	"sort"

	"fleet-route-planner/internal/domain"
)

// assembleRoutes reconstructs ordered RouteAssignments from the chosen
// arcs and the solved time values. Loads are recomputed from demands
// rather than read from the load variables, so the exported numbers are
// exact integers.
func assembleRoutes(
	inst *Instance,
	chosen []arc,
	arrival map[string]float64,
	depart map[string]float64,
	ret map[string]float64,
) ([]domain.RouteAssignment, error) {
	depot := inst.Depot.Code

	clients := make(map[string]domain.Client, len(inst.Clients))
	for _, c := range inst.Clients {
		clients[c.DisplayID()] = c
	}

	next := make(map[string]map[string]string, len(inst.Vehicles))
	for _, a := range chosen {
		if next[a.Vehicle] == nil {
			next[a.Vehicle] = make(map[string]string)
		}
		if prev, dup := next[a.Vehicle][a.From]; dup {
			return nil, fmt.Errorf(
				"assemble routes: vehicle %s leaves %s twice (to %s and %s)",
				a.Vehicle, a.From, prev, a.To,
			)
		}
		next[a.Vehicle][a.From] = a.To
	}

	routes := make([]domain.RouteAssignment, 0, len(inst.Vehicles))
	for _, v := range inst.Vehicles {
		k := v.DisplayID()
		hops := next[k]
		if len(hops) == 0 {
			continue // vehicle not dispatched
		}

		route := domain.RouteAssignment{
			VehicleID: k,
			DepotID:   depot,
			DepartAt:  inst.instant(depart[k]),
			ReturnAt:  inst.instant(ret[k]),
		}

		current, ok := hops[depot]
		if !ok {
			return nil, fmt.Errorf("assemble routes: vehicle %s has arcs but never leaves the depot", k)
		}

		visited := 0
		for current != depot {
			c, ok := clients[current]
			if !ok {
				return nil, fmt.Errorf("assemble routes: vehicle %s visits unknown stop %q", k, current)
			}

			route.InitialLoadKg += c.DemandKg
			route.Stops = append(route.Stops, domain.RouteStop{
				ClientID: current,
				ArriveAt: inst.instant(arrival[current]),
				DemandKg: c.DemandKg,
			})

			visited++
			if visited > len(inst.Clients) {
				return nil, fmt.Errorf("assemble routes: vehicle %s route does not return to depot", k)
			}

			current, ok = hops[current]
			if !ok {
				return nil, fmt.Errorf("assemble routes: vehicle %s route breaks at %q", k, route.Stops[len(route.Stops)-1].ClientID)
			}
		}

		// Running load after each delivery.
		remaining := route.InitialLoadKg
		for i := range route.Stops {
			remaining -= route.Stops[i].DemandKg
			route.Stops[i].LoadAfterKg = remaining
		}

		seq := route.Sequence()
		for i := 0; i+1 < len(seq); i++ {
			km, err := inst.DistanceKm(v, seq[i], seq[i+1])
			if err != nil {
				return nil, fmt.Errorf("assemble routes: %w", err)
			}
			route.TotalDistanceKm += km
		}

		route.TotalCost = routeCost(inst, v, route)

		routes = append(routes, route)
	}

	// Stable output order regardless of map iteration.
	sort.Slice(routes, func(i, j int) bool { return routes[i].VehicleID < routes[j].VehicleID })

	return routes, nil
}

// routeCost prices one route with the operator's rates: distance by
// vehicle type, fixed dispatch cost, and labor over the working span.
func routeCost(inst *Instance, v domain.Vehicle, r domain.RouteAssignment) float64 {
	cost := r.TotalDistanceKm * inst.Costs.PerKm(v.Type)
	cost += inst.Costs.FixedPerVehicle
	cost += inst.Costs.LaborPerHour * r.Duration().Hours()
	return cost
}
