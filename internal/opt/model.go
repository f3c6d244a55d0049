package opt

import (
	"fmt"

	"github.com/nextmv-io/sdk/mip"
	sdkmodel "github.com/nextmv-io/sdk/model"

	"fleet-route-planner/internal/domain"
)

// arc is one candidate leg: vehicle k traverses from -> to.
// It keys the binary routing variables.
type arc struct {
	Vehicle string
	From    string
	To      string
}

// ID implements the sdk model.Identifier interface.
func (a arc) ID() string {
	return a.Vehicle + ":" + a.From + ">" + a.To
}

// routingModel holds the declared MIP and the variable handles needed to
// read a solution back out. It is discarded after extraction.
type routingModel struct {
	m    mip.Model
	arcs []arc
	x    sdkmodel.MultiMap[mip.Bool, arc]

	// arrival and load-after-visit per client code (shared across
	// vehicles: each client is visited exactly once).
	arrival map[string]mip.Float
	load    map[string]mip.Float

	// departure and return instants per vehicle code.
	depart map[string]mip.Float
	ret    map[string]mip.Float
}

// buildModel translates an instance into the mixed-integer formulation:
//
//   - binary x[k,i,j] — vehicle k drives leg i->j
//   - continuous load-after-visit with a big-M linking constraint along
//     every client-to-client leg (MTZ-style, also breaks capacity subtours)
//   - continuous arrival times with the analogous time linking, which
//     eliminates the remaining subtours and carries the time windows
//   - objective: distance cost by vehicle type + fixed dispatch cost +
//     labor over each vehicle's working span
func buildModel(inst *Instance) (*routingModel, error) {
	m := mip.NewModel()
	m.Objective().SetMinimize()

	depot := inst.Depot.Code
	horizon, err := inst.Horizon()
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}

	clients := make(map[string]domain.Client, len(inst.Clients))
	clientCodes := make([]string, 0, len(inst.Clients))
	for _, c := range inst.Clients {
		clients[c.DisplayID()] = c
		clientCodes = append(clientCodes, c.DisplayID())
	}

	maxCap := 0
	for _, v := range inst.Vehicles {
		if v.CapacityKg > maxCap {
			maxCap = v.CapacityKg
		}
	}

	// Candidate arcs per vehicle: depot->client, client->client,
	// client->depot.
	arcs := make([]arc, 0, len(inst.Vehicles)*(len(clientCodes)+1)*len(clientCodes))
	for _, v := range inst.Vehicles {
		k := v.DisplayID()
		for _, j := range clientCodes {
			arcs = append(arcs, arc{Vehicle: k, From: depot, To: j})
			arcs = append(arcs, arc{Vehicle: k, From: j, To: depot})
			for _, i := range clientCodes {
				if i != j {
					arcs = append(arcs, arc{Vehicle: k, From: i, To: j})
				}
			}
		}
	}

	rm := &routingModel{
		m:       m,
		arcs:    arcs,
		arrival: make(map[string]mip.Float, len(clientCodes)),
		load:    make(map[string]mip.Float, len(clientCodes)),
		depart:  make(map[string]mip.Float, len(inst.Vehicles)),
		ret:     make(map[string]mip.Float, len(inst.Vehicles)),
	}

	rm.x = sdkmodel.NewMultiMap(
		func(...arc) mip.Bool {
			return m.NewBool()
		}, arcs)

	for _, j := range clientCodes {
		c := clients[j]

		earliest, latest := 0.0, horizon
		if inst.Opts.TimeWindows {
			earliest = inst.seconds(c.Window.Start)
			latest = inst.seconds(c.Window.End)
		}
		rm.arrival[j] = m.NewFloat(earliest, latest)

		// Load after visiting j is at least j's own demand.
		rm.load[j] = m.NewFloat(float64(c.DemandKg), float64(maxCap))
	}

	opens, closes := 0.0, horizon
	if inst.Opts.DepotHours {
		opens = inst.seconds(inst.Depot.Hours.Start)
		closes = inst.seconds(inst.Depot.Hours.End)
	}
	for _, v := range inst.Vehicles {
		k := v.DisplayID()
		rm.depart[k] = m.NewFloat(opens, closes)
		rm.ret[k] = m.NewFloat(opens, closes)

		// Working span is non-negative.
		span := m.NewConstraint(mip.GreaterThanOrEqual, 0)
		span.NewTerm(1, rm.ret[k])
		span.NewTerm(-1, rm.depart[k])
	}

	// Each client is visited exactly once, by exactly one vehicle.
	for _, j := range clientCodes {
		visit := m.NewConstraint(mip.Equal, 1)
		for _, a := range arcs {
			if a.To == j {
				visit.NewTerm(1, rm.x.Get(a))
			}
		}
	}

	// Flow conservation: a vehicle that enters a client leaves it.
	for _, v := range inst.Vehicles {
		k := v.DisplayID()
		for _, j := range clientCodes {
			flow := m.NewConstraint(mip.Equal, 0)
			for _, a := range arcs {
				if a.Vehicle != k {
					continue
				}
				if a.To == j {
					flow.NewTerm(1, rm.x.Get(a))
				}
				if a.From == j {
					flow.NewTerm(-1, rm.x.Get(a))
				}
			}
		}

		// At most one departure per vehicle, and departures match returns.
		departures := m.NewConstraint(mip.LessThanOrEqual, 1)
		balance := m.NewConstraint(mip.Equal, 0)
		for _, a := range arcs {
			if a.Vehicle != k {
				continue
			}
			if a.From == depot {
				departures.NewTerm(1, rm.x.Get(a))
				balance.NewTerm(1, rm.x.Get(a))
			}
			if a.To == depot {
				balance.NewTerm(-1, rm.x.Get(a))
			}
		}
	}

	// Load linking along client->client legs:
	// load[j] >= load[i] + demand[j] - Qmax*(1 - x[k,i,j]).
	bigQ := float64(maxCap)
	for _, a := range arcs {
		if a.From == depot || a.To == depot {
			continue
		}
		c := m.NewConstraint(mip.LessThanOrEqual, bigQ-float64(clients[a.To].DemandKg))
		c.NewTerm(1, rm.load[a.From])
		c.NewTerm(-1, rm.load[a.To])
		c.NewTerm(bigQ, rm.x.Get(a))
	}

	// The visiting vehicle's capacity bounds the running load.
	for _, j := range clientCodes {
		capacity := m.NewConstraint(mip.LessThanOrEqual, 0)
		capacity.NewTerm(1, rm.load[j])
		for _, a := range arcs {
			if a.To == j {
				v := vehicleByCode(inst.Vehicles, a.Vehicle)
				capacity.NewTerm(-float64(v.CapacityKg), rm.x.Get(a))
			}
		}
	}

	// Time linking with per-arc big-M. Always declared: with windows off
	// the bounds are the whole horizon and the constraints only enforce
	// temporal consistency, which is what breaks residual subtours.
	service := inst.Opts.ServiceTime.Seconds()
	for _, a := range arcs {
		v := vehicleByCode(inst.Vehicles, a.Vehicle)
		travel, err := inst.TravelTime(v, a.From, a.To)
		if err != nil {
			return nil, fmt.Errorf("build model: %w", err)
		}
		tau := travel.Seconds()

		var from, to mip.Float
		switch {
		case a.From == depot:
			from, to = rm.depart[a.Vehicle], rm.arrival[a.To]
		case a.To == depot:
			from, to = rm.arrival[a.From], rm.ret[a.Vehicle]
			tau += service
		default:
			from, to = rm.arrival[a.From], rm.arrival[a.To]
			tau += service
		}

		bigM := horizon + tau
		c := m.NewConstraint(mip.LessThanOrEqual, bigM-tau)
		c.NewTerm(1, from)
		c.NewTerm(-1, to)
		c.NewTerm(bigM, rm.x.Get(a))
	}

	// Route distance within vehicle range.
	if inst.Opts.Range {
		for _, v := range inst.Vehicles {
			k := v.DisplayID()
			rng := m.NewConstraint(mip.LessThanOrEqual, v.RangeKm)
			for _, a := range arcs {
				if a.Vehicle != k {
					continue
				}
				km, err := inst.DistanceKm(v, a.From, a.To)
				if err != nil {
					return nil, fmt.Errorf("build model: %w", err)
				}
				rng.NewTerm(km, rm.x.Get(a))
			}
		}
	}

	// Objective: distance cost + fixed dispatch cost + labor.
	for _, a := range arcs {
		v := vehicleByCode(inst.Vehicles, a.Vehicle)
		km, err := inst.DistanceKm(v, a.From, a.To)
		if err != nil {
			return nil, fmt.Errorf("build model: %w", err)
		}

		coef := km * inst.Costs.PerKm(v.Type)
		if a.From == depot {
			coef += inst.Costs.FixedPerVehicle
		}
		m.Objective().NewTerm(coef, rm.x.Get(a))
	}
	laborPerSecond := inst.Costs.LaborPerHour / 3600
	for _, v := range inst.Vehicles {
		k := v.DisplayID()
		m.Objective().NewTerm(laborPerSecond, rm.ret[k])
		m.Objective().NewTerm(-laborPerSecond, rm.depart[k])
	}

	return rm, nil
}

func vehicleByCode(vehicles []domain.Vehicle, code string) domain.Vehicle {
	for _, v := range vehicles {
		if v.DisplayID() == code {
			return v
		}
	}
	return domain.Vehicle{}
}
