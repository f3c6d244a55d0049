package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"fleet-route-planner/internal/config"
	"fleet-route-planner/internal/domain"
	"fleet-route-planner/internal/export"
	"fleet-route-planner/internal/loader"
	"fleet-route-planner/internal/matrix"
	"fleet-route-planner/internal/opt"
	"fleet-route-planner/internal/platform/obs"
	"fleet-route-planner/internal/ports"
	"fleet-route-planner/internal/verify"
)

// Planner wires the pipeline stages together: one distance provider per
// travel mode the fleet uses, and the optimization engine.
type Planner struct {
	Road   ports.DistanceProvider
	Air    ports.DistanceProvider
	Solver opt.Solver
}

// PlanResult summarizes a completed run.
type PlanResult struct {
	Routes     []domain.RouteAssignment
	Status     opt.Status
	Objective  float64
	RunTime    time.Duration
	OutputPath string
}

// PlanRoutes runs the sequential pipeline for one case: load and validate
// the inputs, build the distance matrices, solve, re-verify the solution
// independently, and export it. Any stage failing aborts the run; a
// solution that fails verification is never written.
func (p *Planner) PlanRoutes(ctx context.Context, cfg *config.Config) (_ *PlanResult, err error) {
	defer obs.Time(ctx, "services.PlanRoutes")(&err)

	day, err := cfg.Start()
	if err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	ds, err := loader.Load(cfg.Data.Clients, cfg.Data.Vehicles, cfg.Data.Depots, day)
	if err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}
	if len(ds.Depots) == 0 {
		return nil, fmt.Errorf("plan routes: no depots in %q", cfg.Data.Depots)
	}
	depot := ds.Depots[0]

	log.Printf("run_id=%s case=%s clients=%d vehicles=%d depot=%s",
		obs.RunID(ctx), cfg.Case, len(ds.Clients), len(ds.Vehicles), depot.Code)

	locations := make([]domain.Location, 0, len(ds.Clients)+1)
	locations = append(locations, domain.Location{ID: depot.Code, Coord: depot.Coord})
	for _, c := range ds.Clients {
		locations = append(locations, domain.Location{ID: c.DisplayID(), Coord: c.Coord})
	}

	inst := &opt.Instance{
		Depot:    depot,
		Clients:  ds.Clients,
		Vehicles: ds.Vehicles,
		Costs:    cfg.CostRates(),
		Start:    day,
		Opts: opt.Options{
			TimeWindows: cfg.Constraints.TimeWindows,
			Range:       cfg.Constraints.Range,
			DepotHours:  cfg.Constraints.DepotHours,
		},
	}
	if inst.Opts.ServiceTime, err = cfg.Service(); err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	for _, mode := range fleetModes(ds.Vehicles) {
		switch mode {
		case domain.ModeRoad:
			if p.Road == nil {
				return nil, fmt.Errorf("plan routes: fleet has ground vehicles but no road distance provider")
			}
			if inst.Road, err = matrix.Build(ctx, locations, p.Road); err != nil {
				return nil, fmt.Errorf("plan routes: %w", err)
			}
		case domain.ModeAir:
			if p.Air == nil {
				return nil, fmt.Errorf("plan routes: fleet has aerial vehicles but no air distance provider")
			}
			if inst.Air, err = matrix.Build(ctx, locations, p.Air); err != nil {
				return nil, fmt.Errorf("plan routes: %w", err)
			}
		}
	}

	sol, err := p.Solver.Solve(ctx, inst)
	if err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	log.Printf("run_id=%s status=%s objective=%.2f routes=%d solve_time=%s",
		obs.RunID(ctx), sol.Status, sol.Objective, len(sol.Routes), sol.RunTime)

	if violations := verify.Check(inst, sol.Routes); len(violations) > 0 {
		return nil, fmt.Errorf("plan routes: %w", &verify.VerificationError{Violations: violations})
	}

	if err := export.Write(cfg.Output, sol.Routes); err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	return &PlanResult{
		Routes:     sol.Routes,
		Status:     sol.Status,
		Objective:  sol.Objective,
		RunTime:    sol.RunTime,
		OutputPath: cfg.Output,
	}, nil
}

// fleetModes returns the distinct travel modes in use, in stable order.
func fleetModes(vehicles []domain.Vehicle) []domain.TravelMode {
	seen := make(map[domain.TravelMode]bool, 2)
	var modes []domain.TravelMode
	for _, v := range vehicles {
		if m := v.Type.Mode(); !seen[m] {
			seen[m] = true
			modes = append(modes, m)
		}
	}
	return modes
}
