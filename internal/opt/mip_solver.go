package opt

import (
	"context"
	"fmt"
	"time"

	"github.com/nextmv-io/sdk/mip"

	"fleet-route-planner/internal/domain"
	"fleet-route-planner/internal/platform/obs"
)

// MIPSolver submits the declared model to the external engine. It owns no
// algorithmic logic: it translates the instance in, bounds the solve, and
// interprets status codes and variable values back out.
type MIPSolver struct {
	// Provider names the backing engine, "highs" by default.
	Provider mip.SolverProvider
	// MaxDuration bounds the solve; on expiry the best incumbent found
	// so far is returned as StatusFeasible.
	MaxDuration time.Duration
	// GapRelative is the relative optimality gap to prove, 0 for exact.
	GapRelative float64
	Verbose     bool
}

func NewMIPSolver(maxDuration time.Duration, gapRelative float64) *MIPSolver {
	return &MIPSolver{
		Provider:    "highs",
		MaxDuration: maxDuration,
		GapRelative: gapRelative,
	}
}

func (s *MIPSolver) Solve(ctx context.Context, inst *Instance) (_ *Solution, err error) {
	defer obs.Time(ctx, "mip.Solve")(&err)

	rm, err := buildModel(inst)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	provider := s.Provider
	if provider == "" {
		provider = "highs"
	}

	engine, err := mip.NewSolver(provider, rm.m)
	if err != nil {
		return nil, &domain.SolverError{Stage: "init", Err: err}
	}

	opts := mip.NewSolveOptions()
	if s.MaxDuration > 0 {
		if err := opts.SetMaximumDuration(s.MaxDuration); err != nil {
			return nil, &domain.SolverError{Stage: "configure", Err: err}
		}
	}
	if err := opts.SetMIPGapRelative(s.GapRelative); err != nil {
		return nil, &domain.SolverError{Stage: "configure", Err: err}
	}
	if !s.Verbose {
		opts.SetVerbosity(mip.Off)
	}

	solution, err := engine.Solve(opts)
	if err != nil {
		return nil, &domain.SolverError{Stage: "solve", Err: err}
	}

	// No values means the engine proved there is no feasible assignment.
	// This is a property of the model, not an engine failure.
	if solution == nil || !solution.HasValues() {
		return nil, fmt.Errorf("solve: %w", domain.ErrModelInfeasible)
	}

	status := StatusFeasible
	if solution.IsOptimal() {
		status = StatusOptimal
	}

	var chosen []arc
	for _, a := range rm.arcs {
		if solution.Value(rm.x.Get(a)) > 0.5 {
			chosen = append(chosen, a)
		}
	}

	arrival := make(map[string]float64, len(rm.arrival))
	for code, v := range rm.arrival {
		arrival[code] = solution.Value(v)
	}
	depart := make(map[string]float64, len(rm.depart))
	for code, v := range rm.depart {
		depart[code] = solution.Value(v)
	}
	ret := make(map[string]float64, len(rm.ret))
	for code, v := range rm.ret {
		ret[code] = solution.Value(v)
	}

	routes, err := assembleRoutes(inst, chosen, arrival, depart, ret)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	return &Solution{
		Status:    status,
		Routes:    routes,
		Objective: solution.ObjectiveValue(),
		RunTime:   solution.RunTime(),
	}, nil
}
