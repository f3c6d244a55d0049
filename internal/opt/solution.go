package opt

import (
	"context"
	"time"

	"fleet-route-planner/internal/domain"
)

// Status reports how the engine finished.
type Status string

const (
	// StatusOptimal: the returned assignment is proven optimal.
	StatusOptimal Status = "optimal"
	// StatusFeasible: the time budget ran out with an incumbent that
	// satisfies all constraints but is not proven optimal.
	StatusFeasible Status = "feasible"
)

// Solution is the interpreted output of one solve.
type Solution struct {
	Status    Status
	Routes    []domain.RouteAssignment
	Objective float64
	RunTime   time.Duration
}

// Solver is the narrow boundary to the optimization engine. The pipeline
// and its tests only depend on this; the MIP-backed implementation lives
// behind it so tests can run against a stub with canned assignments.
//
// A proven-infeasible model surfaces as domain.ErrModelInfeasible; engine
// failures surface as *domain.SolverError.
type Solver interface {
	Solve(ctx context.Context, inst *Instance) (*Solution, error)
}
