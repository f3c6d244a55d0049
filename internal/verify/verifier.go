package verify

import (
	"fmt"
	"strings"

	"fleet-route-planner/internal/domain"
	"fleet-route-planner/internal/opt"
)

// Rule names the constraint class a violation belongs to.
type Rule string

const (
	RuleDepotEndpoints Rule = "depot-endpoints"
	RuleCapacity       Rule = "capacity"
	RuleRange          Rule = "range"
	RuleTimeWindow     Rule = "time-window"
	RuleDepotHours     Rule = "depot-hours"
	RuleDuplicateVisit Rule = "duplicate-visit"
	RuleMissedClient   Rule = "missed-client"
	RuleDemandMismatch Rule = "demand-mismatch"
	RuleUnknownStop    Rule = "unknown-stop"
)

// Violation pinpoints one broken constraint: which vehicle, which stop,
// which rule, with enough detail to debug the formulation.
type Violation struct {
	Vehicle string
	Stop    string
	Rule    Rule
	Detail  string
}

func (v Violation) String() string {
	if v.Stop != "" {
		return fmt.Sprintf("%s at %s: %s: %s", v.Vehicle, v.Stop, v.Rule, v.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", v.Vehicle, v.Rule, v.Detail)
}

// VerificationError reports a solution that failed the independent
// re-check. It indicates a formulation defect and always fails the run.
type VerificationError struct {
	Violations []Violation
}

func (e *VerificationError) Error() string {
	lines := make([]string, 0, len(e.Violations)+1)
	lines = append(lines, fmt.Sprintf("solution failed verification (%d violations)", len(e.Violations)))
	for _, v := range e.Violations {
		lines = append(lines, "  - "+v.String())
	}
	return strings.Join(lines, "\n")
}

// Check re-validates every constraint against the instance, independently
// of the engine's own feasibility claim. An empty result confirms the
// solution; otherwise every violated constraint is reported.
func Check(inst *opt.Instance, routes []domain.RouteAssignment) []Violation {
	var out []Violation

	clients := make(map[string]domain.Client, len(inst.Clients))
	for _, c := range inst.Clients {
		clients[c.DisplayID()] = c
	}
	vehicles := make(map[string]domain.Vehicle, len(inst.Vehicles))
	for _, v := range inst.Vehicles {
		vehicles[v.DisplayID()] = v
	}

	visited := make(map[string]int, len(clients))

	for _, r := range routes {
		v, ok := vehicles[r.VehicleID]
		if !ok {
			out = append(out, Violation{Vehicle: r.VehicleID, Rule: RuleUnknownStop, Detail: "unknown vehicle"})
			continue
		}

		seq := r.Sequence()
		if seq[0] != inst.Depot.Code || seq[len(seq)-1] != inst.Depot.Code {
			out = append(out, Violation{
				Vehicle: r.VehicleID, Rule: RuleDepotEndpoints,
				Detail: fmt.Sprintf("route does not start and end at depot %s", inst.Depot.Code),
			})
		}

		out = append(out, checkLoad(v, r, clients)...)
		out = append(out, checkRange(inst, v, r)...)

		if inst.Opts.TimeWindows {
			out = append(out, checkWindows(r, clients)...)
		}
		if inst.Opts.DepotHours {
			out = append(out, checkDepotHours(inst.Depot, r)...)
		}

		for _, s := range r.Stops {
			if _, ok := clients[s.ClientID]; !ok {
				out = append(out, Violation{
					Vehicle: r.VehicleID, Stop: s.ClientID, Rule: RuleUnknownStop,
					Detail: "stop is not a known client",
				})
				continue
			}
			visited[s.ClientID]++
		}
	}

	for code, n := range visited {
		if n > 1 {
			out = append(out, Violation{
				Stop: code, Rule: RuleDuplicateVisit,
				Detail: fmt.Sprintf("client visited %d times", n),
			})
		}
	}
	for code := range clients {
		if visited[code] == 0 {
			out = append(out, Violation{
				Stop: code, Rule: RuleMissedClient,
				Detail: "client was not visited by any route",
			})
		}
	}

	return out
}

// checkLoad recomputes the running load from demands and verifies every
// prefix stays within the vehicle's capacity.
func checkLoad(v domain.Vehicle, r domain.RouteAssignment, clients map[string]domain.Client) []Violation {
	var out []Violation

	total := 0
	for _, s := range r.Stops {
		c, ok := clients[s.ClientID]
		if !ok {
			continue
		}
		total += c.DemandKg

		if s.DemandKg != c.DemandKg {
			out = append(out, Violation{
				Vehicle: r.VehicleID, Stop: s.ClientID, Rule: RuleDemandMismatch,
				Detail: fmt.Sprintf("reported demand %d kg, client declares %d kg", s.DemandKg, c.DemandKg),
			})
		}
	}

	if r.InitialLoadKg != total {
		out = append(out, Violation{
			Vehicle: r.VehicleID, Rule: RuleDemandMismatch,
			Detail: fmt.Sprintf("initial load %d kg does not match route demand %d kg", r.InitialLoadKg, total),
		})
	}

	if r.InitialLoadKg > v.CapacityKg {
		out = append(out, Violation{
			Vehicle: r.VehicleID, Rule: RuleCapacity,
			Detail: fmt.Sprintf("initial load %d kg exceeds capacity %d kg", r.InitialLoadKg, v.CapacityKg),
		})
	}

	// Every prefix of the route carries at most the capacity.
	load := r.InitialLoadKg
	for _, s := range r.Stops {
		if load > v.CapacityKg {
			out = append(out, Violation{
				Vehicle: r.VehicleID, Stop: s.ClientID, Rule: RuleCapacity,
				Detail: fmt.Sprintf("load %d kg before stop exceeds capacity %d kg", load, v.CapacityKg),
			})
		}
		if c, ok := clients[s.ClientID]; ok {
			load -= c.DemandKg
		}
	}

	return out
}

// checkRange recomputes total route distance from the matrix and compares
// it to the vehicle's range.
func checkRange(inst *opt.Instance, v domain.Vehicle, r domain.RouteAssignment) []Violation {
	if !inst.Opts.Range {
		return nil
	}

	seq := r.Sequence()
	total := 0.0
	for i := 0; i+1 < len(seq); i++ {
		km, err := inst.DistanceKm(v, seq[i], seq[i+1])
		if err != nil {
			return []Violation{{
				Vehicle: r.VehicleID, Stop: seq[i+1], Rule: RuleUnknownStop,
				Detail: err.Error(),
			}}
		}
		total += km
	}

	if total > v.RangeKm {
		return []Violation{{
			Vehicle: r.VehicleID, Rule: RuleRange,
			Detail: fmt.Sprintf("route distance %.1f km exceeds range %.1f km", total, v.RangeKm),
		}}
	}

	return nil
}

func checkWindows(r domain.RouteAssignment, clients map[string]domain.Client) []Violation {
	var out []Violation
	for _, s := range r.Stops {
		c, ok := clients[s.ClientID]
		if !ok {
			continue
		}
		if !c.Window.Contains(s.ArriveAt) {
			out = append(out, Violation{
				Vehicle: r.VehicleID, Stop: s.ClientID, Rule: RuleTimeWindow,
				Detail: fmt.Sprintf("arrival %s outside window %s",
					s.ArriveAt.Format("15:04"), c.Window),
			})
		}
	}
	return out
}

func checkDepotHours(depot domain.Depot, r domain.RouteAssignment) []Violation {
	var out []Violation
	if !depot.Hours.Contains(r.DepartAt) {
		out = append(out, Violation{
			Vehicle: r.VehicleID, Rule: RuleDepotHours,
			Detail: fmt.Sprintf("departure %s outside depot hours %s",
				r.DepartAt.Format("15:04"), depot.Hours),
		})
	}
	if !depot.Hours.Contains(r.ReturnAt) {
		out = append(out, Violation{
			Vehicle: r.VehicleID, Rule: RuleDepotHours,
			Detail: fmt.Sprintf("return %s outside depot hours %s",
				r.ReturnAt.Format("15:04"), depot.Hours),
		})
	}
	return out
}
