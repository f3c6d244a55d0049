package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fleet-route-planner/internal/domain"
)

// Read loads a solution CSV back into route assignments. Clock columns
// carry only HH:MM, so the operational day anchors them to absolute times.
func Read(path string, day time.Time) ([]domain.RouteAssignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read solution: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read solution: parse %q: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read solution: %q is empty", path)
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range header {
		if _, ok := cols[name]; !ok {
			return nil, &domain.DataFormatError{File: path, Row: 1, Column: name, Reason: "missing column"}
		}
	}

	routes := make([]domain.RouteAssignment, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2

		ra, err := parseRoute(path, rowNum, row, cols, day)
		if err != nil {
			return nil, err
		}
		routes = append(routes, ra)
	}

	return routes, nil
}

func parseRoute(path string, rowNum int, row []string, cols map[string]int, day time.Time) (domain.RouteAssignment, error) {
	field := func(name string) string { return strings.TrimSpace(row[cols[name]]) }
	fail := func(col, reason string) (domain.RouteAssignment, error) {
		return domain.RouteAssignment{}, &domain.DataFormatError{File: path, Row: rowNum, Column: col, Reason: reason}
	}

	initial, err := strconv.Atoi(field("InitialLoad"))
	if err != nil {
		return fail("InitialLoad", "not an integer")
	}

	seq := strings.Split(field("RouteSequence"), "-")
	if len(seq) < 2 {
		return fail("RouteSequence", "sequence needs at least the two depot endpoints")
	}
	stops := seq[1 : len(seq)-1]

	demandsRaw := field("DemandsSatisfied")
	arrivalsRaw := field("ArrivalTimes")
	var demands, arrivals []string
	if demandsRaw != "" {
		demands = strings.Split(demandsRaw, "-")
	}
	if arrivalsRaw != "" {
		arrivals = strings.Split(arrivalsRaw, "-")
	}
	if len(demands) != len(stops) {
		return fail("DemandsSatisfied", fmt.Sprintf("%d demands for %d stops", len(demands), len(stops)))
	}
	if len(arrivals) != len(stops) {
		return fail("ArrivalTimes", fmt.Sprintf("%d arrivals for %d stops", len(arrivals), len(stops)))
	}

	served, err := strconv.Atoi(field("ClientsServed"))
	if err != nil {
		return fail("ClientsServed", "not an integer")
	}
	if served != len(stops) {
		return fail("ClientsServed", fmt.Sprintf("declares %d clients, sequence has %d", served, len(stops)))
	}

	depart, err := clock(field("DepartAt"), day)
	if err != nil {
		return fail("DepartAt", err.Error())
	}
	ret, err := clock(field("ReturnAt"), day)
	if err != nil {
		return fail("ReturnAt", err.Error())
	}

	dist, err := strconv.ParseFloat(field("TotalDistance"), 64)
	if err != nil {
		return fail("TotalDistance", "not a number")
	}
	cost, err := strconv.ParseFloat(field("FuelCost"), 64)
	if err != nil {
		return fail("FuelCost", "not a number")
	}

	ra := domain.RouteAssignment{
		VehicleID:       field("VehicleId"),
		DepotID:         field("DepotId"),
		InitialLoadKg:   initial,
		DepartAt:        depart,
		ReturnAt:        ret,
		TotalDistanceKm: dist,
		TotalCost:       cost,
	}

	load := initial
	for j, code := range stops {
		demand, err := strconv.Atoi(demands[j])
		if err != nil {
			return fail("DemandsSatisfied", "not an integer")
		}
		arrive, err := clock(arrivals[j], day)
		if err != nil {
			return fail("ArrivalTimes", err.Error())
		}
		load -= demand
		ra.Stops = append(ra.Stops, domain.RouteStop{
			ClientID:    code,
			ArriveAt:    arrive,
			DemandKg:    demand,
			LoadAfterKg: load,
		})
	}

	return ra, nil
}

func clock(s string, day time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not an HH:MM clock value", s)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
