package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fleet-route-planner/internal/domain"
)

// Solution file columns. RouteSequence, DemandsSatisfied and ArrivalTimes
// are dash-separated lists; clock values are minute-precision HH:MM on the
// operational day; distances are kilometers with one decimal.
var header = []string{
	"VehicleId", "DepotId", "InitialLoad", "RouteSequence",
	"ClientsServed", "DemandsSatisfied", "ArrivalTimes",
	"DepartAt", "ReturnAt", "TotalDistance", "TotalTime", "FuelCost",
}

// Write exports the planned routes as the solution CSV, creating the
// parent directory if needed.
func Write(path string, routes []domain.RouteAssignment) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export solution: create %q: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export solution: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(header); err != nil {
		return fmt.Errorf("export solution: write header: %w", err)
	}

	for _, r := range routes {
		demands := make([]string, 0, len(r.Stops))
		arrivals := make([]string, 0, len(r.Stops))
		for _, s := range r.Stops {
			demands = append(demands, strconv.Itoa(s.DemandKg))
			arrivals = append(arrivals, s.ArriveAt.Format("15:04"))
		}

		row := []string{
			r.VehicleID,
			r.DepotID,
			strconv.Itoa(r.InitialLoadKg),
			strings.Join(r.Sequence(), "-"),
			strconv.Itoa(r.ClientsServed()),
			strings.Join(demands, "-"),
			strings.Join(arrivals, "-"),
			r.DepartAt.Format("15:04"),
			r.ReturnAt.Format("15:04"),
			fmt.Sprintf("%.1f", r.TotalDistanceKm),
			strconv.Itoa(int(r.Duration().Minutes())),
			fmt.Sprintf("%.2f", r.TotalCost),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("export solution: write route %s: %w", r.VehicleID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export solution: flush %q: %w", path, err)
	}

	return nil
}
