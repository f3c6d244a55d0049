package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"fleet-route-planner/internal/domain"
)

// Dataset is the validated in-memory form of the three input files.
type Dataset struct {
	Clients  []domain.Client
	Vehicles []domain.Vehicle
	Depots   []domain.Depot

	// Locations indexes every referenced location by its identifier.
	Locations map[string]domain.Location
}

// Location returns the location for a stop code (client display ID or
// depot code).
func (d *Dataset) Location(id string) (domain.Location, bool) {
	loc, ok := d.Locations[id]
	return loc, ok
}

// Load reads and cross-validates the three input files. Time windows and
// opening hours are wall-clock intervals anchored to day.
func Load(clientsPath, vehiclesPath, depotsPath string, day time.Time) (*Dataset, error) {
	clients, err := LoadClients(clientsPath, day)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	vehicles, err := LoadVehicles(vehiclesPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	depots, err := LoadDepots(depotsPath, day)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	ds := &Dataset{
		Clients:   clients,
		Vehicles:  vehicles,
		Depots:    depots,
		Locations: make(map[string]domain.Location, len(clients)+len(depots)),
	}

	for _, c := range clients {
		ds.Locations[c.DisplayID()] = domain.Location{ID: c.DisplayID(), Coord: c.Coord}
	}
	for _, dp := range depots {
		ds.Locations[dp.Code] = domain.Location{ID: dp.Code, Coord: dp.Coord}
	}

	return ds, nil
}

// LoadClients reads clients.csv:
// LocationID, ClientID, Latitude, Longitude, Demand, TimeWindow.
func LoadClients(path string, day time.Time) ([]domain.Client, error) {
	rows, cols, err := readTable(path, []string{"LocationID", "ClientID", "Latitude", "Longitude", "Demand", "TimeWindow"})
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(rows))
	clients := make([]domain.Client, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 2 // header is row 1

		id, err := parseInt(path, rowNum, "ClientID", row[cols["ClientID"]])
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			return nil, &domain.DataFormatError{File: path, Row: rowNum, Column: "ClientID", Reason: fmt.Sprintf("duplicate client %d", id)}
		}
		seen[id] = struct{}{}

		coord, err := parseCoord(path, rowNum, row[cols["Latitude"]], row[cols["Longitude"]])
		if err != nil {
			return nil, err
		}

		demand, err := parseInt(path, rowNum, "Demand", row[cols["Demand"]])
		if err != nil {
			return nil, err
		}
		if demand < 0 {
			return nil, &domain.DataFormatError{File: path, Row: rowNum, Column: "Demand", Reason: fmt.Sprintf("demand must be non-negative, got %d", demand)}
		}

		window, err := parseWindow(path, rowNum, "TimeWindow", row[cols["TimeWindow"]], day)
		if err != nil {
			return nil, err
		}

		locID := strings.TrimSpace(row[cols["LocationID"]])
		if locID == "" {
			return nil, &domain.DataFormatError{File: path, Row: rowNum, Column: "LocationID", Reason: "missing location identifier"}
		}

		clients = append(clients, domain.Client{
			ClientID:   id,
			LocationID: locID,
			Coord:      coord,
			DemandKg:   demand,
			Window:     window,
		})
	}

	return clients, nil
}

// LoadVehicles reads vehicles.csv: VehicleID, Capacity, Range, Speed.
// An optional Type column tags the vehicle (ground is the default).
func LoadVehicles(path string) ([]domain.Vehicle, error) {
	rows, cols, err := readTable(path, []string{"VehicleID", "Capacity", "Range", "Speed"})
	if err != nil {
		return nil, err
	}

	_, hasType := cols["Type"]

	seen := make(map[int]struct{}, len(rows))
	vehicles := make([]domain.Vehicle, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 2

		id, err := parseInt(path, rowNum, "VehicleID", row[cols["VehicleID"]])
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			return nil, &domain.DataFormatError{File: path, Row: rowNum, Column: "VehicleID", Reason: fmt.Sprintf("duplicate vehicle %d", id)}
		}
		seen[id] = struct{}{}

		capacity, err := parseInt(path, rowNum, "Capacity", row[cols["Capacity"]])
		if err != nil {
			return nil, err
		}
		if capacity < 0 {
			return nil, &domain.DataFormatError{File: path, Row: rowNum, Column: "Capacity", Reason: fmt.Sprintf("capacity must be non-negative, got %d", capacity)}
		}

		rangeKm, err := parseFloat(path, rowNum, "Range", row[cols["Range"]])
		if err != nil {
			return nil, err
		}
		if rangeKm < 0 {
			return nil, &domain.DataFormatError{File: path, Row: rowNum, Column: "Range", Reason: "range must be non-negative"}
		}

		speed, err := parseFloat(path, rowNum, "Speed", row[cols["Speed"]])
		if err != nil {
			return nil, err
		}

		vType := domain.VehicleGround
		if hasType {
			switch t := strings.ToLower(strings.TrimSpace(row[cols["Type"]])); t {
			case "", "ground", "4x4":
				vType = domain.VehicleGround
			case "drone":
				vType = domain.VehicleDrone
			default:
				return nil, &domain.DataFormatError{File: path, Row: rowNum, Column: "Type", Reason: fmt.Sprintf("unknown vehicle type %q", t)}
			}
		}

		vehicles = append(vehicles, domain.Vehicle{
			VehicleID:  id,
			CapacityKg: capacity,
			RangeKm:    rangeKm,
			SpeedKmh:   speed,
			Type:       vType,
		})
	}

	return vehicles, nil
}

// LoadDepots reads depots.csv:
// LocationID, DepotID, Latitude, Longitude, OpeningHours.
func LoadDepots(path string, day time.Time) ([]domain.Depot, error) {
	rows, cols, err := readTable(path, []string{"LocationID", "DepotID", "Latitude", "Longitude", "OpeningHours"})
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(rows))
	depots := make([]domain.Depot, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 2

		id, err := parseInt(path, rowNum, "DepotID", row[cols["DepotID"]])
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			return nil, &domain.DataFormatError{File: path, Row: rowNum, Column: "DepotID", Reason: fmt.Sprintf("duplicate depot %d", id)}
		}
		seen[id] = struct{}{}

		coord, err := parseCoord(path, rowNum, row[cols["Latitude"]], row[cols["Longitude"]])
		if err != nil {
			return nil, err
		}

		hours, err := parseWindow(path, rowNum, "OpeningHours", row[cols["OpeningHours"]], day)
		if err != nil {
			return nil, err
		}

		locID := strings.TrimSpace(row[cols["LocationID"]])
		if locID == "" {
			return nil, &domain.DataFormatError{File: path, Row: rowNum, Column: "LocationID", Reason: "missing location identifier"}
		}

		depots = append(depots, domain.Depot{
			DepotID:    id,
			Code:       DepotCode(id),
			LocationID: locID,
			Coord:      coord,
			Hours:      hours,
		})
	}

	if len(depots) == 0 {
		return nil, &domain.DataFormatError{File: path, Row: 2, Column: "DepotID", Reason: "at least one depot is required"}
	}

	return depots, nil
}

// DepotCode maps a numeric depot ID to the route-sequence code used in
// solution files: depot 1 -> "CDA", depot 2 -> "CDB", and so on.
func DepotCode(id int) string {
	if id < 1 || id > 26 {
		return fmt.Sprintf("CD%d", id)
	}
	return "CD" + string(rune('A'+id-1))
}

// readTable reads a CSV file with a header row and verifies the required
// columns are present. Returns data rows and a name->index map.
func readTable(path string, required []string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, nil, &domain.DataFormatError{File: path, Row: 1, Column: "", Reason: "missing header row"}
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, nil, &domain.DataFormatError{File: path, Row: 1, Column: name, Reason: "missing required column"}
		}
	}

	var rows [][]string
	for rowNum := 2; ; rowNum++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, &domain.DataFormatError{File: path, Row: rowNum, Column: "", Reason: err.Error()}
		}
		rows = append(rows, row)
	}

	return rows, cols, nil
}

func parseInt(file string, row int, column, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &domain.DataFormatError{File: file, Row: row, Column: column, Reason: fmt.Sprintf("not an integer: %q", raw)}
	}
	return v, nil
}

func parseFloat(file string, row int, column, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &domain.DataFormatError{File: file, Row: row, Column: column, Reason: fmt.Sprintf("not a number: %q", raw)}
	}
	return v, nil
}

func parseCoord(file string, row int, rawLat, rawLon string) (domain.Coordinates, error) {
	lat, err := parseFloat(file, row, "Latitude", rawLat)
	if err != nil {
		return domain.Coordinates{}, err
	}
	if lat < -90 || lat > 90 {
		return domain.Coordinates{}, &domain.DataFormatError{File: file, Row: row, Column: "Latitude", Reason: fmt.Sprintf("latitude out of range: %v", lat)}
	}

	lon, err := parseFloat(file, row, "Longitude", rawLon)
	if err != nil {
		return domain.Coordinates{}, err
	}
	if lon < -180 || lon > 180 {
		return domain.Coordinates{}, &domain.DataFormatError{File: file, Row: row, Column: "Longitude", Reason: fmt.Sprintf("longitude out of range: %v", lon)}
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}

// parseWindow parses "HH:MM-HH:MM" anchored to day.
func parseWindow(file string, row int, column, raw string, day time.Time) (domain.TimeWindow, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return domain.TimeWindow{}, &domain.DataFormatError{File: file, Row: row, Column: column, Reason: fmt.Sprintf("expected HH:MM-HH:MM, got %q", raw)}
	}

	start, err := clockOn(day, strings.TrimSpace(parts[0]))
	if err != nil {
		return domain.TimeWindow{}, &domain.DataFormatError{File: file, Row: row, Column: column, Reason: err.Error()}
	}
	end, err := clockOn(day, strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.TimeWindow{}, &domain.DataFormatError{File: file, Row: row, Column: column, Reason: err.Error()}
	}

	if end.Before(start) {
		return domain.TimeWindow{}, &domain.DataFormatError{File: file, Row: row, Column: column, Reason: fmt.Sprintf("window end before start: %q", raw)}
	}

	return domain.TimeWindow{Start: start, End: end}, nil
}

func clockOn(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q", hhmm)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
