package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fleet-route-planner/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestLoadClients(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clients.csv",
		"LocationID,ClientID,Latitude,Longitude,Demand,TimeWindow\n"+
			"L1,1,4.65,-74.05,10,08:00-12:00\n"+
			"L2,2,4.70,-74.10,20,09:30-17:00\n")

	clients, err := LoadClients(path, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(clients))
	}

	c := clients[0]
	if c.DisplayID() != "C001" {
		t.Errorf("display id = %q, want C001", c.DisplayID())
	}
	if c.DemandKg != 10 {
		t.Errorf("demand = %d, want 10", c.DemandKg)
	}
	wantStart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	if !c.Window.Start.Equal(wantStart) {
		t.Errorf("window start = %v, want %v", c.Window.Start, wantStart)
	}
	if !c.Window.Contains(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("window should contain 10:00")
	}
}

func TestLoadClientsMalformedRows(t *testing.T) {
	cases := []struct {
		name   string
		rows   string
		column string
		row    int
	}{
		{
			name:   "negative demand",
			rows:   "L1,1,4.65,-74.05,-5,08:00-12:00\n",
			column: "Demand",
			row:    2,
		},
		{
			name:   "inverted window",
			rows:   "L1,1,4.65,-74.05,5,14:00-09:00\n",
			column: "TimeWindow",
			row:    2,
		},
		{
			name:   "bad latitude",
			rows:   "L1,1,abc,-74.05,5,08:00-12:00\n",
			column: "Latitude",
			row:    2,
		},
		{
			name:   "duplicate client",
			rows:   "L1,1,4.65,-74.05,5,08:00-12:00\nL2,1,4.70,-74.10,5,08:00-12:00\n",
			column: "ClientID",
			row:    3,
		},
		{
			name:   "missing location identifier",
			rows:   " ,1,4.65,-74.05,5,08:00-12:00\n",
			column: "LocationID",
			row:    2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "clients.csv",
				"LocationID,ClientID,Latitude,Longitude,Demand,TimeWindow\n"+tc.rows)

			_, err := LoadClients(path, day)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var dfe *domain.DataFormatError
			if !errors.As(err, &dfe) {
				t.Fatalf("expected DataFormatError, got %T: %v", err, err)
			}
			if dfe.Column != tc.column {
				t.Errorf("column = %q, want %q", dfe.Column, tc.column)
			}
			if dfe.Row != tc.row {
				t.Errorf("row = %d, want %d", dfe.Row, tc.row)
			}
		})
	}
}

func TestLoadClientsMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clients.csv",
		"LocationID,ClientID,Latitude,Longitude,Demand\n"+
			"L1,1,4.65,-74.05,10\n")

	_, err := LoadClients(path, day)
	var dfe *domain.DataFormatError
	if !errors.As(err, &dfe) {
		t.Fatalf("expected DataFormatError, got %v", err)
	}
	if dfe.Column != "TimeWindow" || dfe.Row != 1 {
		t.Errorf("got row %d column %q, want row 1 column TimeWindow", dfe.Row, dfe.Column)
	}
}

func TestLoadVehicles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "vehicles.csv",
		"VehicleID,Capacity,Range,Speed,Type\n"+
			"1,130,180,0,ground\n"+
			"2,8,25,45,drone\n")

	vehicles, err := LoadVehicles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(vehicles))
	}
	if vehicles[0].Type != domain.VehicleGround || vehicles[0].Type.Mode() != domain.ModeRoad {
		t.Errorf("vehicle 1 should be ground/road, got %v", vehicles[0].Type)
	}
	if vehicles[1].Type != domain.VehicleDrone || vehicles[1].Type.Mode() != domain.ModeAir {
		t.Errorf("vehicle 2 should be drone/air, got %v", vehicles[1].Type)
	}
	if vehicles[1].DisplayID() != "VEH2" {
		t.Errorf("display id = %q, want VEH2", vehicles[1].DisplayID())
	}
}

func TestLoadVehiclesWithoutTypeColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "vehicles.csv",
		"VehicleID,Capacity,Range,Speed\n"+
			"1,130,180,0\n")

	vehicles, err := LoadVehicles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vehicles[0].Type != domain.VehicleGround {
		t.Errorf("default type should be ground, got %v", vehicles[0].Type)
	}
}

func TestLoadDepots(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "depots.csv",
		"LocationID,DepotID,Latitude,Longitude,OpeningHours\n"+
			"L9,1,4.60,-74.08,06:00-22:00\n")

	depots, err := LoadDepots(path, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if depots[0].Code != "CDA" {
		t.Errorf("depot code = %q, want CDA", depots[0].Code)
	}
	if got := depots[0].Hours.String(); got != "06:00-22:00" {
		t.Errorf("opening hours = %q, want 06:00-22:00", got)
	}
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()
	clients := writeFile(t, dir, "clients.csv",
		"LocationID,ClientID,Latitude,Longitude,Demand,TimeWindow\n"+
			"L1,1,4.65,-74.05,10,08:00-12:00\n")
	vehicles := writeFile(t, dir, "vehicles.csv",
		"VehicleID,Capacity,Range,Speed\n1,130,180,0\n")
	depots := writeFile(t, dir, "depots.csv",
		"LocationID,DepotID,Latitude,Longitude,OpeningHours\n"+
			"L9,1,4.60,-74.08,06:00-22:00\n")

	ds, err := Load(clients, vehicles, depots, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := ds.Location("C001"); !ok {
		t.Error("C001 should resolve to a location")
	}
	if _, ok := ds.Location("CDA"); !ok {
		t.Error("CDA should resolve to a location")
	}
	if _, ok := ds.Location("C999"); ok {
		t.Error("C999 should not resolve")
	}
}

func TestDepotCode(t *testing.T) {
	if got := DepotCode(1); got != "CDA" {
		t.Errorf("DepotCode(1) = %q, want CDA", got)
	}
	if got := DepotCode(3); got != "CDC" {
		t.Errorf("DepotCode(3) = %q, want CDC", got)
	}
}
