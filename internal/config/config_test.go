package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fleet-route-planner/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "case.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `
case: case1
operational_start: "2026-03-02T06:00:00Z"
data:
  clients: data/clients.csv
  vehicles: data/vehicles.csv
  depots: data/depots.csv
solver:
  max_duration: 2m
  gap_relative: 0.05
constraints:
  time_windows: true
  range: true
service_time: 10m
costs:
  distance_per_km:
    ground: 2.1
    drone: 0.6
  fixed_per_vehicle: 50
  labor_per_hour: 12
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Case != "case1" {
		t.Errorf("case = %q, want case1", cfg.Case)
	}

	start, err := cfg.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	want := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}

	budget, err := cfg.SolveBudget()
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if budget != 2*time.Minute {
		t.Errorf("budget = %v, want 2m", budget)
	}

	service, err := cfg.Service()
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	if service != 10*time.Minute {
		t.Errorf("service time = %v, want 10m", service)
	}

	rates := cfg.CostRates()
	if rates.PerKm(domain.VehicleGround) != 2.1 {
		t.Errorf("ground rate = %v, want 2.1", rates.PerKm(domain.VehicleGround))
	}
	if rates.PerKm(domain.VehicleDrone) != 0.6 {
		t.Errorf("drone rate = %v, want 0.6", rates.PerKm(domain.VehicleDrone))
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
case: minimal
operational_start: "2026-03-02"
data:
  clients: c.csv
  vehicles: v.csv
  depots: d.csv
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Output != "solution.csv" {
		t.Errorf("output = %q, want solution.csv", cfg.Output)
	}
	if cfg.Distance.Method != "haversine" {
		t.Errorf("distance method = %q, want haversine", cfg.Distance.Method)
	}

	budget, err := cfg.SolveBudget()
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if budget != 5*time.Minute {
		t.Errorf("default budget = %v, want 5m", budget)
	}

	// Date-only start anchors the day at midnight.
	start, err := cfg.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if start.Hour() != 0 || start.Day() != 2 {
		t.Errorf("start = %v, want midnight on March 2", start)
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing data paths", "case: x\noperational_start: \"2026-03-02\"\n"},
		{"missing start", "case: x\ndata: {clients: c, vehicles: v, depots: d}\n"},
		{"bad start", "case: x\noperational_start: notadate\ndata: {clients: c, vehicles: v, depots: d}\n"},
		{"bad duration", "case: x\noperational_start: \"2026-03-02\"\ndata: {clients: c, vehicles: v, depots: d}\nsolver: {max_duration: soon}\n"},
		{"not yaml", "{{{"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("PLANNER_TEST_KEY", "set")
	if got := Get("PLANNER_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("got %q, want set", got)
	}
	if got := Get("PLANNER_TEST_KEY_UNSET", "fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}
