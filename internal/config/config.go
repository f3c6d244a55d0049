package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"fleet-route-planner/internal/domain"
)

// Get reads an environment variable with a fallback default.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Case configuration: file paths, distance method, solver budget, cost
// rates, and the constraint modules active for the case. Operators supply
// this as a YAML file; nothing in it is derived by the planner.
type Config struct {
	Case             string   `yaml:"case"`
	OperationalStart string   `yaml:"operational_start"`
	Data             Data     `yaml:"data"`
	Output           string   `yaml:"output"`
	Distance         Distance `yaml:"distance"`
	Solver           Solver   `yaml:"solver"`
	Constraints      Toggles  `yaml:"constraints"`
	ServiceTime      string   `yaml:"service_time"`
	Costs            Costs    `yaml:"costs"`
}

type Data struct {
	Clients  string `yaml:"clients"`
	Vehicles string `yaml:"vehicles"`
	Depots   string `yaml:"depots"`
}

type Distance struct {
	Method            string `yaml:"method"` // osrm | haversine
	OSRMBaseURL       string `yaml:"osrm_base_url"`
	FallbackHaversine bool   `yaml:"fallback_haversine"`
}

type Solver struct {
	MaxDuration string  `yaml:"max_duration"`
	GapRelative float64 `yaml:"gap_relative"`
	Verbose     bool    `yaml:"verbose"`
}

// Toggles select which constraint modules the case activates.
// Capacity and visit-exactly-once are always on.
type Toggles struct {
	TimeWindows bool `yaml:"time_windows"`
	Range       bool `yaml:"range"`
	DepotHours  bool `yaml:"depot_hours"`
}

type Costs struct {
	DistancePerKm   map[string]float64 `yaml:"distance_per_km"`
	FixedPerVehicle float64            `yaml:"fixed_per_vehicle"`
	LaborPerHour    float64            `yaml:"labor_per_hour"`
}

// Load reads and validates a case configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: read %q: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("load config: parse %q: %w", path, err)
	}

	if cfg.Data.Clients == "" || cfg.Data.Vehicles == "" || cfg.Data.Depots == "" {
		return nil, fmt.Errorf("load config: %q: data.clients, data.vehicles and data.depots are required", path)
	}
	if _, err := cfg.Start(); err != nil {
		return nil, fmt.Errorf("load config: %q: %w", path, err)
	}
	if _, err := cfg.SolveBudget(); err != nil {
		return nil, fmt.Errorf("load config: %q: %w", path, err)
	}

	if cfg.Output == "" {
		cfg.Output = "solution.csv"
	}
	if cfg.Distance.Method == "" {
		cfg.Distance.Method = "haversine"
	}
	if cfg.Distance.OSRMBaseURL == "" {
		cfg.Distance.OSRMBaseURL = "http://router.project-osrm.org"
	}

	return cfg, nil
}

// Start parses the operational start instant all time windows are
// anchored to.
func (c *Config) Start() (time.Time, error) {
	if c.OperationalStart == "" {
		return time.Time{}, fmt.Errorf("operational_start is required")
	}

	t, err := time.Parse(time.RFC3339, c.OperationalStart)
	if err != nil {
		// Date-only form anchors windows at midnight UTC.
		t, err = time.Parse("2006-01-02", c.OperationalStart)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("parse operational_start %q: %w", c.OperationalStart, err)
	}
	return t, nil
}

// SolveBudget parses the solver time budget, defaulting to five minutes.
func (c *Config) SolveBudget() (time.Duration, error) {
	if c.Solver.MaxDuration == "" {
		return 5 * time.Minute, nil
	}
	d, err := time.ParseDuration(c.Solver.MaxDuration)
	if err != nil {
		return 0, fmt.Errorf("parse solver.max_duration %q: %w", c.Solver.MaxDuration, err)
	}
	return d, nil
}

// Service parses the per-stop service time, defaulting to zero.
func (c *Config) Service() (time.Duration, error) {
	if c.ServiceTime == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.ServiceTime)
	if err != nil {
		return 0, fmt.Errorf("parse service_time %q: %w", c.ServiceTime, err)
	}
	return d, nil
}

// CostRates converts the YAML cost block into domain rates.
func (c *Config) CostRates() domain.CostRates {
	rates := domain.CostRates{
		DistancePerKm:   make(map[domain.VehicleType]float64, len(c.Costs.DistancePerKm)),
		FixedPerVehicle: c.Costs.FixedPerVehicle,
		LaborPerHour:    c.Costs.LaborPerHour,
	}
	for k, v := range c.Costs.DistancePerKm {
		rates.DistancePerKm[domain.VehicleType(k)] = v
	}
	return rates
}
