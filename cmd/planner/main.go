package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"fleet-route-planner/internal/adapters/cache"
	"fleet-route-planner/internal/adapters/distance"
	"fleet-route-planner/internal/config"
	"fleet-route-planner/internal/domain"
	"fleet-route-planner/internal/opt"
	"fleet-route-planner/internal/platform/db"
	"fleet-route-planner/internal/platform/obs"
	"fleet-route-planner/internal/ports"
	"fleet-route-planner/internal/services"
	"fleet-route-planner/internal/verify"
)

// Straight-line cruise speeds used when estimating durations without a
// routing backend: a conservative ground speed and a drone cruise speed.
const (
	fallbackRoadSpeedKmh = 40
	airSpeedKmh          = 60
)

// main is the application composition root. It wires the distance
// providers and the persistent cache behind ports and runs the pipeline
// for one case.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	configPath := flag.String("config", "configs/case1.yaml", "case configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx := obs.WithRunID(context.Background(), uuid.NewString())

	database, distanceCache, err := openCache()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	road, air, err := buildProviders(cfg, distanceCache)
	if err != nil {
		log.Fatal(err)
	}

	budget, err := cfg.SolveBudget()
	if err != nil {
		log.Fatal(err)
	}
	solver := opt.NewMIPSolver(budget, cfg.Solver.GapRelative)
	solver.Verbose = cfg.Solver.Verbose

	planner := &services.Planner{Road: road, Air: air, Solver: solver}

	res, err := planner.PlanRoutes(ctx, cfg)
	if err != nil {
		exitWith(err)
	}

	log.Printf("run_id=%s case=%s status=%s objective=%.2f routes=%d output=%s",
		obs.RunID(ctx), cfg.Case, res.Status, res.Objective, len(res.Routes), res.OutputPath)
	for _, r := range res.Routes {
		log.Printf("  %s: %s (%d clients, %.1f km, cost %.2f)",
			r.VehicleID, strings.Join(r.Sequence(), "-"), r.ClientsServed(), r.TotalDistanceKm, r.TotalCost)
	}
}

// openCache opens the persistent distance cache: postgres when
// DATABASE_URL is set, a local sqlite file otherwise.
func openCache() (*sql.DB, ports.DistanceCache, error) {
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		database, err := db.OpenPostgres(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSchema(database); err != nil {
			database.Close()
			return nil, nil, err
		}
		return database, cache.NewPostgresDistanceCache(database), nil
	}

	database, err := db.OpenSQLite(config.Get("CACHE_PATH", "distance-cache.db"))
	if err != nil {
		return nil, nil, err
	}
	if err := cache.InitSchema(database); err != nil {
		database.Close()
		return nil, nil, err
	}
	return database, cache.NewSqliteDistanceCache(database), nil
}

// buildProviders wires the per-mode distance providers behind the cache.
func buildProviders(cfg *config.Config, distanceCache ports.DistanceCache) (road, air ports.DistanceProvider, err error) {
	var inner ports.DistanceProvider
	switch cfg.Distance.Method {
	case "osrm":
		inner = distance.NewOSRMProvider(cfg.Distance.OSRMBaseURL)
	case "haversine":
		inner = distance.NewHaversineFallback(fallbackRoadSpeedKmh)
	default:
		return nil, nil, &domain.DataFormatError{
			File: "config", Column: "distance.method",
			Reason: "must be osrm or haversine, got " + cfg.Distance.Method,
		}
	}

	roadCaching := distance.NewCachingProvider(inner, distanceCache)
	if cfg.Distance.FallbackHaversine {
		roadCaching.Fallback = distance.NewHaversineFallback(fallbackRoadSpeedKmh)
	}

	airCaching := distance.NewCachingProvider(distance.NewHaversineProvider(airSpeedKmh), distanceCache)

	return roadCaching, airCaching, nil
}

// exitWith reports pipeline failures by kind, so operators can tell bad
// input, an over-constrained case, an engine failure, and a formulation
// defect apart.
func exitWith(err error) {
	var dfe *domain.DataFormatError
	var serr *domain.SolverError
	var verr *verify.VerificationError

	switch {
	case errors.As(err, &dfe):
		log.Fatalf("input data rejected: %v", err)
	case errors.Is(err, domain.ErrModelInfeasible):
		log.Fatalf("no feasible plan exists for this case: %v", err)
	case errors.As(err, &serr):
		log.Fatalf("optimization engine failed: %v", err)
	case errors.As(err, &verr):
		log.Fatalf("solution rejected by verification: %v", err)
	case errors.Is(err, domain.ErrProviderUnavailable):
		log.Fatalf("distance provider unavailable: %v", err)
	default:
		log.Fatal(err)
	}
}
