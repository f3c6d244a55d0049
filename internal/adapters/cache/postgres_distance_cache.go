package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fleet-route-planner/internal/domain"
	"fleet-route-planner/internal/ports"
)

// PostgresDistanceCache is the postgres-backed cache variant, used when a
// shared database is preferred over a local sqlite file.
type PostgresDistanceCache struct {
	DB *sql.DB
}

func NewPostgresDistanceCache(db *sql.DB) *PostgresDistanceCache {
	return &PostgresDistanceCache{DB: db}
}

func (s *PostgresDistanceCache) Get(
	ctx context.Context,
	origin, destination string,
	mode domain.TravelMode,
) (ports.DistanceResult, bool, error) {
	if s.DB == nil {
		return ports.DistanceResult{}, false, errors.New("distance cache: db is nil")
	}

	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return ports.DistanceResult{}, false, errors.New("get distance cache: origin and destination must not be empty")
	}

	q := `
	SELECT distance_meters, duration_seconds
    FROM distance_cache
    WHERE origin = $1 AND destination = $2 AND mode = $3;
	`

	var meters, seconds int
	err := s.DB.QueryRowContext(ctx, q, origin, destination, string(mode)).Scan(&meters, &seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.DistanceResult{}, false, nil
	}
	if err != nil {
		return ports.DistanceResult{}, false, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}

	return ports.DistanceResult{DistanceMeters: meters, DurationSeconds: seconds}, true, nil
}

func (s *PostgresDistanceCache) Put(
	ctx context.Context,
	origin, destination string,
	mode domain.TravelMode,
	r ports.DistanceResult,
) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return errors.New("insert distance cache: origin and destination must not be empty")
	}

	q := `
	INSERT INTO distance_cache (origin, destination, mode, distance_meters, duration_seconds)
    VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (origin, destination, mode) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds;
	`

	if _, err := s.DB.ExecContext(ctx, q, origin, destination, string(mode), r.DistanceMeters, r.DurationSeconds); err != nil {
		return fmt.Errorf("insert distance cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}
