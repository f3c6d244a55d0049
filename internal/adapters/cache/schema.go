package cache

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the distance cache schema. The DDL is deliberately limited to
// types both sqlite and postgres accept, so one schema serves both drivers.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS distance_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        mode TEXT NOT NULL,
        distance_meters INTEGER NOT NULL,
        duration_seconds INTEGER NOT NULL,
        PRIMARY KEY (origin, destination, mode)
    );
	`

	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init schema: create distance_cache: %w", err)
	}

	return nil
}
