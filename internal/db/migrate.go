package db

import (
	"database/sql"
	"fmt"
)

// migrations are executed in order; every statement must be idempotent so
// the whole list can re-run against an existing database.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS resolution_cache (
		item         TEXT    NOT NULL,
		amount       REAL    NOT NULL,
		recipe_index INTEGER NOT NULL DEFAULT 0,
		resolution   TEXT    NOT NULL,
		created_at   TEXT    NOT NULL,
		PRIMARY KEY (item, amount, recipe_index)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resolution_cache_item ON resolution_cache(item)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
