// Package repository persists recipe resolutions in SQLite. The stored JSON
// uses the durable cache field names (materials, total_time, cycles, using,
// cycle_time, output_per_cycle, byproducts) and must survive round-trips
// unchanged.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/quartermaster/internal/recipe"
)

// ErrNotFound is returned when a cache entry does not exist.
var ErrNotFound = errors.New("not found")

// SQLiteResolutionCache caches resolver results keyed by (item, amount,
// recipe index).
type SQLiteResolutionCache struct {
	db *sql.DB
}

// NewSQLiteResolutionCache creates a cache over the given database.
func NewSQLiteResolutionCache(db *sql.DB) *SQLiteResolutionCache {
	return &SQLiteResolutionCache{db: db}
}

// Get loads a cached resolution. Returns ErrNotFound when no entry exists.
func (r *SQLiteResolutionCache) Get(ctx context.Context, item string, amount float64, recipeIndex int) (*recipe.Resolution, error) {
	query := `SELECT resolution FROM resolution_cache WHERE item = ? AND amount = ? AND recipe_index = ?`
	var payload string
	err := r.db.QueryRowContext(ctx, query, item, amount, recipeIndex).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading cached resolution: %w", err)
	}

	var res recipe.Resolution
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return nil, fmt.Errorf("decoding cached resolution: %w", err)
	}
	return &res, nil
}

// Put stores a resolution, replacing any existing entry for the same key.
func (r *SQLiteResolutionCache) Put(ctx context.Context, item string, amount float64, recipeIndex int, res *recipe.Resolution) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding resolution: %w", err)
	}

	query := `INSERT INTO resolution_cache (item, amount, recipe_index, resolution, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (item, amount, recipe_index) DO UPDATE SET
			resolution = excluded.resolution,
			created_at = excluded.created_at`
	_, err = r.db.ExecContext(ctx, query, item, amount, recipeIndex, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storing resolution: %w", err)
	}
	return nil
}

// Invalidate removes every cached resolution for an item, e.g. after its
// recipes changed.
func (r *SQLiteResolutionCache) Invalidate(ctx context.Context, item string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM resolution_cache WHERE item = ?`, item); err != nil {
		return fmt.Errorf("invalidating cached resolutions: %w", err)
	}
	return nil
}
