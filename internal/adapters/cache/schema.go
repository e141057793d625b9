package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"route-creator/internal/domain"
	"route-creator/internal/platform/db"
	"strings"
)

// InitSchema creates the Postgres tables used by the place cache.
func InitSchema(ctx context.Context, q db.Querier) error {
	if q == nil {
		return errors.New("init schema: db is nil")
	}

	tx, err := q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}

	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS place_cache (
		key TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		city TEXT NOT NULL,
		country TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_place_cache_updated_at
	ON place_cache(updated_at);
	`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PlaceSeed struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Name    string  `json:"name"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}

// SeedPlacesFromJSON warms the place cache from a JSON array of PlaceSeed.
func SeedPlacesFromJSON(ctx context.Context, cache *PGPlaceCache, jsonPath string) (int, error) {
	b, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed places: read %q: %w", jsonPath, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(b, &data); err != nil {
		return 0, fmt.Errorf("seed places: parse json: %w", err)
	}

	places := make(map[string]domain.Place, len(data))
	for i, item := range data {
		c := domain.Coordinates{Lon: item.Lng, Lat: item.Lat}
		if !c.Valid() {
			return 0, fmt.Errorf("seed places: invalid coordinate at index %d", i+1)
		}
		if strings.TrimSpace(item.Name) == "" {
			return 0, fmt.Errorf("seed places: item at index %d: name cannot be empty", i+1)
		}
		places[c.Key()] = domain.Place{Name: item.Name, City: item.City, Country: item.Country}.WithFallbacks()
	}

	if err := cache.PutMany(ctx, places); err != nil {
		return 0, fmt.Errorf("seed places: %w", err)
	}

	return len(places), nil
}
