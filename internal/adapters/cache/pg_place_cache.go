package cache

import (
	"context"
	"errors"
	"fmt"
	"route-creator/internal/domain"
	"route-creator/internal/platform/db"
	"route-creator/internal/platform/obs"
	"sort"
	"strings"
)

// PGPlaceCache is a Postgres-backed cache mapping coordinate keys to places.
type PGPlaceCache struct {
	DB db.Querier
}

func NewPGPlaceCache(q db.Querier) *PGPlaceCache {
	return &PGPlaceCache{DB: q}
}

// Fetch cached places for the given keys.
func (s *PGPlaceCache) GetMany(
	ctx context.Context,
	keys []string,
) (_ map[string]domain.Place, err error) {
	defer obs.Time(ctx, "place.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("place cache: db is nil")
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}

	if len(uniq) == 0 {
		return map[string]domain.Place{}, nil
	}

	q := `
	SELECT key, name, city, country
	FROM place_cache
	WHERE key = ANY($1::text[]);
	`

	rows, err := s.DB.Query(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Place, len(uniq))
	for rows.Next() {
		var key string
		var p domain.Place
		if err := rows.Scan(&key, &p.Name, &p.City, &p.Country); err != nil {
			return nil, fmt.Errorf("get place cache: scan rows: %w", err)
		}
		out[key] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get place cache: row iteration: %w", err)
	}

	return out, nil
}

// Store key -> place mappings in the cache.
func (s *PGPlaceCache) PutMany(ctx context.Context, places map[string]domain.Place) (err error) {
	defer obs.Time(ctx, "place.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("place cache: db is nil")
	}

	if len(places) == 0 {
		return nil
	}

	keys := make([]string, 0, len(places))
	for k := range places {
		if strings.TrimSpace(k) == "" {
			return errors.New("insert place cache: empty key")
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("insert place cache: db begin: %w", err)
	}

	const q = `
	INSERT INTO place_cache (key, name, city, country)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (key) DO UPDATE
	SET name = EXCLUDED.name,
		city = EXCLUDED.city,
		country = EXCLUDED.country,
		updated_at = now();
	`

	for _, k := range keys {
		p := places[k]
		if _, err := tx.Exec(ctx, q, k, p.Name, p.City, p.Country); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("insert place cache key=%q: %w", k, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("insert place cache commit: %w", err)
	}

	return nil
}
