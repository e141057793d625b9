package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"route-creator/internal/domain"
	"route-creator/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLegCache stores provider legs keyed by mode and the exact request points.
type RedisLegCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLegCache(client *redis.Client, ttl time.Duration) *RedisLegCache {
	return &RedisLegCache{client: client, ttl: ttl}
}

type cachedLeg struct {
	Geometry [][]float64 `json:"g"`
	Distance float64     `json:"d"`
	Duration float64     `json:"t"`
}

// legKey hashes the request points at 6 decimals.
func legKey(mode domain.RouteMode, points []domain.Coordinates) string {
	h := sha1.New()
	for _, p := range points {
		fmt.Fprintf(h, "%.6f,%.6f;", p.Lon, p.Lat)
	}
	return "leg:" + string(mode) + ":" + hex.EncodeToString(h.Sum(nil))
}

// Fetch a cached leg for the request.
func (c *RedisLegCache) Get(
	ctx context.Context,
	mode domain.RouteMode,
	points []domain.Coordinates,
) (_ domain.RouteLeg, _ bool, err error) {
	defer obs.Time(ctx, "leg.cache.Get")(&err)

	if c.client == nil {
		return domain.RouteLeg{}, false, errors.New("leg cache: redis client is nil")
	}

	b, err := c.client.Get(ctx, legKey(mode, points)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RouteLeg{}, false, nil
	}
	if err != nil {
		return domain.RouteLeg{}, false, fmt.Errorf("get leg cache: %w", err)
	}

	var cl cachedLeg
	if err := json.Unmarshal(b, &cl); err != nil {
		return domain.RouteLeg{}, false, fmt.Errorf("get leg cache: decode: %w", err)
	}

	leg := domain.RouteLeg{
		Geometry:        make([]domain.Coordinates, 0, len(cl.Geometry)),
		DistanceMeters:  cl.Distance,
		DurationSeconds: cl.Duration,
	}
	for _, g := range cl.Geometry {
		if len(g) != 2 {
			return domain.RouteLeg{}, false, errors.New("get leg cache: corrupt geometry")
		}
		leg.Geometry = append(leg.Geometry, domain.Coordinates{Lon: g[0], Lat: g[1]})
	}

	return leg, true, nil
}

// Store a leg for the request.
func (c *RedisLegCache) Put(
	ctx context.Context,
	mode domain.RouteMode,
	points []domain.Coordinates,
	leg domain.RouteLeg,
) error {
	if c.client == nil {
		return errors.New("leg cache: redis client is nil")
	}

	cl := cachedLeg{
		Geometry: make([][]float64, 0, len(leg.Geometry)),
		Distance: leg.DistanceMeters,
		Duration: leg.DurationSeconds,
	}
	for _, g := range leg.Geometry {
		cl.Geometry = append(cl.Geometry, g.CoordsToList())
	}

	b, err := json.Marshal(cl)
	if err != nil {
		return fmt.Errorf("put leg cache: encode: %w", err)
	}

	if err := c.client.Set(ctx, legKey(mode, points), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("put leg cache: %w", err)
	}
	return nil
}
