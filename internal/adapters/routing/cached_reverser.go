package routing

import (
	"context"
	"route-creator/internal/domain"
	"route-creator/internal/platform/logger"
	"route-creator/internal/platform/metrics"
	"route-creator/internal/ports"

	"go.uber.org/zap"
)

// CachedReverser consults a PlaceCache before the wrapped geocoder.
type CachedReverser struct {
	inner ports.ReverseGeocoder
	cache ports.PlaceCache
}

func NewCachedReverser(inner ports.ReverseGeocoder, cache ports.PlaceCache) *CachedReverser {
	return &CachedReverser{inner: inner, cache: cache}
}

func (r *CachedReverser) Reverse(ctx context.Context, c domain.Coordinates) (domain.Place, error) {
	if r.cache == nil {
		return r.inner.Reverse(ctx, c)
	}

	key := c.Key()

	hits, err := r.cache.GetMany(ctx, []string{key})
	if err != nil {
		logger.L().Warn("place cache read failed", zap.String("key", key), zap.Error(err))
	}
	if p, ok := hits[key]; ok {
		metrics.CacheHitsTotal.WithLabelValues("place").Inc()
		return p, nil
	}
	metrics.CacheMissesTotal.WithLabelValues("place").Inc()

	p, err := r.inner.Reverse(ctx, c)
	if err != nil {
		return domain.Place{}, err
	}

	if p != domain.FallbackPlace() {
		if err := r.cache.PutMany(ctx, map[string]domain.Place{key: p}); err != nil {
			logger.L().Warn("place cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return p, nil
}
