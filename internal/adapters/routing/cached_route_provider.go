package routing

import (
	"context"
	"route-creator/internal/domain"
	"route-creator/internal/platform/logger"
	"route-creator/internal/platform/metrics"
	"route-creator/internal/ports"

	"go.uber.org/zap"
)

// CachedRouteProvider serves repeated leg requests from a LegCache.
// Cache failures are logged and never fail the request; empty legs are not cached.
type CachedRouteProvider struct {
	inner ports.RouteProvider
	cache ports.LegCache
}

func NewCachedRouteProvider(inner ports.RouteProvider, cache ports.LegCache) *CachedRouteProvider {
	return &CachedRouteProvider{inner: inner, cache: cache}
}

func (p *CachedRouteProvider) Route(
	ctx context.Context,
	points []domain.Coordinates,
	mode domain.RouteMode,
) (domain.RouteLeg, error) {
	if p.cache == nil {
		return p.inner.Route(ctx, points, mode)
	}

	leg, ok, err := p.cache.Get(ctx, mode, points)
	if err != nil {
		logger.L().Warn("leg cache read failed", zap.Error(err))
	}
	if ok {
		metrics.CacheHitsTotal.WithLabelValues("leg").Inc()
		return leg, nil
	}
	metrics.CacheMissesTotal.WithLabelValues("leg").Inc()

	leg, err = p.inner.Route(ctx, points, mode)
	if err != nil {
		return leg, err
	}

	if !leg.Empty() {
		if err := p.cache.Put(ctx, mode, points, leg); err != nil {
			logger.L().Warn("leg cache write failed", zap.Error(err))
		}
	}

	return leg, nil
}
