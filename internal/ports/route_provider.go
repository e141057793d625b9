package ports

import (
	"context"
	"route-creator/internal/domain"
)

// Contract for requesting a driving path through an ordered list of points.
type RouteProvider interface {
	// Route returns the leg for points in the given mode. On failure it returns
	// an empty leg together with the error.
	Route(ctx context.Context, points []domain.Coordinates, mode domain.RouteMode) (domain.RouteLeg, error)
}

// Contract for caching provider legs keyed by mode and request points.
type LegCache interface {
	Get(ctx context.Context, mode domain.RouteMode, points []domain.Coordinates) (domain.RouteLeg, bool, error)
	Put(ctx context.Context, mode domain.RouteMode, points []domain.Coordinates, leg domain.RouteLeg) error
}
