package ports

import (
	"context"
	"route-creator/internal/domain"
)

// Contract for announcing published routes to other services.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.RouteEvent) error
	Close() error
}
