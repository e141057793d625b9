package events

import (
	"context"
	"route-creator/internal/domain"
)

// NopPublisher drops every event. Used when no backend is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.RouteEvent) error { return nil }
func (NopPublisher) Close() error                                     { return nil }
