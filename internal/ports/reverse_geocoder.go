package ports

import (
	"context"
	"route-creator/internal/domain"
)

// Contract for describing a coordinate as a place.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, c domain.Coordinates) (domain.Place, error)
}

// Contract for persisting reverse-geocode results keyed by a rounded coordinate key.
type PlaceCache interface {
	GetMany(ctx context.Context, keys []string) (map[string]domain.Place, error)
	PutMany(ctx context.Context, places map[string]domain.Place) error
}
