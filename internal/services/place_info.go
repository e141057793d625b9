package services

import (
	"context"
	"route-creator/internal/domain"
	"route-creator/internal/platform/logger"
	"route-creator/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const describeConcurrency = 4

// DescribePlaces reverse-geocodes every point concurrently. A failed lookup
// yields the fallback place; output order matches points.
func DescribePlaces(ctx context.Context, reverser ports.ReverseGeocoder, points []domain.LabeledPoint) []domain.StopPlace {
	out := make([]domain.StopPlace, len(points))

	var g errgroup.Group
	g.SetLimit(describeConcurrency)

	for i, p := range points {
		i, p := i, p
		g.Go(func() error {
			place, err := reverser.Reverse(ctx, p.Coordinates)
			if err != nil {
				logger.L().Warn("reverse geocode failed",
					zap.String("label", p.Label),
					zap.String("coords", p.LatLngString()),
					zap.Error(err),
				)
				place = domain.FallbackPlace()
			}
			out[i] = domain.StopPlace{LabeledPoint: p, Place: place.WithFallbacks()}
			return nil
		})
	}

	_ = g.Wait()
	return out
}
