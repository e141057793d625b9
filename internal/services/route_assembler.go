package services

import (
	"context"
	"errors"
	"fmt"
	"route-creator/internal/domain"
	"route-creator/internal/platform/logger"
	"route-creator/internal/platform/metrics"
	"route-creator/internal/platform/obs"
	"route-creator/internal/ports"

	"go.uber.org/zap"
)

var ErrInvalidCap = errors.New("assembler: cap must be at least 3")

// AssemblerConfig selects the per-request point cap and the provider mode.
// A zero Cap uses the mode default.
type AssemblerConfig struct {
	Cap  int
	Mode domain.RouteMode
}

// RouteAssembler splits stops into provider-sized chunks, requests each chunk
// in order and stitches the legs into one route.
type RouteAssembler struct {
	provider ports.RouteProvider
	cfg      AssemblerConfig
}

func NewRouteAssembler(provider ports.RouteProvider, cfg AssemblerConfig) (*RouteAssembler, error) {
	if provider == nil {
		return nil, errors.New("assembler: provider is nil")
	}
	if cfg.Mode == "" {
		cfg.Mode = domain.ModePlain
	}
	if cfg.Cap == 0 {
		cfg.Cap = cfg.Mode.Cap()
	}
	if cfg.Cap < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCap, cfg.Cap)
	}
	return &RouteAssembler{provider: provider, cfg: cfg}, nil
}

func (a *RouteAssembler) Config() AssemblerConfig { return a.cfg }

// Assemble builds the route origin -> stops -> destination.
//
// Every chunk request is [last point] + chunk + [destination]; the first chunk
// starts at origin and each later chunk starts at the terminal coordinate of
// the previous non-empty leg. Requests are sequential. A failed or empty leg
// is logged and skipped without moving the start point. With no stops exactly
// one request [origin, destination] is issued.
//
// Cancelling ctx aborts between requests and returns ctx.Err().
func (a *RouteAssembler) Assemble(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	stops []domain.Coordinates,
) (_ domain.AssembledRoute, err error) {
	defer obs.Time(ctx, "assembler.Assemble")(&err)

	chunks := chunkStops(stops, a.cfg.Cap-2)

	out := domain.AssembledRoute{Geometry: []domain.Coordinates{}}
	lastPoint := origin
	accumulated := 0

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return domain.AssembledRoute{}, err
		}

		points := make([]domain.Coordinates, 0, len(chunk)+2)
		points = append(points, lastPoint)
		points = append(points, chunk...)
		points = append(points, destination)

		leg, legErr := a.provider.Route(ctx, points, a.cfg.Mode)
		out.Requests++

		if legErr != nil && ctx.Err() != nil {
			return domain.AssembledRoute{}, ctx.Err()
		}

		if legErr != nil || leg.Empty() {
			out.SkippedLegs++
			metrics.SkippedLegsTotal.WithLabelValues(string(a.cfg.Mode)).Inc()
			logger.L().Warn("route leg skipped",
				zap.String("req_id", obs.RequestID(ctx)),
				zap.Int("chunk", i),
				zap.Int("points", len(points)),
				zap.String("mode", string(a.cfg.Mode)),
				zap.Error(legErr),
			)
			continue
		}

		geometry := leg.Geometry
		// Consecutive optimized legs share their seam coordinate.
		if a.cfg.Mode == domain.ModeOptimize && accumulated > 0 {
			geometry = geometry[1:]
		}

		out.Geometry = append(out.Geometry, geometry...)
		out.DistanceMeters += leg.DistanceMeters
		out.DurationSeconds += leg.DurationSeconds
		lastPoint = leg.Last()
		accumulated++
	}

	return out, nil
}

// chunkStops splits stops into consecutive groups of at most size elements.
// An empty list yields one empty chunk.
func chunkStops(stops []domain.Coordinates, size int) [][]domain.Coordinates {
	if len(stops) == 0 {
		return [][]domain.Coordinates{{}}
	}

	chunks := make([][]domain.Coordinates, 0, (len(stops)+size-1)/size)
	for start := 0; start < len(stops); start += size {
		end := min(start+size, len(stops))
		chunks = append(chunks, stops[start:end])
	}
	return chunks
}
