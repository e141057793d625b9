package routing

import (
	"context"
	"route-creator/internal/domain"
	"sync"
)

// MockRouteProvider answers every request with a straight-line leg through the
// requested points and fixed distance/duration. Calls are recorded.
type MockRouteProvider struct {
	mu sync.Mutex

	DistanceMeters  float64
	DurationSeconds float64

	// Hook runs before each response; a non-nil error fails the call.
	Hook func(ctx context.Context, call int, points []domain.Coordinates) error

	fail  map[int]error
	empty map[int]bool
	calls [][]domain.Coordinates
	modes []domain.RouteMode
}

func NewMockRouteProvider(meters, seconds float64) *MockRouteProvider {
	return &MockRouteProvider{
		DistanceMeters:  meters,
		DurationSeconds: seconds,
		fail:            map[int]error{},
		empty:           map[int]bool{},
	}
}

// FailOn makes the call with the given 0-based index return err.
func (p *MockRouteProvider) FailOn(call int, err error) *MockRouteProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail[call] = err
	return p
}

// EmptyOn makes the call with the given 0-based index return an empty leg.
func (p *MockRouteProvider) EmptyOn(call int) *MockRouteProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.empty[call] = true
	return p
}

func (p *MockRouteProvider) Route(ctx context.Context, points []domain.Coordinates, mode domain.RouteMode) (domain.RouteLeg, error) {
	p.mu.Lock()
	call := len(p.calls)
	p.calls = append(p.calls, append([]domain.Coordinates(nil), points...))
	p.modes = append(p.modes, mode)
	failErr := p.fail[call]
	empty := p.empty[call]
	hook := p.Hook
	p.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, call, points); err != nil {
			return domain.RouteLeg{}, err
		}
	}
	if failErr != nil {
		return domain.RouteLeg{}, failErr
	}
	if empty {
		return domain.RouteLeg{}, nil
	}

	return domain.RouteLeg{
		Geometry:        append([]domain.Coordinates(nil), points...),
		DistanceMeters:  p.DistanceMeters,
		DurationSeconds: p.DurationSeconds,
	}, nil
}

// Calls returns a copy of the recorded request point lists.
func (p *MockRouteProvider) Calls() [][]domain.Coordinates {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]domain.Coordinates, len(p.calls))
	copy(out, p.calls)
	return out
}

// Modes returns the mode of each recorded call.
func (p *MockRouteProvider) Modes() []domain.RouteMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.RouteMode(nil), p.modes...)
}
