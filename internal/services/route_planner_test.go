package services

import (
	"context"
	"errors"
	"route-creator/internal/adapters/routing"
	"route-creator/internal/domain"
	"route-creator/internal/session"
	"sync"
	"testing"
	"time"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.RouteEvent
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e domain.RouteEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingPublisher) Close() error { return nil }

type fakeReverser struct {
	fail map[domain.Coordinates]bool
}

func (f *fakeReverser) Reverse(_ context.Context, c domain.Coordinates) (domain.Place, error) {
	if f.fail[c] {
		return domain.Place{}, errors.New("geocoder down")
	}
	return domain.Place{Name: c.LatLngString(), City: "Town"}, nil
}

func newTestPlanner(t *testing.T, provider *routing.MockRouteProvider, cfg RoutePlannerConfig) *RoutePlanner {
	t.Helper()

	plain, err := NewRouteAssembler(provider, AssemblerConfig{Mode: domain.ModePlain})
	if err != nil {
		t.Fatalf("plain assembler: %v", err)
	}
	opt, err := NewRouteAssembler(provider, AssemblerConfig{Mode: domain.ModeOptimize})
	if err != nil {
		t.Fatalf("optimize assembler: %v", err)
	}

	cfg.Session = session.New()
	cfg.Plain = plain
	cfg.Optimize = opt

	p, err := NewRoutePlanner(cfg)
	if err != nil {
		t.Fatalf("new planner: %v", err)
	}
	return p
}

func TestUpdateRouteEndToEnd(t *testing.T) {
	provider := routing.NewMockRouteProvider(50000, 3600)
	events := &recordingPublisher{}
	p := newTestPlanner(t, provider, RoutePlannerConfig{Events: events})

	res, err := p.UpdateRoute(context.Background(), PlanRequest{
		Start:     "40.7128,-74.0060",
		End:       "40.7580,-73.9855",
		Waypoints: "40.73,-74.00;40.74,-73.99",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Route.DistanceKm() != "50.00" || res.Route.DurationMinutes() != "60.00" {
		t.Fatalf("summary = %s km / %s minutes", res.Route.DistanceKm(), res.Route.DurationMinutes())
	}
	if len(res.Points) != 4 || res.Points[0].Label != "Start" || res.Points[3].Label != "End" {
		t.Fatalf("unexpected points: %+v", res.Points)
	}

	calls := provider.Calls()
	if len(calls) != 1 || len(calls[0]) != 4 {
		t.Fatalf("expected one request with 4 points, got %v", calls)
	}
	if calls[0][0] != (domain.Coordinates{Lon: -74.0060, Lat: 40.7128}) {
		t.Fatalf("start must be sent as lon,lat: %+v", calls[0][0])
	}

	st := p.Session().Snapshot()
	if !st.HasRoute() || st.Loading || len(st.Stops) != 2 {
		t.Fatalf("unexpected session state: %+v", st)
	}

	if len(events.events) != 1 || events.events[0].SessionID != p.Session().ID() {
		t.Fatalf("expected one route event, got %+v", events.events)
	}
}

func TestUpdateRouteInputErrorLeavesSessionUntouched(t *testing.T) {
	provider := routing.NewMockRouteProvider(1, 1)
	p := newTestPlanner(t, provider, RoutePlannerConfig{})

	_, _ = p.UpdateRoute(context.Background(), PlanRequest{Start: "1,1", End: "2,2"})
	before := p.Session().Snapshot()

	tests := []PlanRequest{
		{Start: "", End: "2,2"},
		{Start: "1,1", End: "north"},
		{Start: "1,1", End: "2,2", Waypoints: "1,1;95,0"},
	}
	for _, req := range tests {
		_, err := p.UpdateRoute(context.Background(), req)
		var ie *domain.InputError
		if !errors.As(err, &ie) {
			t.Fatalf("request %+v: expected InputError, got %v", req, err)
		}
	}

	if len(provider.Calls()) != 1 {
		t.Fatalf("input errors must not reach the provider")
	}
	after := p.Session().Snapshot()
	if after.Generation != before.Generation || !after.HasRoute() {
		t.Fatalf("input errors must not reset the session")
	}
}

func TestUpdateRouteNearestReordersStops(t *testing.T) {
	provider := routing.NewMockRouteProvider(1, 1)
	p := newTestPlanner(t, provider, RoutePlannerConfig{})

	_, err := p.UpdateRoute(context.Background(), PlanRequest{
		Start:     "0,0",
		End:       "0,10",
		Waypoints: "0,3;0,1;0,2",
		Nearest:   true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := provider.Calls()[0]
	for i, wantLon := range []float64{0, 1, 2, 3, 10} {
		if got[i].Lon != wantLon {
			t.Fatalf("point %d lon = %v, want %v", i, got[i].Lon, wantLon)
		}
	}
}

func TestUpdateRouteOptimizeUsesOptimizeMode(t *testing.T) {
	provider := routing.NewMockRouteProvider(1, 1)
	p := newTestPlanner(t, provider, RoutePlannerConfig{})

	res, err := p.UpdateRoute(context.Background(), PlanRequest{Start: "0,0", End: "1,1", Waypoints: "0.5,0.5", Optimize: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Mode != domain.ModeOptimize || provider.Modes()[0] != domain.ModeOptimize {
		t.Fatalf("expected optimize mode")
	}
	if p.Session().Snapshot().Mode != domain.ModeOptimize {
		t.Fatalf("session should record the mode")
	}
}

func TestUpdateRouteEmptyRoute(t *testing.T) {
	provider := routing.NewMockRouteProvider(1, 1).EmptyOn(0)
	events := &recordingPublisher{}
	p := newTestPlanner(t, provider, RoutePlannerConfig{Events: events})

	_, err := p.UpdateRoute(context.Background(), PlanRequest{Start: "0,0", End: "1,1"})
	if !errors.Is(err, ErrEmptyRoute) {
		t.Fatalf("expected ErrEmptyRoute, got %v", err)
	}

	st := p.Session().Snapshot()
	if st.Loading || st.HasRoute() {
		t.Fatalf("empty route must be published without geometry: %+v", st)
	}
	if len(events.events) != 0 {
		t.Fatalf("no event expected for an empty route")
	}
}

func TestUpdateRouteDescribesPlaces(t *testing.T) {
	provider := routing.NewMockRouteProvider(1, 1)
	failing := domain.Coordinates{Lon: 0.5, Lat: 0.5}
	p := newTestPlanner(t, provider, RoutePlannerConfig{
		Reverser: &fakeReverser{fail: map[domain.Coordinates]bool{failing: true}},
	})

	res, err := p.UpdateRoute(context.Background(), PlanRequest{
		Start: "0,0", End: "1,1", Waypoints: "0.5,0.5", Describe: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Places) != 3 {
		t.Fatalf("expected 3 places, got %d", len(res.Places))
	}
	if res.Places[1].Label != "Stop 1" || res.Places[1].Place != domain.FallbackPlace() {
		t.Fatalf("failed lookup should fall back: %+v", res.Places[1])
	}
	if res.Places[0].Place.City != "Town" || res.Places[0].Place.Country != domain.UnknownCountry {
		t.Fatalf("unexpected start place: %+v", res.Places[0].Place)
	}
}

func TestUpdateRouteSupersedesInFlightUpdate(t *testing.T) {
	provider := routing.NewMockRouteProvider(1000, 60)
	slowEnd := domain.Coordinates{Lon: 9, Lat: 9}
	entered := make(chan struct{})

	provider.Hook = func(ctx context.Context, _ int, points []domain.Coordinates) error {
		if points[len(points)-1] == slowEnd {
			close(entered)
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}

	p := newTestPlanner(t, provider, RoutePlannerConfig{})

	firstErr := make(chan error, 1)
	go func() {
		_, err := p.UpdateRoute(context.Background(), PlanRequest{Start: "0,0", End: "9,9"})
		firstErr <- err
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("first update never reached the provider")
	}

	res, err := p.UpdateRoute(context.Background(), PlanRequest{Start: "0,0", End: "1,1"})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	select {
	case err := <-firstErr:
		if !errors.Is(err, ErrSuperseded) {
			t.Fatalf("first update: expected ErrSuperseded, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("first update was not cancelled")
	}

	st := p.Session().Snapshot()
	if st.End != (domain.Coordinates{Lon: 1, Lat: 1}) || st.Route.DistanceMeters != res.Route.DistanceMeters {
		t.Fatalf("session should hold the newer route: %+v", st)
	}
}

func TestUpdateRouteCallerCancelClearsLoading(t *testing.T) {
	provider := routing.NewMockRouteProvider(1000, 60)
	p := newTestPlanner(t, provider, RoutePlannerConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	provider.Hook = func(hctx context.Context, _ int, _ []domain.Coordinates) error {
		cancel()
		return hctx.Err()
	}

	_, err := p.UpdateRoute(ctx, PlanRequest{Start: "0,0", End: "1,1", Waypoints: "0.5,0.5"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrSuperseded) {
		t.Fatalf("a cancelled caller is not a superseded update")
	}

	st := p.Session().Snapshot()
	if st.Loading {
		t.Fatalf("failed update must not leave the session loading")
	}
	if st.HasRoute() || st.Generation != 1 {
		t.Fatalf("expected an empty published state, got %+v", st)
	}
}

func TestUpdateRouteProviderCancelThenRecovers(t *testing.T) {
	provider := routing.NewMockRouteProvider(1000, 60)
	p := newTestPlanner(t, provider, RoutePlannerConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.UpdateRoute(ctx, PlanRequest{Start: "0,0", End: "1,1"}); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
	if p.Session().Snapshot().Loading {
		t.Fatalf("session should not be loading")
	}

	if _, err := p.UpdateRoute(context.Background(), PlanRequest{Start: "0,0", End: "1,1"}); err != nil {
		t.Fatalf("next update: %v", err)
	}
	if !p.Session().Snapshot().HasRoute() {
		t.Fatalf("next update should publish a route")
	}
}

func TestNewRoutePlannerValidates(t *testing.T) {
	if _, err := NewRoutePlanner(RoutePlannerConfig{}); err == nil {
		t.Fatalf("expected error for missing session")
	}
	if _, err := NewRoutePlanner(RoutePlannerConfig{Session: session.New()}); err == nil {
		t.Fatalf("expected error for missing assemblers")
	}
}
