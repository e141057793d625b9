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
	"route-creator/internal/session"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrEmptyRoute means every leg failed or came back empty.
	ErrEmptyRoute = errors.New("no route found")
	// ErrSuperseded means a newer update replaced this one before it finished.
	ErrSuperseded = errors.New("route update superseded")
)

// PlanRequest carries the raw user input of one route update.
type PlanRequest struct {
	Start     string
	End       string
	Waypoints string

	// Nearest reorders stops with SequenceStops before routing.
	Nearest bool
	// Optimize routes through the provider's optimization mode.
	Optimize bool
	// Describe reverse-geocodes start, stops and end.
	Describe bool
}

type PlanResult struct {
	SessionID string
	Mode      domain.RouteMode
	Route     domain.AssembledRoute
	Points    []domain.LabeledPoint
	Places    []domain.StopPlace
}

type RoutePlannerConfig struct {
	Session  *session.Session
	Plain    *RouteAssembler
	Optimize *RouteAssembler

	// Optional collaborators.
	Reverser ports.ReverseGeocoder
	Events   ports.EventPublisher
}

// RoutePlanner runs route updates against a single session. Starting a new
// update cancels the one in flight.
type RoutePlanner struct {
	session  *session.Session
	plain    *RouteAssembler
	optimize *RouteAssembler
	reverser ports.ReverseGeocoder
	events   ports.EventPublisher

	mu       sync.Mutex
	inflight session.Token
	cancel   context.CancelFunc
}

func NewRoutePlanner(cfg RoutePlannerConfig) (*RoutePlanner, error) {
	if cfg.Session == nil {
		return nil, errors.New("route planner: session is nil")
	}
	if cfg.Plain == nil || cfg.Optimize == nil {
		return nil, errors.New("route planner: plain and optimize assemblers are required")
	}

	return &RoutePlanner{
		session:  cfg.Session,
		plain:    cfg.Plain,
		optimize: cfg.Optimize,
		reverser: cfg.Reverser,
		events:   cfg.Events,
	}, nil
}

func (p *RoutePlanner) Session() *session.Session { return p.session }

// UpdateRoute parses and validates the request, then assembles and publishes
// a new route into the session.
//
// Input errors are returned before the session is touched. An all-empty
// route is still published (so exports reject it) and returns ErrEmptyRoute.
func (p *RoutePlanner) UpdateRoute(parent context.Context, req PlanRequest) (_ *PlanResult, err error) {
	defer obs.Time(parent, "planner.UpdateRoute")(&err)

	start, err := domain.ParseLatLng("start", req.Start)
	if err != nil {
		metrics.RouteUpdatesTotal.WithLabelValues("input_error").Inc()
		return nil, err
	}
	end, err := domain.ParseLatLng("end", req.End)
	if err != nil {
		metrics.RouteUpdatesTotal.WithLabelValues("input_error").Inc()
		return nil, err
	}
	stops, err := domain.ParseStops(req.Waypoints)
	if err != nil {
		metrics.RouteUpdatesTotal.WithLabelValues("input_error").Inc()
		return nil, err
	}

	ctx, tok := p.begin(parent)
	defer p.finish(tok)

	if req.Nearest {
		stops = SequenceStops(start, stops)
	}

	assembler := p.plain
	if req.Optimize {
		assembler = p.optimize
	}
	mode := assembler.Config().Mode

	route, err := assembler.Assemble(ctx, start, end, stops)
	if err != nil {
		return nil, p.failure(parent, tok, err)
	}

	st := session.State{Start: start, End: end, Stops: stops, Route: route, Mode: mode}
	if req.Describe && p.reverser != nil && !route.Empty() {
		st.Places = DescribePlaces(ctx, p.reverser, st.Points())
	}

	if err := p.session.Publish(tok, st); err != nil {
		return nil, p.failure(parent, tok, err)
	}

	if route.Empty() {
		metrics.RouteUpdatesTotal.WithLabelValues("empty").Inc()
		return nil, ErrEmptyRoute
	}

	metrics.RouteUpdatesTotal.WithLabelValues("ok").Inc()
	p.announce(ctx, st)

	return &PlanResult{
		SessionID: p.session.ID(),
		Mode:      mode,
		Route:     route,
		Points:    st.Points(),
		Places:    st.Places,
	}, nil
}

// begin cancels the in-flight update and resets the session.
func (p *RoutePlanner) begin(parent context.Context) (context.Context, session.Token) {
	ctx, cancel := context.WithCancel(parent)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	tok := p.session.Reset()
	p.inflight = tok
	p.cancel = cancel

	return ctx, tok
}

func (p *RoutePlanner) finish(tok session.Token) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inflight == tok && p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// failure classifies err. An update that failed on its own publishes an
// empty state so the session does not stay loading.
func (p *RoutePlanner) failure(parent context.Context, tok session.Token, err error) error {
	superseded := errors.Is(err, session.ErrStale) ||
		(errors.Is(err, context.Canceled) && parent.Err() == nil)
	if superseded {
		metrics.RouteUpdatesTotal.WithLabelValues("superseded").Inc()
		return ErrSuperseded
	}

	// ErrStale here means a newer update owns the session.
	_ = p.session.Publish(tok, session.State{})

	metrics.RouteUpdatesTotal.WithLabelValues("error").Inc()
	return fmt.Errorf("update route: %w", err)
}

// announce publishes a RouteEvent. Failures are logged only.
func (p *RoutePlanner) announce(ctx context.Context, st session.State) {
	if p.events == nil {
		return
	}

	event := domain.RouteEvent{
		SessionID:       p.session.ID(),
		Mode:            st.Mode,
		DistanceMeters:  st.Route.DistanceMeters,
		DurationSeconds: st.Route.DurationSeconds,
		Stops:           len(st.Stops),
		Requests:        st.Route.Requests,
		SkippedLegs:     st.Route.SkippedLegs,
		PublishedAt:     time.Now().UTC(),
	}

	if err := p.events.Publish(ctx, event); err != nil {
		logger.L().Warn("route event publish failed",
			zap.String("req_id", obs.RequestID(ctx)),
			zap.String("session_id", event.SessionID),
			zap.Error(err),
		)
	}
}
