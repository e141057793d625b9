// Package session holds the single active route of a planner.
//
// A Session is owned by one RoutePlanner and read by exporters, playback and
// the HTTP layer through Snapshot. Reset starts a new generation; Publish only
// succeeds for the current generation so a superseded update can never
// overwrite a newer one.
package session

import (
	"errors"
	"route-creator/internal/domain"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrStale = errors.New("session: publish from a superseded update")

// Token identifies the update that called Reset.
type Token uint64

// State is a copy of the session contents.
type State struct {
	Start  domain.Coordinates
	End    domain.Coordinates
	Stops  []domain.Coordinates
	Route  domain.AssembledRoute
	Mode   domain.RouteMode
	Places []domain.StopPlace

	Loading     bool
	Generation  uint64
	PublishedAt time.Time
}

// HasRoute reports whether there is a route geometry to export or play.
func (s State) HasRoute() bool { return !s.Route.Empty() }

// Points returns the labeled start, stops and end.
func (s State) Points() []domain.LabeledPoint {
	return domain.LabelPoints(s.Start, s.End, s.Stops)
}

type Session struct {
	id    string
	mu    sync.RWMutex
	gen   uint64
	state State
}

func New() *Session {
	return &Session{id: uuid.NewString()}
}

func (s *Session) ID() string { return s.id }

// Reset clears the session, marks it loading and returns the token the
// caller must present to Publish.
func (s *Session) Reset() Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.state = State{Loading: true, Generation: s.gen}
	return Token(s.gen)
}

// Publish atomically replaces the session contents and clears loading.
// It returns ErrStale if another Reset happened after tok was issued.
func (s *Session) Publish(tok Token, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if uint64(tok) != s.gen {
		return ErrStale
	}

	st = st.clone()
	st.Loading = false
	st.Generation = s.gen
	if st.PublishedAt.IsZero() {
		st.PublishedAt = time.Now()
	}
	s.state = st
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (st State) clone() State {
	out := st
	out.Stops = append([]domain.Coordinates(nil), st.Stops...)
	out.Route.Geometry = append([]domain.Coordinates(nil), st.Route.Geometry...)
	out.Places = append([]domain.StopPlace(nil), st.Places...)
	return out
}
