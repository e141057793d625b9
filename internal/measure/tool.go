// Package measure implements the distance measurement tool.
package measure

import (
	"fmt"
	"route-creator/internal/domain"
	"route-creator/internal/geo"
	"sync"
)

type State int

const (
	Inactive State = iota
	Collecting
	Finished
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Finished:
		return "finished"
	default:
		return "inactive"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Snapshot is a copy of the tool state.
type Snapshot struct {
	State       State                `json:"state"`
	Points      []domain.Coordinates `json:"points"`
	TotalMeters float64              `json:"total_m"`
	Label       string               `json:"label"`
}

// TotalKm formats the running total in kilometers with 2 decimals.
func (s Snapshot) TotalKm() string {
	return fmt.Sprintf("%.2f", s.TotalMeters/1000)
}

// Tool is a single measurement session. The zero value is inactive and ready.
//
// Inactive -> Collecting on Start or Toggle.
// Collecting -> Finished on DoubleClick or Toggle.
// Finished -> Inactive on the next Click, which clears the points.
type Tool struct {
	mu     sync.Mutex
	state  State
	points []domain.Coordinates
	total  float64
}

func New() *Tool { return &Tool{} }

// Start begins collecting. Points left over from a finished measurement are cleared.
func (t *Tool) Start() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startLocked()
	return t.snapshotLocked()
}

// Click adds a point while collecting. After a finished measurement it
// clears the tool instead. Clicks while inactive are ignored.
func (t *Tool) Click(c domain.Coordinates) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case Collecting:
		if n := len(t.points); n > 0 {
			t.total += geo.DistanceMeters(t.points[n-1], c)
		}
		t.points = append(t.points, c)
	case Finished:
		t.clearLocked()
		t.state = Inactive
	}
	return t.snapshotLocked()
}

// DoubleClick finishes an in-progress measurement.
func (t *Tool) DoubleClick() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.finishLocked()
	return t.snapshotLocked()
}

// Toggle starts a measurement, or finishes the one being collected.
func (t *Tool) Toggle() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == Collecting {
		t.finishLocked()
	} else {
		t.startLocked()
	}
	return t.snapshotLocked()
}

func (t *Tool) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clearLocked()
	t.state = Inactive
}

func (t *Tool) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tool) startLocked() {
	if t.state == Finished {
		t.clearLocked()
	}
	t.state = Collecting
}

func (t *Tool) finishLocked() {
	if t.state == Collecting {
		t.state = Finished
	}
}

func (t *Tool) clearLocked() {
	t.points = nil
	t.total = 0
}

func (t *Tool) snapshotLocked() Snapshot {
	s := Snapshot{
		State:       t.state,
		Points:      append([]domain.Coordinates{}, t.points...),
		TotalMeters: t.total,
	}
	if len(t.points) > 1 {
		switch t.state {
		case Collecting:
			s.Label = s.TotalKm() + " km"
		case Finished:
			s.Label = "Total Distance: " + s.TotalKm() + " km"
		}
	}
	return s
}
