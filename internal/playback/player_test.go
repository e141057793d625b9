package playback

import (
	"route-creator/internal/domain"
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu       sync.Mutex
	moves    []domain.Coordinates
	released int
}

func (s *recordingSink) Move(c domain.Coordinates) {
	s.mu.Lock()
	s.moves = append(s.moves, c)
	s.mu.Unlock()
}

func (s *recordingSink) Release() {
	s.mu.Lock()
	s.released++
	s.mu.Unlock()
}

func (s *recordingSink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.moves), s.released
}

func waitDone(t *testing.T, p *Player) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("playback did not finish")
	}
}

func TestPlaybackRunsToCompletion(t *testing.T) {
	p := NewPlayer(Options{StepMeters: 1, FrameInterval: time.Millisecond})
	sink := &recordingSink{}

	// About 11.1 m between the points.
	geometry := []domain.Coordinates{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 0.0001}}
	if !p.Toggle(geometry, sink) {
		t.Fatalf("toggle should start playback")
	}
	waitDone(t, p)

	moves, released := sink.counts()
	if moves != 11 {
		t.Fatalf("moves = %d, want 11", moves)
	}
	if released != 1 {
		t.Fatalf("released = %d, want 1", released)
	}
	if sink.moves[0] != geometry[0] {
		t.Fatalf("first frame should be the segment start")
	}
	if p.Playing() {
		t.Fatalf("player should be idle")
	}
}

func TestToggleStopsSynchronously(t *testing.T) {
	p := NewPlayer(Options{StepMeters: 0.35, FrameInterval: time.Millisecond})
	sink := &recordingSink{}

	geometry := []domain.Coordinates{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}}
	p.Toggle(geometry, sink)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if n, _ := sink.counts(); n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no frames produced")
		}
		time.Sleep(time.Millisecond)
	}

	if p.Toggle(geometry, sink) {
		t.Fatalf("second toggle should stop playback")
	}

	movesAtStop, released := sink.counts()
	if released != 1 {
		t.Fatalf("marker must be released before toggle returns, released=%d", released)
	}

	time.Sleep(20 * time.Millisecond)
	if moves, _ := sink.counts(); moves != movesAtStop {
		t.Fatalf("frames produced after stop: %d -> %d", movesAtStop, moves)
	}
}

func TestToggleAfterCompletionRestarts(t *testing.T) {
	p := NewPlayer(Options{StepMeters: 5, FrameInterval: time.Millisecond})
	sink := &recordingSink{}
	geometry := []domain.Coordinates{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 0.0001}}

	p.Toggle(geometry, sink)
	waitDone(t, p)

	if !p.Toggle(geometry, sink) {
		t.Fatalf("toggle after completion should start a new run")
	}
	waitDone(t, p)

	if _, released := sink.counts(); released != 2 {
		t.Fatalf("released = %d, want 2", released)
	}
}

func TestShortGeometryReleasesImmediately(t *testing.T) {
	p := NewPlayer(Options{})
	sink := &recordingSink{}

	p.Toggle([]domain.Coordinates{{Lon: 1, Lat: 1}}, sink)
	waitDone(t, p)

	moves, released := sink.counts()
	if moves != 0 || released != 1 {
		t.Fatalf("moves=%d released=%d", moves, released)
	}
}

func TestStopWhenIdle(t *testing.T) {
	p := NewPlayer(Options{})
	p.Stop()
	if p.Playing() {
		t.Fatalf("idle player should not be playing")
	}
}
