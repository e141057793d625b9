// Package playback animates a marker along a route geometry.
package playback

import (
	"context"
	"math"
	"route-creator/internal/domain"
	"route-creator/internal/geo"
	"sync"
	"time"
)

// Sink receives marker positions. Release is called exactly once when a
// playback run ends, whether stopped or completed.
type Sink interface {
	Move(c domain.Coordinates)
	Release()
}

type Options struct {
	// StepMeters is the distance covered per frame along a segment.
	StepMeters float64
	// FrameInterval is the delay between frames.
	FrameInterval time.Duration
}

func DefaultOptions() Options {
	return Options{StepMeters: 0.35, FrameInterval: 16 * time.Millisecond}
}

// Player runs at most one playback loop at a time.
type Player struct {
	opts Options

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPlayer(opts Options) *Player {
	d := DefaultOptions()
	if opts.StepMeters <= 0 {
		opts.StepMeters = d.StepMeters
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = d.FrameInterval
	}
	return &Player{opts: opts}
}

// Toggle starts playback along geometry when idle and stops it when playing.
// Stopping cancels the loop and waits for the marker to be released before
// returning. It reports whether playback was started.
func (p *Player) Toggle(geometry []domain.Coordinates, sink Sink) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.runningLocked() {
		p.stopLocked()
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	path := append([]domain.Coordinates(nil), geometry...)
	go p.run(ctx, path, sink, done)

	return true
}

// Stop ends playback, if any, and waits for the marker release.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done != nil {
		p.stopLocked()
	}
}

// Playing reports whether a playback loop is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runningLocked()
}

// Done is closed when the current run ends. It is already closed when idle.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done == nil {
		c := make(chan struct{})
		close(c)
		return c
	}
	return p.done
}

func (p *Player) runningLocked() bool {
	if p.done == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *Player) stopLocked() {
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
}

func (p *Player) run(ctx context.Context, path []domain.Coordinates, sink Sink, done chan struct{}) {
	defer close(done)
	defer sink.Release()

	ticker := time.NewTicker(p.opts.FrameInterval)
	defer ticker.Stop()

	for i := 0; i+1 < len(path); i++ {
		start, end := path[i], path[i+1]
		steps := int(math.Floor(geo.DistanceMeters(start, end) / p.opts.StepMeters))

		for s := 0; s < steps; s++ {
			if ctx.Err() != nil {
				return
			}
			sink.Move(geo.Interpolate(start, end, float64(s)/float64(steps)))

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}
}
