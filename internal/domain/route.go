package domain

import "fmt"

// RouteMode selects how the routing provider is asked for a path.
type RouteMode string

const (
	// ModePlain routes through the points in the given order.
	ModePlain RouteMode = "plain"
	// ModeOptimize lets the provider reorder intermediate points.
	ModeOptimize RouteMode = "optimize"
)

// Maximum number of points (including both ends) accepted per provider request.
const (
	PlainModeCap    = 25
	OptimizeModeCap = 9
)

// Cap returns the default per-request point cap for the mode.
func (m RouteMode) Cap() int {
	if m == ModeOptimize {
		return OptimizeModeCap
	}
	return PlainModeCap
}

// RouteLeg is the normalized result of one provider request.
// An empty geometry means the leg failed or returned nothing.
type RouteLeg struct {
	Geometry        []Coordinates
	DistanceMeters  float64
	DurationSeconds float64
}

func (l RouteLeg) Empty() bool { return len(l.Geometry) == 0 }

// Last returns the terminal coordinate of the leg geometry.
// Callers must check Empty first.
func (l RouteLeg) Last() Coordinates { return l.Geometry[len(l.Geometry)-1] }

// AssembledRoute is the stitched result of one or more legs.
type AssembledRoute struct {
	Geometry        []Coordinates
	DistanceMeters  float64
	DurationSeconds float64

	// Requests is the number of provider calls issued.
	Requests int
	// SkippedLegs counts legs that failed or came back empty.
	SkippedLegs int
}

func (r AssembledRoute) Empty() bool { return len(r.Geometry) == 0 }

// DistanceKm formats the total distance in kilometers with 2 decimals.
func (r AssembledRoute) DistanceKm() string {
	return fmt.Sprintf("%.2f", r.DistanceMeters/1000)
}

// DurationMinutes formats the total duration in minutes with 2 decimals.
func (r AssembledRoute) DurationMinutes() string {
	return fmt.Sprintf("%.2f", r.DurationSeconds/60)
}

// LabeledPoint is a route marker: "Start", "Stop N" or "End".
type LabeledPoint struct {
	Label string
	Coordinates
}

// LabelPoints returns start, every stop and end in visit order.
func LabelPoints(start, end Coordinates, stops []Coordinates) []LabeledPoint {
	out := make([]LabeledPoint, 0, len(stops)+2)
	out = append(out, LabeledPoint{Label: "Start", Coordinates: start})
	for i, s := range stops {
		out = append(out, LabeledPoint{Label: fmt.Sprintf("Stop %d", i+1), Coordinates: s})
	}
	out = append(out, LabeledPoint{Label: "End", Coordinates: end})
	return out
}
