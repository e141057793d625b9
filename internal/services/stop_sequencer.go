package services

import (
	"math"
	"route-creator/internal/domain"
	"route-creator/internal/geo"
)

// SequenceStops orders stops with a greedy nearest-neighbor walk from origin.
//
// At each step the closest remaining stop (great-circle distance from the last
// placed point) is chosen. Ties go to the stop that appears first in the input.
// It does not attempt global route optimization; the result is a heuristic
// ordering, not an optimal tour. The input slice is left untouched.
func SequenceStops(origin domain.Coordinates, stops []domain.Coordinates) []domain.Coordinates {
	remaining := make([]domain.Coordinates, len(stops))
	copy(remaining, stops)

	ordered := make([]domain.Coordinates, 0, len(stops))
	current := origin

	for len(remaining) > 0 {
		best := -1
		minDist := math.Inf(1)

		// Strict comparison keeps the earliest stop on ties.
		for i, s := range remaining {
			d := geo.DistanceMeters(current, s)
			if d < minDist {
				minDist = d
				best = i
			}
		}

		current = remaining[best]
		ordered = append(ordered, current)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return ordered
}
