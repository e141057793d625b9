package domain

import "time"

// RouteEvent announces that a route was published into a session.
type RouteEvent struct {
	SessionID       string    `json:"session_id"`
	Mode            RouteMode `json:"mode"`
	DistanceMeters  float64   `json:"distance_m"`
	DurationSeconds float64   `json:"duration_s"`
	Stops           int       `json:"stops"`
	Requests        int       `json:"requests"`
	SkippedLegs     int       `json:"skipped_legs"`
	PublishedAt     time.Time `json:"published_at"`
}
