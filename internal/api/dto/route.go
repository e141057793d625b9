package dto

import (
	"route-creator/internal/domain"
	"time"
)

type RouteRequest struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Waypoints string `json:"waypoints"`
	Nearest   bool   `json:"nearest"`
	Optimize  bool   `json:"optimize"`
	Describe  bool   `json:"describe"`
}

type PointResponse struct {
	Label string  `json:"label"`
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
}

type PlaceResponse struct {
	PointResponse
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type RouteResponse struct {
	SessionID       string          `json:"session_id"`
	Mode            string          `json:"mode"`
	DistanceKm      string          `json:"distance_km"`
	DurationMinutes string          `json:"duration_minutes"`
	DistanceMeters  float64         `json:"distance_m"`
	DurationSeconds float64         `json:"duration_s"`
	Requests        int             `json:"requests"`
	SkippedLegs     int             `json:"skipped_legs"`
	Geometry        [][]float64     `json:"geometry"`
	Points          []PointResponse `json:"points"`
	Places          []PlaceResponse `json:"places,omitempty"`
}

// SessionResponse is the current session snapshot.
type SessionResponse struct {
	RouteResponse
	Loading     bool       `json:"loading"`
	Generation  uint64     `json:"generation"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func NewRouteResponse(
	sessionID string,
	mode domain.RouteMode,
	route domain.AssembledRoute,
	points []domain.LabeledPoint,
	places []domain.StopPlace,
) RouteResponse {
	res := RouteResponse{
		SessionID:       sessionID,
		Mode:            string(mode),
		DistanceKm:      route.DistanceKm(),
		DurationMinutes: route.DurationMinutes(),
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
		Requests:        route.Requests,
		SkippedLegs:     route.SkippedLegs,
		Geometry:        make([][]float64, 0, len(route.Geometry)),
		Points:          make([]PointResponse, 0, len(points)),
	}

	for _, c := range route.Geometry {
		res.Geometry = append(res.Geometry, c.CoordsToList())
	}
	for _, p := range points {
		res.Points = append(res.Points, PointResponse{Label: p.Label, Lon: p.Lon, Lat: p.Lat})
	}
	for _, p := range places {
		res.Places = append(res.Places, PlaceResponse{
			PointResponse: PointResponse{Label: p.Label, Lon: p.Lon, Lat: p.Lat},
			Name:          p.Place.Name,
			City:          p.Place.City,
			Country:       p.Place.Country,
		})
	}

	return res
}
