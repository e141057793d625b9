package dto

import "route-creator/internal/measure"

type MeasureClickRequest struct {
	Lon *float64 `json:"lon"`
	Lat *float64 `json:"lat"`
}

type MeasureResponse struct {
	State       string      `json:"state"`
	Points      [][]float64 `json:"points"`
	TotalMeters float64     `json:"total_m"`
	TotalKm     string      `json:"total_km"`
	Label       string      `json:"label,omitempty"`
}

func NewMeasureResponse(s measure.Snapshot) MeasureResponse {
	res := MeasureResponse{
		State:       s.State.String(),
		Points:      make([][]float64, 0, len(s.Points)),
		TotalMeters: s.TotalMeters,
		TotalKm:     s.TotalKm(),
		Label:       s.Label,
	}
	for _, p := range s.Points {
		res.Points = append(res.Points, p.CoordsToList())
	}
	return res
}
