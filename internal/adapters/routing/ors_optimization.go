package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"route-creator/internal/domain"
)

type optimizationJob struct {
	ID       int       `json:"id"`
	Location []float64 `json:"location"`
}

type optimizationVehicle struct {
	ID      int       `json:"id"`
	Profile string    `json:"profile"`
	Start   []float64 `json:"start"`
	End     []float64 `json:"end"`
}

type optimizationRequest struct {
	Jobs     []optimizationJob     `json:"jobs"`
	Vehicles []optimizationVehicle `json:"vehicles"`
	Options  struct {
		G bool `json:"g"`
	} `json:"options"`
}

type optimizationResponse struct {
	Code   int `json:"code"`
	Routes *[]struct {
		Vehicle  int     `json:"vehicle"`
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"routes"`
}

// optimize asks the optimization endpoint for the best visiting order of the
// intermediate points, with the first and last points fixed as vehicle start
// and end. Only the returned geometry and totals are used.
func (o *ORSProvider) optimize(ctx context.Context, points []domain.Coordinates) (domain.RouteLeg, error) {
	endpoint := o.baseURL + "/optimization"

	body := optimizationRequest{
		Vehicles: []optimizationVehicle{{
			ID:      1,
			Profile: o.profile,
			Start:   points[0].CoordsToList(),
			End:     points[len(points)-1].CoordsToList(),
		}},
	}
	for i, p := range points[1 : len(points)-1] {
		body.Jobs = append(body.Jobs, optimizationJob{ID: i + 1, Location: p.CoordsToList()})
	}
	body.Options.G = true

	payload, err := json.Marshal(body)
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("marshal optimization request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("optimization request failed: %w", err)
	}
	defer resp.Body.Close()

	var opt optimizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&opt); err != nil {
		return domain.RouteLeg{}, fmt.Errorf("decode optimization response: %w", err)
	}

	if opt.Routes == nil {
		return domain.RouteLeg{}, fmt.Errorf("%w: missing routes (code %d)", ErrMalformedResponse, opt.Code)
	}
	if len(*opt.Routes) == 0 {
		return domain.RouteLeg{}, ErrNoRoute
	}

	r := (*opt.Routes)[0]
	geometry, err := decodeGeometry(r.Geometry)
	if err != nil {
		return domain.RouteLeg{}, err
	}

	return domain.RouteLeg{
		Geometry:        geometry,
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
	}, nil
}
