package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"route-creator/internal/domain"
)

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
}

type directionsResponse struct {
	Routes *[]struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

// directions routes through points in order using /v2/directions/{profile}.
func (o *ORSProvider) directions(ctx context.Context, points []domain.Coordinates) (domain.RouteLeg, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	payload, err := json.Marshal(directionsRequest{Coordinates: toLists(points)})
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return domain.RouteLeg{}, fmt.Errorf("decode directions response: %w", err)
	}

	if dr.Routes == nil {
		return domain.RouteLeg{}, fmt.Errorf("%w: missing routes", ErrMalformedResponse)
	}
	if len(*dr.Routes) == 0 {
		return domain.RouteLeg{}, ErrNoRoute
	}

	r := (*dr.Routes)[0]
	geometry, err := decodeGeometry(r.Geometry)
	if err != nil {
		return domain.RouteLeg{}, err
	}

	return domain.RouteLeg{
		Geometry:        geometry,
		DistanceMeters:  r.Summary.Distance,
		DurationSeconds: r.Summary.Duration,
	}, nil
}
