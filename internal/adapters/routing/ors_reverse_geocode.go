package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"route-creator/internal/domain"
	"route-creator/internal/platform/obs"
	"strconv"
)

type reverseResponse struct {
	Features []struct {
		Properties struct {
			Label      string `json:"label"`
			Name       string `json:"name"`
			Locality   string `json:"locality"`
			LocalAdmin string `json:"localadmin"`
			County     string `json:"county"`
			Country    string `json:"country"`
		} `json:"properties"`
	} `json:"features"`
}

// Reverse describes c using /geocode/reverse. Missing fields are filled with
// the Unknown* fallbacks; no features at all is also a fallback place.
func (o *ORSProvider) Reverse(ctx context.Context, c domain.Coordinates) (_ domain.Place, err error) {
	defer obs.Time(ctx, "ors.Reverse")(&err)

	endpoint := o.baseURL + "/geocode/reverse"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("point.lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
		q.Set("point.lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Place{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	var decoded reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Place{}, fmt.Errorf("decode reverse geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.FallbackPlace(), nil
	}

	p := decoded.Features[0].Properties
	name := p.Label
	if name == "" {
		name = p.Name
	}
	city := p.Locality
	if city == "" {
		city = p.LocalAdmin
	}
	if city == "" {
		city = p.County
	}

	return domain.Place{Name: name, City: city, Country: p.Country}.WithFallbacks(), nil
}
