package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"route-creator/internal/domain"
	"route-creator/internal/platform/metrics"
	"route-creator/internal/platform/obs"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"
)

var (
	ErrNoRoute           = errors.New("no route returned")
	ErrMalformedResponse = errors.New("malformed route response")
	ErrTooFewPoints      = errors.New("at least two points are required")
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

type ORSConfig struct {
	APIKey  string
	BaseURL string
	Profile string
	Timeout time.Duration
}

// ORSProvider implements RouteProvider and ReverseGeocoder using OpenRouteService.
//
// Plain requests go to the directions endpoint; optimize requests go to the
// optimization endpoint with geometry enabled. Transient failures are retried
// with backoff. The provider is safe for concurrent use.
type ORSProvider struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	profile     string
	maxAttempts int
	backoff     time.Duration
}

func NewORSProvider(cfg ORSConfig) (*ORSProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultORSBaseURL
	}
	if cfg.Profile == "" {
		cfg.Profile = "driving-car"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	provider := &ORSProvider{
		session:     &http.Client{Timeout: cfg.Timeout},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		profile:     cfg.Profile,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}

	return provider, nil
}

// Route requests a leg through points. On any failure it returns an empty leg
// and an error carrying the point count and mode.
func (o *ORSProvider) Route(
	ctx context.Context,
	points []domain.Coordinates,
	mode domain.RouteMode,
) (_ domain.RouteLeg, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	if len(points) < 2 {
		return domain.RouteLeg{}, fmt.Errorf("ors route points=%d mode=%s: %w", len(points), mode, ErrTooFewPoints)
	}

	start := time.Now()

	var leg domain.RouteLeg
	// The optimization endpoint needs at least one job between the ends.
	if mode == domain.ModeOptimize && len(points) > 2 {
		leg, err = o.optimize(ctx, points)
	} else {
		leg, err = o.directions(ctx, points)
	}

	metrics.ProviderDurationMs.WithLabelValues(string(mode)).Observe(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(string(mode), "error").Inc()
		return domain.RouteLeg{}, fmt.Errorf("ors route points=%d mode=%s: %w", len(points), mode, err)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(string(mode), "ok").Inc()
	return leg, nil
}

// decodeGeometry turns an encoded polyline (precision 5) into coordinates.
func decodeGeometry(encoded string) ([]domain.Coordinates, error) {
	if encoded == "" {
		return nil, fmt.Errorf("%w: empty geometry", ErrMalformedResponse)
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode geometry: %w", err)
	}

	out := make([]domain.Coordinates, 0, len(coords))
	for _, c := range coords {
		if len(c) != 2 {
			return nil, fmt.Errorf("%w: coordinate has %d values", ErrMalformedResponse, len(c))
		}
		// Polyline pairs are (lat, lng).
		out = append(out, domain.Coordinates{Lon: c[1], Lat: c[0]})
	}

	return out, nil
}

func toLists(points []domain.Coordinates) [][]float64 {
	out := make([][]float64, 0, len(points))
	for _, p := range points {
		out = append(out, p.CoordsToList())
	}
	return out
}
