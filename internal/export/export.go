// Package export renders a published route as downloadable files.
package export

import (
	"errors"
	"fmt"
	"route-creator/internal/session"
	"strconv"
	"strings"
)

var (
	ErrNoRoute       = errors.New("no route available to export")
	ErrUnknownFormat = errors.New("unknown export format")
)

// Artifact is a rendered export file.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

type renderer struct {
	filename    string
	contentType string
	render      func(session.State) ([]byte, error)
}

var formats = map[string]renderer{
	"kml":     {"route.kml", "application/vnd.google-earth.kml+xml", KML},
	"kmz":     {"route.kmz", "application/vnd.google-earth.kmz", KMZ},
	"csv":     {"route.csv", "text/csv", CSV},
	"geojson": {"route.geojson", "application/geo+json", GeoJSON},
}

// Render produces the artifact for format ("kml", "kmz", "csv" or "geojson").
func Render(format string, st session.State) (Artifact, error) {
	r, ok := formats[strings.ToLower(format)]
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	data, err := r.render(st)
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{Filename: r.filename, ContentType: r.contentType, Data: data}, nil
}

func requireRoute(st session.State) error {
	if !st.HasRoute() {
		return ErrNoRoute
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
