package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Valid reports whether latitude is within [-90, 90] and longitude within [-180, 180].
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// LatLngString renders the coordinate the way users type it: "lat, lng" with 6 decimals.
func (c Coordinates) LatLngString() string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lon)
}

// ParseLatLng parses user text of the form "lat,lng".
func ParseLatLng(field, s string) (Coordinates, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Coordinates{}, &InputError{Field: field, Value: s, Reason: "expected \"lat,lng\""}
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinates{}, &InputError{Field: field, Value: s, Reason: "latitude is not a number"}
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinates{}, &InputError{Field: field, Value: s, Reason: "longitude is not a number"}
	}

	c := Coordinates{Lon: lng, Lat: lat}
	if !c.Valid() {
		return Coordinates{}, &InputError{Field: field, Value: s, Reason: "coordinate out of range"}
	}
	return c, nil
}

// ParseStops parses a ';' separated list of "lat,lng" pairs.
// Blank segments are skipped; any malformed segment fails the whole list.
func ParseStops(s string) ([]Coordinates, error) {
	stops := []Coordinates{}
	n := 0
	for _, seg := range strings.Split(s, ";") {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		n++
		c, err := ParseLatLng(fmt.Sprintf("waypoint %d", n), seg)
		if err != nil {
			return nil, err
		}
		stops = append(stops, c)
	}
	return stops, nil
}

// Key rounds the coordinate to 5 decimals (about one meter) for cache lookups.
func (c Coordinates) Key() string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon)
}
