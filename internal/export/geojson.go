package export

import (
	"fmt"
	"route-creator/internal/session"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSON renders a FeatureCollection with the route line and one point per stop.
func GeoJSON(st session.State) ([]byte, error) {
	if err := requireRoute(st); err != nil {
		return nil, err
	}

	line := make(orb.LineString, 0, len(st.Route.Geometry))
	for _, c := range st.Route.Geometry {
		line = append(line, orb.Point{c.Lon, c.Lat})
	}

	fc := geojson.NewFeatureCollection()

	route := geojson.NewFeature(line)
	route.Properties["name"] = "Route"
	route.Properties["distance_m"] = st.Route.DistanceMeters
	route.Properties["duration_s"] = st.Route.DurationSeconds
	route.Properties["mode"] = string(st.Mode)
	fc.Append(route)

	for i, p := range st.Points() {
		f := geojson.NewFeature(orb.Point{p.Lon, p.Lat})
		f.Properties["name"] = p.Label
		if i < len(st.Places) {
			f.Properties["place"] = st.Places[i].Place.Name
			f.Properties["city"] = st.Places[i].Place.City
			f.Properties["country"] = st.Places[i].Place.Country
		}
		fc.Append(f)
	}

	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}
	return b, nil
}
