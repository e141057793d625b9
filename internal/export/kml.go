package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"route-creator/internal/session"
	"strings"
)

type kmlRoot struct {
	XMLName  xml.Name    `xml:"kml"`
	Xmlns    string      `xml:"xmlns,attr"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Name       string         `xml:"name"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name       string     `xml:"name"`
	LineString *kmlCoords `xml:"LineString,omitempty"`
	Point      *kmlCoords `xml:"Point,omitempty"`
}

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

// KML renders a KML 2.2 document: a "Route" LineString followed by one Point
// placemark per labeled stop.
func KML(st session.State) ([]byte, error) {
	if err := requireRoute(st); err != nil {
		return nil, err
	}

	tuples := make([]string, 0, len(st.Route.Geometry))
	for _, c := range st.Route.Geometry {
		tuples = append(tuples, formatFloat(c.Lon)+","+formatFloat(c.Lat))
	}

	doc := kmlRoot{
		Xmlns: "http://www.opengis.net/kml/2.2",
		Document: kmlDocument{
			Name: "Route",
			Placemarks: []kmlPlacemark{{
				Name:       "Route",
				LineString: &kmlCoords{Coordinates: strings.Join(tuples, " ")},
			}},
		},
	}

	for _, p := range st.Points() {
		doc.Document.Placemarks = append(doc.Document.Placemarks, kmlPlacemark{
			Name:  p.Label,
			Point: &kmlCoords{Coordinates: formatFloat(p.Lon) + "," + formatFloat(p.Lat)},
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode kml: %w", err)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// KMZ wraps the KML document in a zip archive as route.kml.
func KMZ(st session.State) ([]byte, error) {
	doc, err := KML(st)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("route.kml")
	if err != nil {
		return nil, fmt.Errorf("create kmz entry: %w", err)
	}
	if _, err := w.Write(doc); err != nil {
		return nil, fmt.Errorf("write kmz entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close kmz: %w", err)
	}

	return buf.Bytes(), nil
}
