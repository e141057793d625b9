package domain

const (
	UnknownPlace   = "Unknown Place"
	UnknownCity    = "Unknown City"
	UnknownCountry = "Unknown Country"
)

// Place describes a coordinate in human terms.
type Place struct {
	Name    string
	City    string
	Country string
}

// FallbackPlace is used when reverse geocoding fails or returns nothing.
func FallbackPlace() Place {
	return Place{Name: UnknownPlace, City: UnknownCity, Country: UnknownCountry}
}

// WithFallbacks fills any blank field with its fallback value.
func (p Place) WithFallbacks() Place {
	if p.Name == "" {
		p.Name = UnknownPlace
	}
	if p.City == "" {
		p.City = UnknownCity
	}
	if p.Country == "" {
		p.Country = UnknownCountry
	}
	return p
}

// StopPlace pairs a route marker with its reverse-geocoded description.
type StopPlace struct {
	LabeledPoint
	Place Place
}
