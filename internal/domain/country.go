package domain

import "strings"

// Country is one entry of the destination picker.
type Country struct {
	// Name is the display label, flag emoji followed by the common name.
	Name          string     `json:"name"`
	Value         string     `json:"value"`
	Coordinates   [2]float64 `json:"coordinates"`
	OpenStreetMap string     `json:"openStreetMap"`
}

// NewCountry builds a picker entry. Missing coordinates become [0, 0].
func NewCountry(commonName, flag string, latlng []float64, openStreetMap string) Country {
	c := Country{
		Name:          strings.TrimSpace(flag + " " + commonName),
		Value:         commonName,
		OpenStreetMap: openStreetMap,
	}
	if len(latlng) >= 2 {
		c.Coordinates = [2]float64{latlng[0], latlng[1]}
	}
	return c
}

// FallbackCountries is served when the country catalogue is unavailable.
func FallbackCountries() []Country {
	return []Country{{
		Name:          "🇺🇸 United States",
		Value:         "United States",
		Coordinates:   [2]float64{37.09024, -95.712891},
		OpenStreetMap: "https://www.openstreetmap.org/relation/148838",
	}}
}
