package model

import "math"

// LatLng is a WGS84 position.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both coordinates are finite and in range.
func (p LatLng) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Place is a normalized point of interest. It only lives on the client until
// it is submitted; the server owns it afterwards.
type Place struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Lat      float64 `json:"lat" validate:"latitude"`
	Lng      float64 `json:"lng" validate:"longitude"`
	Phone    *string `json:"phone"`
	URL      *string `json:"url"`
	Category *string `json:"category"`
}

// Position returns the place coordinates.
func (p Place) Position() LatLng { return LatLng{Lat: p.Lat, Lng: p.Lng} }

// HasCoords reports whether the place can be put on a map.
func (p Place) HasCoords() bool { return p.Position().Valid() }

// Opt turns an empty string into nil so it serializes as JSON null.
func Opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
