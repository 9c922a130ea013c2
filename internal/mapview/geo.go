package mapview

import (
	"math"

	"github.com/idilsaglam/tripmap/internal/model"
)

// Bounds is a lat/lng rectangle grown with Extend. The zero value is empty.
type Bounds struct {
	SW, NE model.LatLng
	set    bool
}

// NewBounds returns the bounds covering every position.
func NewBounds(positions ...model.LatLng) Bounds {
	var b Bounds
	for _, p := range positions {
		b.Extend(p)
	}
	return b
}

// Extend grows b to include p. Invalid positions are ignored.
func (b *Bounds) Extend(p model.LatLng) {
	if !p.Valid() {
		return
	}
	if !b.set {
		b.SW, b.NE, b.set = p, p, true
		return
	}
	b.SW.Lat = math.Min(b.SW.Lat, p.Lat)
	b.SW.Lng = math.Min(b.SW.Lng, p.Lng)
	b.NE.Lat = math.Max(b.NE.Lat, p.Lat)
	b.NE.Lng = math.Max(b.NE.Lng, p.Lng)
}

func (b Bounds) IsEmpty() bool { return !b.set }

func (b Bounds) Center() model.LatLng {
	return model.LatLng{Lat: (b.SW.Lat + b.NE.Lat) / 2, Lng: (b.SW.Lng + b.NE.Lng) / 2}
}

func (b Bounds) Contains(p model.LatLng) bool {
	return b.set && p.Lat >= b.SW.Lat && p.Lat <= b.NE.Lat && p.Lng >= b.SW.Lng && p.Lng <= b.NE.Lng
}

// Span returns the latitude and longitude extent.
func (b Bounds) Span() (lat, lng float64) {
	return b.NE.Lat - b.SW.Lat, b.NE.Lng - b.SW.Lng
}

// levelSpan is the latitude span shown at a zoom level. Level 1 is street
// scale and every level doubles it, like the Kakao map levels.
func levelSpan(level int) float64 {
	if level < 1 {
		level = 1
	}
	if level > 14 {
		level = 14
	}
	return 0.002 * math.Pow(2, float64(level-1))
}
