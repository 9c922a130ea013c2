// Package groupmap puts the places already saved in a group on the map.
package groupmap

import (
	"context"
	"fmt"

	"github.com/idilsaglam/tripmap/internal/apperr"
	"github.com/idilsaglam/tripmap/internal/backend"
	"github.com/idilsaglam/tripmap/internal/mapview"
	"github.com/idilsaglam/tripmap/internal/model"
	"github.com/idilsaglam/tripmap/internal/render"
)

type listing struct {
	Places []model.GroupPlace `json:"places"`
}

// Load fetches the group's places from the listing URL.
func Load(ctx context.Context, api *backend.Client, placesURL string) ([]model.GroupPlace, error) {
	if placesURL == "" {
		return nil, apperr.Validation("places listing URL is not configured (TRIPMAP_PLACES_URL)")
	}
	resp, err := api.GetJSON(ctx, placesURL)
	if err != nil {
		return nil, apperr.Network(err).WithOp("group places")
	}
	if !resp.OK() {
		return nil, apperr.Server(resp.Status, fmt.Sprintf("Could not load the group's places (status %d).", resp.Status))
	}
	var body listing
	if err := resp.Decode(&body); err != nil {
		return nil, apperr.Server(resp.Status, "Could not read the group's places.")
	}
	return body.Places, nil
}

// Layer is the set of markers drawn for a group.
type Layer struct {
	m       *mapview.Map
	places  []model.GroupPlace
	markers []*mapview.Marker
}

// Show draws one marker per place and fits the map to them. Nothing is drawn
// for an empty list.
func Show(m *mapview.Map, places []model.GroupPlace) *Layer {
	l := &Layer{m: m}
	if len(places) == 0 {
		return l
	}
	positions := make([]model.LatLng, 0, len(places))
	for _, p := range places {
		if !p.Position().Valid() {
			continue
		}
		mk := m.PlaceMarker(p.Position(), mapview.MarkerStyle{Label: render.MarkerLabel(len(l.places))})
		l.places = append(l.places, p)
		l.markers = append(l.markers, mk)
		positions = append(positions, p.Position())
	}
	m.FitBounds(positions)
	return l
}

func (l *Layer) Places() []model.GroupPlace { return l.places }

// Open shows the popup of place i (a marker click).
func (l *Layer) Open(i int) {
	if i < 0 || i >= len(l.markers) {
		return
	}
	p := l.places[i]
	content := p.Name
	if p.Address != "" {
		content += " · " + p.Address
	}
	l.m.ShowPopup(l.markers[i], content)
}

// OpenMarker opens the popup of the marker with markerID.
func (l *Layer) OpenMarker(markerID int) int {
	for i, mk := range l.markers {
		if mk != nil && mk.ID() == markerID {
			l.Open(i)
			return i
		}
	}
	return -1
}
