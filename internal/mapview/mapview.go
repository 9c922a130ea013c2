// Package mapview adapts a map widget: markers, a single popup, centering
// and bounds fitting. The widget owns all map state; a Map only hands out
// marker handles.
package mapview

import "github.com/idilsaglam/tripmap/internal/model"

// MarkerStyle controls how a marker is drawn.
type MarkerStyle struct {
	Label string // short glyph, e.g. the list index
	Color string // lipgloss color, empty for the theme default
}

// Widget is the map widget surface the adapter drives.
type Widget interface {
	Reset(center model.LatLng, level int)
	AddMarker(id int, pos model.LatLng, style MarkerStyle)
	RemoveMarker(id int)
	// OpenPopup replaces any open popup.
	OpenPopup(markerID int, content string)
	ClosePopup()
	SetCenter(pos model.LatLng)
	SetBounds(b Bounds)
}

// HitTester is implemented by widgets that can map a screen cell to a marker.
type HitTester interface {
	MarkerAt(x, y int) (id int, ok bool)
}

// Map is a handle on an initialized widget. A nil *Map is valid and every
// method on it is a no-op, so callers never need to check whether a map is
// shown.
type Map struct {
	w      Widget
	nextID int
}

// Marker is a handle on one widget marker.
type Marker struct {
	id  int
	pos model.LatLng
	m   *Map
}

// CreateMap initializes container at center/level. It returns nil when
// there is no container.
func CreateMap(container Widget, center model.LatLng, level int) *Map {
	if container == nil {
		return nil
	}
	container.Reset(center, level)
	return &Map{w: container}
}

// PlaceMarker adds a marker at pos.
func (m *Map) PlaceMarker(pos model.LatLng, style MarkerStyle) *Marker {
	if m == nil {
		return nil
	}
	m.nextID++
	mk := &Marker{id: m.nextID, pos: pos, m: m}
	m.w.AddMarker(mk.id, pos, style)
	return mk
}

// ShowPopup opens content on marker, closing whichever popup was open.
func (m *Map) ShowPopup(mk *Marker, content string) {
	if m == nil || mk == nil {
		return
	}
	m.w.OpenPopup(mk.id, content)
}

func (m *Map) HidePopup() {
	if m == nil {
		return
	}
	m.w.ClosePopup()
}

func (m *Map) SetCenter(pos model.LatLng) {
	if m == nil {
		return
	}
	m.w.SetCenter(pos)
}

// FitBounds moves the viewport to cover positions; empty input is a no-op.
func (m *Map) FitBounds(positions []model.LatLng) {
	if m == nil || len(positions) == 0 {
		return
	}
	b := NewBounds(positions...)
	if b.IsEmpty() {
		return
	}
	m.w.SetBounds(b)
}

// MarkerIDAt asks the widget which marker is drawn at screen cell x,y.
func (m *Map) MarkerIDAt(x, y int) (int, bool) {
	if m == nil {
		return 0, false
	}
	ht, ok := m.w.(HitTester)
	if !ok {
		return 0, false
	}
	return ht.MarkerAt(x, y)
}

// ID identifies the marker within its map.
func (mk *Marker) ID() int {
	if mk == nil {
		return 0
	}
	return mk.id
}

func (mk *Marker) Position() model.LatLng {
	if mk == nil {
		return model.LatLng{}
	}
	return mk.pos
}

// Remove takes the marker off the map.
func (mk *Marker) Remove() {
	if mk == nil || mk.m == nil {
		return
	}
	mk.m.w.RemoveMarker(mk.id)
	mk.m = nil
}
