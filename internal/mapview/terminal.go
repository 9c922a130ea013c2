package mapview

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tripmap/internal/model"
)

var (
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Bold(true)
	gridStyle   = lipgloss.NewStyle().Faint(true)
	popupStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type termMarker struct {
	pos   model.LatLng
	style MarkerStyle
}

type termPopup struct {
	markerID int
	content  string
}

// Terminal is a Widget drawn with box characters. Latitude maps to rows and
// longitude to columns; the viewport is a center plus a span.
type Terminal struct {
	center  model.LatLng
	latSpan float64
	markers map[int]termMarker
	popup   *termPopup

	// cell -> marker id from the last Render, for hit testing
	hits map[[2]int]int
}

// NewTerminal returns an empty terminal map.
func NewTerminal() *Terminal {
	return &Terminal{markers: map[int]termMarker{}, hits: map[[2]int]int{}, latSpan: levelSpan(3)}
}

func (t *Terminal) Reset(center model.LatLng, level int) {
	t.center = center
	t.latSpan = levelSpan(level)
	t.markers = map[int]termMarker{}
	t.popup = nil
	t.hits = map[[2]int]int{}
}

func (t *Terminal) AddMarker(id int, pos model.LatLng, style MarkerStyle) {
	t.markers[id] = termMarker{pos: pos, style: style}
}

func (t *Terminal) RemoveMarker(id int) {
	delete(t.markers, id)
	if t.popup != nil && t.popup.markerID == id {
		t.popup = nil
	}
}

func (t *Terminal) OpenPopup(markerID int, content string) {
	if _, ok := t.markers[markerID]; !ok {
		return
	}
	t.popup = &termPopup{markerID: markerID, content: content}
}

func (t *Terminal) ClosePopup() { t.popup = nil }

func (t *Terminal) SetCenter(pos model.LatLng) { t.center = pos }

// SetBounds centers on b and zooms so b fits with a small margin. A single
// point keeps the current zoom.
func (t *Terminal) SetBounds(b Bounds) {
	t.center = b.Center()
	lat, lng := b.Span()
	span := lat
	if lng/2 > span {
		span = lng / 2
	}
	if span > 0 {
		t.latSpan = span * 1.25
	}
}

// Center returns the viewport center.
func (t *Terminal) Center() model.LatLng { return t.center }

// MarkerCount is the number of markers currently on the map.
func (t *Terminal) MarkerCount() int { return len(t.markers) }

// Popup returns the open popup, if any.
func (t *Terminal) Popup() (markerID int, content string, ok bool) {
	if t.popup == nil {
		return 0, "", false
	}
	return t.popup.markerID, t.popup.content, true
}

// Visible reports whether pos falls inside the current viewport.
func (t *Terminal) Visible(pos model.LatLng) bool {
	latSpan, lngSpan := t.latSpan, t.latSpan*2
	return pos.Lat >= t.center.Lat-latSpan/2 && pos.Lat <= t.center.Lat+latSpan/2 &&
		pos.Lng >= t.center.Lng-lngSpan/2 && pos.Lng <= t.center.Lng+lngSpan/2
}

// MarkerAt implements HitTester over the grid of the last Render.
func (t *Terminal) MarkerAt(x, y int) (int, bool) {
	id, ok := t.hits[[2]int{x, y}]
	return id, ok
}

// Render draws the map into a width x height grid (without border) followed
// by a popup line when a popup is open.
func (t *Terminal) Render(width, height int) string {
	if width < 4 {
		width = 4
	}
	if height < 2 {
		height = 2
	}
	grid := make([][]string, height)
	for r := range grid {
		grid[r] = make([]string, width)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}
	// crosshair on the center
	grid[height/2][width/2] = gridStyle.Render("+")

	t.hits = map[[2]int]int{}
	latSpan, lngSpan := t.latSpan, t.latSpan*2
	top := t.center.Lat + latSpan/2
	left := t.center.Lng - lngSpan/2

	ids := make([]int, 0, len(t.markers))
	for id := range t.markers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	// the popup owner is drawn last so it stays on top
	if t.popup != nil {
		for i, id := range ids {
			if id == t.popup.markerID {
				ids = append(append(ids[:i:i], ids[i+1:]...), id)
				break
			}
		}
	}
	for _, id := range ids {
		mk := t.markers[id]
		if !t.Visible(mk.pos) {
			continue
		}
		col := int((mk.pos.Lng - left) / lngSpan * float64(width-1))
		row := int((top - mk.pos.Lat) / latSpan * float64(height-1))
		label := mk.style.Label
		if label == "" {
			label = "●"
		}
		st := markerStyle
		if mk.style.Color != "" {
			st = st.Foreground(lipgloss.Color(mk.style.Color))
		}
		if t.popup != nil && t.popup.markerID == id {
			st = activeStyle
		}
		for i, r := range []rune(label) {
			if col+i >= width {
				break
			}
			grid[row][col+i] = st.Render(string(r))
			t.hits[[2]int{col + i, row}] = id
		}
	}

	var b strings.Builder
	for r, cells := range grid {
		b.WriteString(strings.Join(cells, ""))
		if r < len(grid)-1 {
			b.WriteByte('\n')
		}
	}
	if t.popup != nil {
		b.WriteByte('\n')
		b.WriteString(popupStyle.Render(truncate("▲ "+t.popup.content, width)))
	}
	return b.String()
}

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 1 {
		return string(r[:w])
	}
	return string(r[:w-1]) + "…"
}
