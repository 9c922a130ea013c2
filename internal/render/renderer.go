// Package render turns a search result into a list plus index-aligned map
// markers and keeps the two in sync.
package render

import (
	"context"
	"fmt"
	"strconv"

	"github.com/idilsaglam/tripmap/internal/apperr"
	"github.com/idilsaglam/tripmap/internal/mapview"
	"github.com/idilsaglam/tripmap/internal/model"
	"github.com/idilsaglam/tripmap/internal/search"
	"github.com/idilsaglam/tripmap/internal/selection"
)

// Item is one rendered row and the marker it owns.
type Item struct {
	Place  model.Place
	Marker *mapview.Marker
}

// PageControl is one page-number button.
type PageControl struct {
	Number  int
	Current bool
}

// Renderer owns the current result set. Marker i always belongs to item i.
type Renderer struct {
	m   *mapview.Map
	sel *selection.State

	items      []Item
	active     int
	pagination *search.Pagination
	status     string
	color      string
}

// New creates a renderer drawing on m (which may be nil) and writing picks
// to sel.
func New(m *mapview.Map, sel *selection.State) *Renderer {
	return &Renderer{m: m, sel: sel, active: -1}
}

// SetMarkerColor sets the color of markers drawn by later renders.
func (r *Renderer) SetMarkerColor(c string) { r.color = c }

// Clear removes every marker, the popup, the list and the pagination.
func (r *Renderer) Clear() {
	for _, it := range r.items {
		it.Marker.Remove()
	}
	r.m.HidePopup()
	r.items = nil
	r.pagination = nil
	r.active = -1
	r.status = ""
}

// Render replaces the current result set with res.
func (r *Renderer) Render(res *search.Result) {
	r.Clear()
	if res == nil {
		return
	}
	r.status = res.Message
	if res.Empty() {
		return
	}

	positions := make([]model.LatLng, 0, len(res.Places))
	r.items = make([]Item, 0, len(res.Places))
	for i, p := range res.Places {
		mk := r.m.PlaceMarker(p.Position(), mapview.MarkerStyle{Label: MarkerLabel(i), Color: r.color})
		r.items = append(r.items, Item{Place: p, Marker: mk})
		positions = append(positions, p.Position())
	}
	r.m.FitBounds(positions)
	r.pagination = res.Pagination
}

// MarkerLabel is the glyph drawn for item i.
func MarkerLabel(i int) string { return strconv.Itoa(i + 1) }

func (r *Renderer) Items() []Item { return r.items }

func (r *Renderer) Len() int { return len(r.items) }

// Active is the index whose popup is open, or -1.
func (r *Renderer) Active() int { return r.active }

func (r *Renderer) Status() string { return r.status }

func (r *Renderer) SetStatus(s string) { r.status = s }

// Pagination is the descriptor of the rendered result, nil if unpaged.
func (r *Renderer) Pagination() *search.Pagination { return r.pagination }

// Pages returns the page-number controls, nil when the result is unpaged.
func (r *Renderer) Pages() []PageControl {
	if r.pagination == nil {
		return nil
	}
	pages := make([]PageControl, 0, r.pagination.Last)
	for i := 1; i <= r.pagination.Last; i++ {
		pages = append(pages, PageControl{Number: i, Current: i == r.pagination.Current})
	}
	return pages
}

// HoverItem opens item i's marker popup.
func (r *Renderer) HoverItem(i int) {
	if i < 0 || i >= len(r.items) {
		return
	}
	r.active = i
	r.m.ShowPopup(r.items[i].Marker, PopupContent(r.items[i].Place))
}

// Leave closes the popup opened by a hover.
func (r *Renderer) Leave() {
	r.active = -1
	r.m.HidePopup()
}

// HoverMarker opens the popup of the marker with markerID and highlights
// its list item. It returns the item index, or -1.
func (r *Renderer) HoverMarker(markerID int) int {
	for i, it := range r.items {
		if it.Marker != nil && it.Marker.ID() == markerID {
			r.HoverItem(i)
			return i
		}
	}
	return -1
}

// Pick makes item i the selection, recenters on it and opens its popup.
func (r *Renderer) Pick(i int) (model.Place, error) {
	if i < 0 || i >= len(r.items) {
		return model.Place{}, apperr.Validation(apperr.MsgNoSelection).WithOp("pick")
	}
	p := r.items[i].Place
	r.sel.Select(p)
	r.m.SetCenter(p.Position())
	r.HoverItem(i)
	r.status = fmt.Sprintf("Selected: %s", p.Name)
	return p, nil
}

// GotoPage fetches page n through the pagination descriptor and re-renders.
// Asking for the current page does nothing.
func (r *Renderer) GotoPage(ctx context.Context, n int) error {
	if r.pagination == nil || n == r.pagination.Current {
		return nil
	}
	res, err := r.pagination.GotoPage(ctx, n)
	if err != nil {
		r.status = apperr.UserMessage(err)
		return err
	}
	r.sel.Clear()
	r.Render(res)
	return nil
}

// PopupContent is the text shown in a marker popup.
func PopupContent(p model.Place) string {
	if p.Address == "" {
		return p.Name
	}
	return p.Name + " · " + p.Address
}
