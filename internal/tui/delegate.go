package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tripmap/internal/model"
	"github.com/idilsaglam/tripmap/internal/render"
	"github.com/idilsaglam/tripmap/internal/selection"
)

// listItem adapts a rendered place to bubbles/list.Item. index is the
// position in the renderer, which is also the marker label.
type listItem struct {
	index int
	place model.Place
}

func (i listItem) Title() string       { return i.place.Name }
func (i listItem) Description() string { return i.place.Address }
func (i listItem) FilterValue() string { return i.place.Name }

// itemDelegate renders two lines per place: name, then address and phone.
type itemDelegate struct {
	sel *selection.State
}

func (d itemDelegate) Height() int                               { return 2 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	sym := mutedStyle.Render(symItem)
	if samePlace(d.sel.Selected(), it.place) {
		sym = pickedStyle.Render(symPicked)
	}
	label := accentStyle.Render(render.MarkerLabel(it.index) + ".")
	prefix := "  "
	name := it.place.Name
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
		name = titleStyle.Render(name)
	}
	fmt.Fprintf(w, "%s%s %s %s\n", prefix, sym, label, name)

	detail := it.place.Address
	if phone := model.Deref(it.place.Phone); phone != "" {
		detail += "  " + phone
	}
	fmt.Fprint(w, "     "+mutedStyle.Render(detail))
}

func samePlace(sel *model.Place, p model.Place) bool {
	if sel == nil {
		return false
	}
	return sel.ID == p.ID && sel.Name == p.Name && sel.Lat == p.Lat && sel.Lng == p.Lng
}
