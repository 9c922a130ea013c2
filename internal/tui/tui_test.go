package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tripmap/internal/logger"
	"github.com/idilsaglam/tripmap/internal/mapview"
	"github.com/idilsaglam/tripmap/internal/model"
	"github.com/idilsaglam/tripmap/internal/render"
	"github.com/idilsaglam/tripmap/internal/search"
	"github.com/idilsaglam/tripmap/internal/selection"
	"github.com/idilsaglam/tripmap/internal/workflow"
)

type towerProvider struct{}

func (towerProvider) Name() string { return "tower" }

func (towerProvider) Search(_ context.Context, q search.Query) (*search.Result, error) {
	return &search.Result{Places: []model.Place{
		{ID: "1", Name: "N Seoul Tower", Address: "Seoul", Lat: 37.5512, Lng: 126.9882},
		{ID: "2", Name: "Namsan Park", Address: "Seoul", Lat: 37.5502, Lng: 126.9900},
	}}, nil
}

func newScreen(t *testing.T) Model {
	t.Helper()
	term := mapview.NewTerminal()
	m := mapview.CreateMap(term, model.LatLng{Lat: 37.5665, Lng: 126.978}, 3)
	sel := selection.New()
	redirect := &Redirect{}
	ctrl := workflow.New(workflow.Deps{
		Search:    search.NewClient(towerProvider{}, logger.Nop()),
		Renderer:  render.New(m, sel),
		Selection: sel,
		Navigator: redirect,
		Log:       logger.Nop(),
	})
	return New(context.Background(), ctrl, term, m, redirect, Options{Query: "tower"})
}

// step feeds msg to the model and runs the returned command once, feeding
// its message back when it is one of ours.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	switch out := cmd().(type) {
	case searchDoneMsg, submitDoneMsg:
		next, _ = m.Update(out)
		m = next.(Model)
	}
	return m
}

func TestSearchThenPick(t *testing.T) {
	m := newScreen(t)
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.focus != focusList {
		t.Fatalf("expected focus on the result list after a search")
	}
	if len(m.list.Items()) != 2 || m.term.MarkerCount() != 2 {
		t.Fatalf("expected 2 items and markers, got %d/%d", len(m.list.Items()), m.term.MarkerCount())
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sel := m.ctrl.Selection().Selected()
	if sel == nil || sel.Name != "N Seoul Tower" {
		t.Fatalf("expected the first result picked, got %+v", sel)
	}

	view := m.View()
	if !strings.Contains(view, "N Seoul Tower") || !strings.Contains(view, "Selected: N Seoul Tower") {
		t.Fatalf("expected the pick in the view:\n%s", view)
	}
}

func TestTabTogglesMode(t *testing.T) {
	m := newScreen(t)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.mode != search.ModeAddress {
		t.Fatalf("expected address mode, got %q", m.mode)
	}
}

func TestTypeCycles(t *testing.T) {
	m := newScreen(t)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	before := m.placeType
	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if m.placeType != before.Next() {
		t.Fatalf("expected %s after %s, got %s", before.Next(), before, m.placeType)
	}
}

func TestPointerLeavingMarkerClosesPopup(t *testing.T) {
	m := newScreen(t)
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	_ = m.View()

	_, mapW, mapH := m.layout()
	ox, oy := m.mapOrigin()
	hx, hy, found := 0, 0, false
	for y := 0; y < mapH && !found; y++ {
		for x := 0; x < mapW && !found; x++ {
			if _, ok := m.term.MarkerAt(x, y); ok {
				hx, hy, found = x, y, true
			}
		}
	}
	if !found {
		t.Fatalf("expected a marker on the rendered map")
	}

	m = step(t, m, tea.MouseMsg{X: hx + ox, Y: hy + oy, Action: tea.MouseActionMotion})
	if _, _, ok := m.term.Popup(); !ok {
		t.Fatalf("expected a popup while the pointer is on the marker")
	}

	m = step(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	if _, _, ok := m.term.Popup(); ok {
		t.Fatalf("expected the popup closed once the pointer left the marker")
	}
}

func TestDefaultPlaceTypeIsOther(t *testing.T) {
	m := newScreen(t)
	if m.placeType != model.PlaceTypeOther {
		t.Fatalf("expected %s, got %s", model.PlaceTypeOther, m.placeType)
	}
}
