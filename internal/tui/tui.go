// Package tui is the interactive search -> pick -> submit screen.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tripmap/internal/mapview"
	"github.com/idilsaglam/tripmap/internal/model"
	"github.com/idilsaglam/tripmap/internal/search"
	"github.com/idilsaglam/tripmap/internal/submit"
	"github.com/idilsaglam/tripmap/internal/ui"
	"github.com/idilsaglam/tripmap/internal/workflow"
)

type focus int

const (
	focusQuery focus = iota
	focusList
	focusDescription
)

// searchDoneMsg carries a provider answer back to Update.
type searchDoneMsg struct{ resp workflow.Response }

// submitDoneMsg carries a submission outcome back to Update.
type submitDoneMsg struct{ outcome submit.Outcome }

// Redirect records where the server sent us after a successful submit.
type Redirect struct{ URL string }

func (r *Redirect) Navigate(url string) error {
	r.URL = url
	return nil
}

var (
	pickBind   = key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "pick"))
	submitBind = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "submit"))
	typeBind   = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type"))
	descBind   = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "description"))
	searchBind = key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search"))
	prevBind   = key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev page"))
	nextBind   = key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next page"))
)

// Model is the bubbletea model of the screen.
type Model struct {
	ctx      context.Context
	ctrl     *workflow.Controller
	term     *mapview.Terminal
	m        *mapview.Map
	redirect *Redirect

	list  list.Model
	query textinput.Model
	desc  textinput.Model

	focus      focus
	mode       search.Mode
	placeType  model.PlaceType
	searching  bool
	submitting bool
	lastIndex  int
	// set while a popup is open because the pointer is on its marker
	mouseHover bool

	width, height int
}

// Options seeds the screen.
type Options struct {
	Query     string
	Mode      search.Mode
	PlaceType model.PlaceType
}

// New builds the screen. m must draw on term; redirect is the controller's
// Navigator.
func New(ctx context.Context, ctrl *workflow.Controller, term *mapview.Terminal, m *mapview.Map, redirect *Redirect, opt Options) Model {
	l := list.New(nil, itemDelegate{sel: ctrl.Selection()}, 0, 0)
	l.Title = titleStyle.Render("Places")
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(false)
	// filtering would break the item <-> marker alignment
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{pickBind, submitBind, typeBind, descBind, searchBind}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{pickBind, submitBind, typeBind, descBind, searchBind, prevBind, nextBind}
	}

	q := textinput.New()
	q.Prompt = "search> "
	q.Placeholder = "place name or address..."
	q.CharLimit = 100
	q.SetValue(opt.Query)
	q.Focus()

	d := textinput.New()
	d.Prompt = "note> "
	d.Placeholder = "description (optional)"
	d.CharLimit = 500

	mode := opt.Mode
	if mode == "" {
		mode = search.ModeName
	}
	pt := opt.PlaceType
	if pt == "" {
		pt = model.PlaceTypeOther
	}

	return Model{
		ctx:       ctx,
		ctrl:      ctrl,
		term:      term,
		m:         m,
		redirect:  redirect,
		list:      l,
		query:     q,
		desc:      d,
		focus:     focusQuery,
		mode:      mode,
		placeType: pt,
		lastIndex: -1,
		width:     100,
		height:    30,
	}
}

// Run starts the program and returns the redirect URL, if a submission
// produced one.
func Run(scr Model) (string, error) {
	p := tea.NewProgram(scr, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return "", err
	}
	return scr.redirect.URL, nil
}

func (m Model) Init() tea.Cmd {
	if strings.TrimSpace(m.query.Value()) != "" {
		return tea.Batch(textinput.Blink, m.startSearch())
	}
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case searchDoneMsg:
		if m.ctrl.Apply(msg.resp) {
			m.searching = false
			m.syncList()
			if len(m.list.Items()) > 0 {
				m.focus = focusList
				m.query.Blur()
			}
		}
		return m, nil

	case submitDoneMsg:
		m.submitting = false
		m.ctrl.ApplyOutcome(msg.outcome)
		if m.redirect.URL != "" {
			return m, tea.Quit
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusQuery:
			return m.updateQuery(msg)
		case focusDescription:
			return m.updateDescription(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusQuery:
		m.query, cmd = m.query.Update(msg)
	case focusDescription:
		m.desc, cmd = m.desc.Update(msg)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m Model) updateQuery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		cmd := m.startSearch()
		return m, cmd
	case "tab":
		m.mode = m.mode.Toggle()
		return m, nil
	case "esc", "down":
		if len(m.list.Items()) > 0 {
			m.focus = focusList
			m.query.Blur()
		} else if msg.String() == "esc" {
			return m, tea.Quit
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	return m, cmd
}

func (m Model) updateDescription(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.focus = focusList
		m.desc.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.desc, cmd = m.desc.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := m.ctrl.Renderer()
	switch {
	case msg.String() == "q" || msg.String() == "esc":
		return m, tea.Quit
	case key.Matches(msg, searchBind):
		m.focus = focusQuery
		m.query.Focus()
		return m, textinput.Blink
	case key.Matches(msg, pickBind):
		if _, err := m.ctrl.Pick(m.list.Index()); err == nil {
			m.lastIndex = m.list.Index()
		}
		return m, nil
	case key.Matches(msg, typeBind):
		m.placeType = m.placeType.Next()
		return m, nil
	case key.Matches(msg, descBind):
		m.focus = focusDescription
		m.desc.Focus()
		return m, textinput.Blink
	case key.Matches(msg, submitBind):
		if m.submitting {
			return m, nil
		}
		m.submitting = true
		r.SetStatus("Saving...")
		req := m.ctrl.SubmitRequest(string(m.placeType), m.desc.Value())
		ctx := m.ctx
		return m, func() tea.Msg { return submitDoneMsg{outcome: req(ctx)} }
	case key.Matches(msg, prevBind), key.Matches(msg, nextBind):
		p := r.Pagination()
		if p == nil {
			return m, nil
		}
		n := p.Current + 1
		if key.Matches(msg, prevBind) {
			n = p.Current - 1
		}
		cmd := m.gotoPage(n)
		return m, cmd
	}
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		cmd := m.gotoPage(int(s[0] - '0'))
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.hoverCursor()
	return m, cmd
}

// hoverCursor treats the list cursor as the mouse: moving onto an item opens
// its marker popup.
func (m *Model) hoverCursor() {
	if i := m.list.Index(); i != m.lastIndex && len(m.list.Items()) > 0 {
		m.ctrl.Renderer().HoverItem(i)
		m.lastIndex = i
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if msg.Action != tea.MouseActionMotion && msg.Action != tea.MouseActionPress {
		return m
	}
	ox, oy := m.mapOrigin()
	id, ok := m.m.MarkerIDAt(msg.X-ox, msg.Y-oy)
	if !ok {
		if m.mouseHover && msg.Action == tea.MouseActionMotion {
			m.ctrl.Renderer().Leave()
			m.mouseHover = false
		}
		return m
	}
	if i := m.ctrl.Renderer().HoverMarker(id); i >= 0 {
		m.list.Select(i)
		m.lastIndex = i
		m.mouseHover = true
	}
	return m
}

func (m *Model) startSearch() tea.Cmd {
	ticket, err := m.ctrl.BeginSearch(m.query.Value(), m.mode)
	m.syncList()
	if err != nil {
		return nil
	}
	m.searching = true
	ctx := m.ctx
	return func() tea.Msg { return searchDoneMsg{resp: ticket.Run(ctx)} }
}

func (m *Model) gotoPage(n int) tea.Cmd {
	ticket, ok := m.ctrl.BeginPage(n)
	if !ok {
		return nil
	}
	m.ctrl.Renderer().Clear()
	m.syncList()
	m.searching = true
	ctx := m.ctx
	return func() tea.Msg { return searchDoneMsg{resp: ticket.Run(ctx)} }
}

// syncList mirrors the renderer's items into the list widget.
func (m *Model) syncList() {
	items := m.ctrl.Renderer().Items()
	li := make([]list.Item, 0, len(items))
	for i, it := range items {
		li = append(li, listItem{index: i, place: it.Place})
	}
	m.list.SetItems(li)
	m.list.ResetSelected()
	m.lastIndex = -1
}

// layout splits the screen into the list column and the map pane.
func (m Model) layout() (leftW, mapW, mapH int) {
	inner := m.width - 4
	leftW = inner * 55 / 100
	mapW = inner - leftW - 3
	mapH = m.height - 6
	if mapW < 10 {
		mapW = 10
	}
	if mapH < 4 {
		mapH = 4
	}
	return leftW, mapW, mapH
}

// mapOrigin is the screen cell of the map grid's top-left corner.
func (m Model) mapOrigin() (int, int) {
	leftW, _, _ := m.layout()
	// outer border + padding, left column, gap, map border
	return 2 + leftW + 1 + 1, 1 + 1
}

func (m Model) View() string {
	leftW, mapW, mapH := m.layout()
	r := m.ctrl.Renderer()

	var left []string
	modeLabel := accentStyle.Render("[" + string(m.mode) + "]")
	left = append(left, modeLabel+" "+m.query.View())

	listH := m.height - 12
	if listH < 4 {
		listH = 4
	}
	m.list.SetSize(leftW, listH)
	if m.searching {
		left = append(left, mutedStyle.Render("searching..."))
	}
	left = append(left, m.list.View())

	if bar := ui.PageBar(r.Pages()); bar != "" {
		left = append(left, bar)
	}
	left = append(left, fmt.Sprintf("%s %s   %s",
		mutedStyle.Render("type:"), pendingStyle.Render(m.placeType.Label()),
		m.desc.View()))
	if status := r.Status(); status != "" {
		left = append(left, pendingStyle.Render(status))
	}

	leftCol := lipgloss.NewStyle().Width(leftW).Render(strings.Join(left, "\n"))
	mapPane := frameStyle.Render(m.term.Render(mapW, mapH))
	return panelString(lipgloss.JoinHorizontal(lipgloss.Top, leftCol, " ", mapPane))
}
