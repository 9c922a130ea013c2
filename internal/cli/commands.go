package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/idilsaglam/tripmap/internal/groupmap"
	"github.com/idilsaglam/tripmap/internal/mapview"
	"github.com/idilsaglam/tripmap/internal/model"
	"github.com/idilsaglam/tripmap/internal/render"
	"github.com/idilsaglam/tripmap/internal/search"
	"github.com/idilsaglam/tripmap/internal/submit"
	"github.com/idilsaglam/tripmap/internal/tui"
	"github.com/idilsaglam/tripmap/internal/ui"
	"github.com/idilsaglam/tripmap/internal/workflow"
)

const (
	mapWidth  = 60
	mapHeight = 16
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("tripmap "+name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// parsePlaceType accepts any case and rejects unknown types.
func parsePlaceType(s string) (model.PlaceType, bool) {
	t := model.PlaceType(strings.ToUpper(strings.TrimSpace(s)))
	for _, pt := range model.PlaceTypes {
		if pt == t {
			return t, true
		}
	}
	return "", false
}

// -------------- subcommand impls ----------------

func doTypes() int {
	lines := []string{ui.C(ui.Current().Title, "Place types"), ""}
	for _, pt := range model.PlaceTypes {
		lines = append(lines, fmt.Sprintf("%-14s %s", ui.C(ui.Current().Accent, string(pt)), pt.Label()))
	}
	ui.Panel(lines)
	return 0
}

type searchFlags struct {
	mode  string
	page  int
	local bool
}

func (f *searchFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.mode, "mode", string(search.ModeName), "search mode: name or address")
	fs.IntVar(&f.page, "page", 1, "result page")
	fs.BoolVar(&f.local, "local", false, "search the group backend instead of Kakao")
}

// run performs the search and jumps to the requested page.
func (f *searchFlags) run(ctx context.Context, ctrl *workflow.Controller, query string) error {
	mode, err := search.ParseMode(f.mode)
	if err != nil {
		return err
	}
	if err := ctrl.Search(ctx, query, mode); err != nil {
		return err
	}
	if f.page > 1 {
		return ctrl.GotoPage(ctx, f.page)
	}
	return nil
}

func (a *app) doSearch(args []string) int {
	var sf searchFlags
	fs := newFlagSet("search")
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		ui.Fail("usage: tripmap search [-mode m] [-page n] [-local] <query...>")
		return 2
	}

	ctx, cancel := signalContext()
	defer cancel()
	scr := a.newScreen(sf.local, nil)
	err := sf.run(ctx, scr.ctrl, strings.Join(fs.Args(), " "))
	a.printResults(scr)
	if err != nil {
		return 1
	}
	return 0
}

func (a *app) doAdd(args []string) int {
	var sf searchFlags
	fs := newFlagSet("add")
	sf.register(fs)
	pick := fs.Int("pick", 0, "1-based index of the result to save")
	typ := fs.String("type", "", "place type (see `tripmap types`)")
	desc := fs.String("desc", "", "description")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	pt, ok := parsePlaceType(*typ)
	if fs.NArg() == 0 || *pick < 1 || !ok {
		ui.Fail("usage: tripmap add -pick n -type T [-desc d] <query...>")
		ui.Hint("Hint: run `tripmap types` to see valid types")
		return 2
	}

	ctx, cancel := signalContext()
	defer cancel()
	scr := a.newScreen(sf.local, a.printNavigator())
	if err := sf.run(ctx, scr.ctrl, strings.Join(fs.Args(), " ")); err != nil {
		ui.Fail(scr.ctrl.Renderer().Status())
		return 1
	}
	if _, err := scr.ctrl.Pick(*pick - 1); err != nil {
		ui.Fail(fmt.Sprintf("pick out of range: have %d, got %d", scr.ctrl.Renderer().Len(), *pick))
		ui.Hint("Hint: run `tripmap search` to see valid indexes")
		return 2
	}
	o := scr.ctrl.Submit(ctx, string(pt), *desc)
	return reportOutcome(o)
}

func (a *app) doEdit(args []string) int {
	fs := newFlagSet("edit")
	link := fs.Int("link", a.cfg.PlaceLinkID, "place link id")
	nickname := fs.String("nickname", "", "display name in the group")
	typ := fs.String("type", "", "place type (see `tripmap types`)")
	desc := fs.String("desc", "", "description")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	pt, ok := parsePlaceType(*typ)
	if *link < 1 || !ok {
		ui.Fail("usage: tripmap edit [-link id] -nickname n -type T [-desc d]")
		return 2
	}

	ctx, cancel := signalContext()
	defer cancel()
	o := a.submit.Update(ctx, a.cfg.UpdateURL(*link), *nickname, string(pt), *desc)
	if o.State == submit.StateSucceededRedirect {
		_ = a.printNavigator().Navigate(o.RedirectURL)
		return 0
	}
	return reportOutcome(o)
}

func reportOutcome(o submit.Outcome) int {
	switch {
	case o.State == submit.StateSucceededRedirect:
		return 0
	case o.State.Succeeded():
		ui.OK(o.Message)
		return 0
	case o.State == submit.StateRejectedLocal:
		ui.Fail(o.Message)
		return 2
	default:
		ui.Fail(o.Message)
		return 1
	}
}

func (a *app) doMap(args []string) int {
	fs := newFlagSet("map")
	open := fs.Int("open", 0, "show the popup of place n")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ctx, cancel := signalContext()
	defer cancel()

	var places []model.GroupPlace
	if url := a.cfg.GroupPlacesURL(); url == "" {
		ui.Hint("Hint: set TRIPMAP_PLACES_URL to show the group's places")
	} else {
		loaded, err := groupmap.Load(ctx, a.api, url)
		if err != nil {
			ui.Fail("map: " + err.Error())
			return 1
		}
		places = loaded
	}

	term := mapview.NewTerminal()
	layer := groupmap.Show(mapview.CreateMap(term, a.cfg.Center, a.cfg.Level), places)
	lines := []string{
		fmt.Sprintf("%s  %s %d", ui.C(ui.Current().Title, "Group places"),
			ui.C(ui.Current().Accent, "Total"), len(layer.Places())),
		"",
	}
	if len(layer.Places()) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "no places yet"))
	}
	for i, p := range layer.Places() {
		lines = append(lines, fmt.Sprintf("%s %s %s  %s",
			ui.C(ui.Current().Muted, fmt.Sprintf("%2d.", i+1)),
			ui.C(ui.Current().Accent, p.PlaceType),
			p.Name,
			ui.C(ui.Current().Muted, p.Address)))
	}
	if *open > 0 {
		layer.Open(*open - 1)
	}
	lines = append(lines, "", term.Render(mapWidth, mapHeight))
	ui.Panel(lines)
	return 0
}

func (a *app) doUI(args []string) int {
	fs := newFlagSet("ui")
	mode := fs.String("mode", string(search.ModeName), "initial search mode")
	typ := fs.String("type", string(model.PlaceTypeOther), "initial place type")
	local := fs.Bool("local", false, "search the group backend instead of Kakao")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	m, err := search.ParseMode(*mode)
	if err != nil {
		ui.Fail(err.Error())
		return 2
	}
	pt, ok := parsePlaceType(*typ)
	if !ok {
		ui.Fail("unknown place type: " + *typ)
		return 2
	}

	ctx, cancel := signalContext()
	defer cancel()
	redirect := &tui.Redirect{}
	scr := a.newScreen(*local, redirect)
	view := tui.New(ctx, scr.ctrl, scr.term, scr.m, redirect, tui.Options{
		Query:     strings.Join(fs.Args(), " "),
		Mode:      m,
		PlaceType: pt,
	})
	url, err := tui.Run(view)
	if err != nil {
		ui.Fail("ui: " + err.Error())
		return 1
	}
	if url != "" {
		_ = a.printNavigator().Navigate(url)
	}
	return 0
}

func (a *app) doAuth(args []string) int {
	if len(args) != 1 {
		ui.Fail("usage: tripmap auth <login|logout|status>")
		return 2
	}
	switch args[0] {
	case "login":
		return a.doAuthLogin(os.Stdin)
	case "logout":
		return a.doAuthLogout()
	case "status":
		return a.doAuthStatus()
	}
	ui.Fail("usage: tripmap auth <login|logout|status>")
	return 2
}

func (a *app) doAuthLogin(in io.Reader) int {
	r := bufio.NewReader(in)
	fmt.Print("Paste your csrftoken cookie: ")
	csrf, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		ui.Fail("read csrftoken: " + err.Error())
		return 1
	}
	fmt.Print("Paste your sessionid cookie: ")
	session, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		ui.Fail("read sessionid: " + err.Error())
		return 1
	}
	if err := a.creds.Set(csrf, session); err != nil {
		ui.Fail("save session: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func (a *app) doAuthLogout() int {
	s, _ := a.creds.Get()
	if s != nil && s.Source == "env" {
		ui.OK("session is provided by TRIPMAP_CSRF_TOKEN/TRIPMAP_SESSION_ID (nothing to delete)")
		return 0
	}
	if err := a.creds.Delete(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func (a *app) doAuthStatus() int {
	s, err := a.creds.Get()
	if err != nil {
		ui.Fail("status: " + err.Error())
		return 1
	}
	if s == nil {
		fmt.Println(ui.C(ui.Current().Muted, "not logged in"))
		fmt.Println("Run: tripmap auth login")
		return 0
	}
	fmt.Printf("source: %s\n", s.Source)
	if !s.CreatedAt.IsZero() {
		fmt.Printf("saved: %s\n", s.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Printf("backend: %s\n", a.cfg.BaseURL)
	fmt.Println("env override: TRIPMAP_CSRF_TOKEN, TRIPMAP_SESSION_ID")
	return 0
}

// -------------- rendering helpers --------------

func (a *app) printResults(scr *screen) {
	r := scr.ctrl.Renderer()
	lines := []string{
		fmt.Sprintf("%s  %s %s", ui.C(ui.Current().Title, "Places"),
			ui.C(ui.Current().Accent, "via"), ui.C(ui.Current().Muted, scr.source)),
		"",
	}
	lines = append(lines, resultLines(r.Items())...)
	if bar := ui.PageBar(r.Pages()); bar != "" {
		lines = append(lines, "", bar)
	}
	if s := r.Status(); s != "" {
		lines = append(lines, "", ui.C(ui.Current().Pending, s))
	}
	lines = append(lines, "", scr.term.Render(mapWidth, mapHeight))
	ui.Panel(lines)
}

func resultLines(items []render.Item) []string {
	out := make([]string, 0, len(items))
	for i, it := range items {
		title := ui.Truncate(it.Place.Name, 60)
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.C(ui.Current().Accent, render.MarkerLabel(i)+"."),
			ui.C(ui.Current().Muted, ui.Current().SymItem), title))
		detail := it.Place.Address
		if phone := model.Deref(it.Place.Phone); phone != "" {
			detail += "  " + phone
		}
		out = append(out, "   "+ui.C(ui.Current().Muted, detail))
	}
	return out
}
