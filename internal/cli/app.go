package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/idilsaglam/tripmap/internal/auth"
	"github.com/idilsaglam/tripmap/internal/backend"
	"github.com/idilsaglam/tripmap/internal/config"
	"github.com/idilsaglam/tripmap/internal/logger"
	"github.com/idilsaglam/tripmap/internal/mapview"
	"github.com/idilsaglam/tripmap/internal/render"
	"github.com/idilsaglam/tripmap/internal/search"
	"github.com/idilsaglam/tripmap/internal/selection"
	"github.com/idilsaglam/tripmap/internal/submit"
	"github.com/idilsaglam/tripmap/internal/ui"
	"github.com/idilsaglam/tripmap/internal/workflow"
)

// app holds the wired dependencies of one invocation.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	creds   *auth.Store
	api     *backend.Client
	submit  *submit.Client
	logFile io.Closer
}

func newApp(opt Options) (*app, error) {
	dir := opt.DataDir
	if dir == "" {
		d, err := auth.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if opt.Theme != "" {
		cfg.Theme = opt.Theme
	}
	ui.SetTheme(cfg.Theme)

	a := &app{cfg: cfg}
	f, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		// logging must never stop the program
		a.log = logger.New(cfg.Env, os.Stderr)
		a.log.Warn("log file unavailable, logging to stderr", "path", cfg.LogFile, "error", err)
	} else {
		a.log = logger.New(cfg.Env, f)
		a.logFile = f
	}

	a.creds = auth.NewStore(cfg.DataDir)
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	a.api = backend.New(cfg.BaseURL, httpClient, a.creds, a.log)
	a.submit = submit.New(a.api, a.log)
	return a, nil
}

func (a *app) Close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// provider picks the configured search source, or the local endpoint when
// forceLocal is set.
func (a *app) provider(forceLocal bool) search.Provider {
	if forceLocal || a.cfg.SearchSource == config.SourceLocal {
		return search.NewLocal(a.cfg.SearchURL(), a.api)
	}
	httpClient := &http.Client{Timeout: a.cfg.HTTPTimeout}
	return search.NewKakao(a.cfg.KakaoBaseURL, a.cfg.KakaoRESTKey, a.cfg.PageSize, a.cfg.KakaoRateLimit, httpClient, a.log)
}

// screen is one map + renderer + controller set.
type screen struct {
	term   *mapview.Terminal
	m      *mapview.Map
	ctrl   *workflow.Controller
	source string
}

func (a *app) newScreen(forceLocal bool, nav workflow.Navigator) *screen {
	term := mapview.NewTerminal()
	m := mapview.CreateMap(term, a.cfg.Center, a.cfg.Level)
	sel := selection.New()
	p := a.provider(forceLocal)
	r := render.New(m, sel)
	r.SetMarkerColor(ui.Current().Marker)
	ctrl := workflow.New(workflow.Deps{
		Search:    search.NewClient(p, a.log),
		Renderer:  r,
		Selection: sel,
		Submit:    a.submit,
		Navigator: nav,
		CreateURL: a.cfg.CreateURL(),
		Log:       a.log,
	})
	return &screen{term: term, m: m, ctrl: ctrl, source: p.Name()}
}

// printNavigator "navigates" by printing the absolute redirect URL.
func (a *app) printNavigator() workflow.Navigator {
	return workflow.NavigatorFunc(func(url string) error {
		ui.OK("saved, continue at " + a.cfg.Absolute(url))
		return nil
	})
}
