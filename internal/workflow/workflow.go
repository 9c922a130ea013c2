// Package workflow wires search, rendering, selection and submission into
// the search -> pick -> submit flow. Network calls are split from state
// updates so an event loop can run the former off-thread and apply the
// latter in order; stale search answers are dropped by sequence number.
package workflow

import (
	"context"

	"github.com/idilsaglam/tripmap/internal/apperr"
	"github.com/idilsaglam/tripmap/internal/logger"
	"github.com/idilsaglam/tripmap/internal/model"
	"github.com/idilsaglam/tripmap/internal/render"
	"github.com/idilsaglam/tripmap/internal/search"
	"github.com/idilsaglam/tripmap/internal/selection"
	"github.com/idilsaglam/tripmap/internal/submit"
)

// Navigator follows a redirect returned by the server.
type Navigator interface {
	Navigate(url string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(url string) error

func (f NavigatorFunc) Navigate(url string) error { return f(url) }

// Controller owns one screen's flow.
type Controller struct {
	search    *search.Client
	renderer  *render.Renderer
	sel       *selection.State
	submit    *submit.Client
	nav       Navigator
	createURL string
	log       *logger.Logger
}

// Deps groups the controller's collaborators.
type Deps struct {
	Search    *search.Client
	Renderer  *render.Renderer
	Selection *selection.State
	Submit    *submit.Client
	Navigator Navigator
	CreateURL string
	Log       *logger.Logger
}

func New(d Deps) *Controller {
	return &Controller{
		search:    d.Search,
		renderer:  d.Renderer,
		sel:       d.Selection,
		submit:    d.Submit,
		nav:       d.Navigator,
		createURL: d.CreateURL,
		log:       d.Log,
	}
}

func (c *Controller) Renderer() *render.Renderer { return c.renderer }

func (c *Controller) Selection() *selection.State { return c.sel }

// Ticket is a pending provider call tagged with its search sequence number.
type Ticket struct {
	Seq uint64
	run func(ctx context.Context) (*search.Result, error)
}

// Response is the answer to a Ticket.
type Response struct {
	Seq    uint64
	Result *search.Result
	Err    error
}

// Run performs the provider call. It touches no screen state.
func (t *Ticket) Run(ctx context.Context) Response {
	res, err := t.run(ctx)
	return Response{Seq: t.Seq, Result: res, Err: err}
}

// BeginSearch clears the previous result and validates text. An invalid
// query sets the status line and returns an error without a ticket; it still
// supersedes any search in flight.
func (c *Controller) BeginSearch(text string, mode search.Mode) (*Ticket, error) {
	c.renderer.Clear()
	seq := c.sel.BeginSearch()
	q, err := search.Validate(text)
	if err != nil {
		c.renderer.SetStatus(apperr.UserMessage(err))
		return nil, err
	}
	return &Ticket{Seq: seq, run: func(ctx context.Context) (*search.Result, error) {
		return c.search.Search(ctx, q, mode, 1)
	}}, nil
}

// BeginPage prepares a jump to page n of the rendered result. It returns
// false for the current page or when the result is not paged.
func (c *Controller) BeginPage(n int) (*Ticket, bool) {
	p := c.renderer.Pagination()
	if p == nil || n == p.Current || n < 1 || n > p.Last {
		return nil, false
	}
	seq := c.sel.BeginSearch()
	return &Ticket{Seq: seq, run: func(ctx context.Context) (*search.Result, error) {
		return p.GotoPage(ctx, n)
	}}, true
}

// Apply renders r if it answers the latest search and reports whether it
// was applied.
func (c *Controller) Apply(r Response) bool {
	if !c.sel.IsCurrent(r.Seq) {
		c.log.Debug("dropping stale search response", "seq", r.Seq)
		return false
	}
	if r.Err != nil {
		c.renderer.Clear()
		c.renderer.SetStatus(apperr.UserMessage(r.Err))
		return true
	}
	c.renderer.Render(r.Result)
	return true
}

// Search runs a whole search synchronously.
func (c *Controller) Search(ctx context.Context, text string, mode search.Mode) error {
	t, err := c.BeginSearch(text, mode)
	if err != nil {
		return err
	}
	r := t.Run(ctx)
	c.Apply(r)
	return r.Err
}

// GotoPage jumps to page n synchronously.
func (c *Controller) GotoPage(ctx context.Context, n int) error {
	t, ok := c.BeginPage(n)
	if !ok {
		return nil
	}
	r := t.Run(ctx)
	c.Apply(r)
	return r.Err
}

// Pick selects item i.
func (c *Controller) Pick(i int) (model.Place, error) {
	p, err := c.renderer.Pick(i)
	if err != nil {
		c.renderer.SetStatus(apperr.UserMessage(err))
	}
	return p, err
}

// SubmitRequest captures the current selection and returns the call that
// submits it. The call touches no screen state; hand its Outcome to
// ApplyOutcome.
func (c *Controller) SubmitRequest(placeType, description string) func(ctx context.Context) submit.Outcome {
	sel := c.sel.Selected()
	return func(ctx context.Context) submit.Outcome {
		return c.submit.Create(ctx, c.createURL, sel, placeType, description)
	}
}

// ApplyOutcome shows o and follows a redirect.
func (c *Controller) ApplyOutcome(o submit.Outcome) {
	c.renderer.SetStatus(o.Message)
	if o.State != submit.StateSucceededRedirect || c.nav == nil {
		return
	}
	if err := c.nav.Navigate(o.RedirectURL); err != nil {
		c.log.Error("navigate failed", "url", o.RedirectURL, "error", err)
		c.renderer.SetStatus(err.Error())
	}
}

// Submit runs a whole submission synchronously.
func (c *Controller) Submit(ctx context.Context, placeType, description string) submit.Outcome {
	o := c.SubmitRequest(placeType, description)(ctx)
	c.ApplyOutcome(o)
	return o
}
