// Package search queries a place provider and normalizes whatever it returns
// into model.Place values plus an optional pagination descriptor.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/idilsaglam/tripmap/internal/apperr"
	"github.com/idilsaglam/tripmap/internal/logger"
	"github.com/idilsaglam/tripmap/internal/model"
)

// Mode selects keyword (name) or geocoding (address) search.
type Mode string

const (
	ModeName    Mode = "name"
	ModeAddress Mode = "address"
)

// ParseMode accepts "name" or "address"; anything else is an error.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeName, "":
		return ModeName, nil
	case ModeAddress:
		return ModeAddress, nil
	}
	return "", fmt.Errorf("unknown search mode %q (want name or address)", s)
}

// Toggle flips between the two modes.
func (m Mode) Toggle() Mode {
	if m == ModeAddress {
		return ModeName
	}
	return ModeAddress
}

// Query is one provider request. Page is 1-based.
type Query struct {
	Text string
	Mode Mode
	Page int
}

// Result is an ordered, normalized result set.
type Result struct {
	Query      Query
	Places     []model.Place
	Pagination *Pagination

	// Existing is set when the local endpoint matched a stored place.
	Existing bool
	// Message is an informational line from the provider, if any.
	Message string
}

// Empty reports a valid zero-result outcome.
func (r *Result) Empty() bool { return r == nil || len(r.Places) == 0 }

// Pagination describes a paged result and can fetch another page from the
// same provider.
type Pagination struct {
	Current int
	Last    int

	jump func(ctx context.Context, page int) (*Result, error)
}

// NewPagination builds a descriptor whose GotoPage calls jump.
func NewPagination(current, last int, jump func(ctx context.Context, page int) (*Result, error)) *Pagination {
	return &Pagination{Current: current, Last: last, jump: jump}
}

// GotoPage fetches page n.
func (p *Pagination) GotoPage(ctx context.Context, n int) (*Result, error) {
	if p == nil || p.jump == nil {
		return nil, apperr.Validation("no pages to jump to")
	}
	if n < 1 || n > p.Last {
		return nil, apperr.Validation(fmt.Sprintf("page %d out of range 1..%d", n, p.Last))
	}
	return p.jump(ctx, n)
}

// Provider is the single calling convention every search source implements.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) (*Result, error)
}

// Client validates and normalizes queries before handing them to a Provider.
type Client struct {
	provider Provider
	log      *logger.Logger
}

func NewClient(p Provider, log *logger.Logger) *Client {
	return &Client{provider: p, log: log}
}

// Provider returns the configured source.
func (c *Client) Provider() Provider { return c.provider }

// Validate checks the query locally; an empty query never reaches the
// provider.
func Validate(text string) (string, error) {
	q := NormalizeQuery(text)
	if q == "" {
		return "", apperr.Validation(apperr.MsgEmptyQuery).WithOp("search")
	}
	return q, nil
}

// Search runs one query. A zero-result answer is returned as an empty
// Result, not an error.
func (c *Client) Search(ctx context.Context, text string, mode Mode, page int) (*Result, error) {
	q, err := Validate(text)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		mode = ModeName
	}
	if page < 1 {
		page = 1
	}
	return c.run(ctx, Query{Text: q, Mode: mode, Page: page})
}

func (c *Client) run(ctx context.Context, q Query) (*Result, error) {
	start := time.Now()
	res, err := c.provider.Search(ctx, q)
	if err != nil {
		c.log.Warn("search failed", "provider", c.provider.Name(), "query", q.Text, "kind", apperr.GetKind(err).String(), "error", err)
		return nil, err
	}
	if res == nil {
		res = &Result{}
	}
	res.Query = q
	// route page jumps back through run so they are logged the same way
	if res.Pagination != nil {
		res.Pagination.jump = func(ctx context.Context, page int) (*Result, error) {
			return c.run(ctx, Query{Text: q.Text, Mode: q.Mode, Page: page})
		}
	}
	if res.Empty() && res.Message == "" {
		res.Message = apperr.MsgNoResults
	}
	c.log.ProviderCall(c.provider.Name(), string(q.Mode), q.Text, q.Page, len(res.Places), time.Since(start))
	return res, nil
}
