package search

import (
	"context"
	"fmt"
	"net/url"

	"github.com/idilsaglam/tripmap/internal/apperr"
	"github.com/idilsaglam/tripmap/internal/backend"
	"github.com/idilsaglam/tripmap/internal/model"
)

// Local asks the group server whether the place is already known. It returns
// at most one place and never paginates.
type Local struct {
	endpoint string
	api      *backend.Client
}

func NewLocal(endpoint string, api *backend.Client) *Local {
	return &Local{endpoint: endpoint, api: api}
}

func (l *Local) Name() string { return "local" }

type localPlace struct {
	ID      any     `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type localResponse struct {
	Exists  bool        `json:"exists"`
	Place   *localPlace `json:"place"`
	Message string      `json:"message"`
	Name    string      `json:"name"`
	Lat     *float64    `json:"lat"`
	Lng     *float64    `json:"lng"`
	Error   string      `json:"error"`
}

func (l *Local) Search(ctx context.Context, q Query) (*Result, error) {
	params := url.Values{}
	params.Set("mode", string(q.Mode))
	params.Set("q", q.Text)

	resp, err := l.api.GetJSON(ctx, l.endpoint+"?"+params.Encode())
	if err != nil {
		return nil, apperr.Network(err).WithOp("local search")
	}

	var body localResponse
	decodeErr := resp.Decode(&body)
	if !resp.OK() {
		msg := body.Error
		if decodeErr != nil || msg == "" {
			msg = apperr.MsgSearchFailed
		}
		e := apperr.Provider(msg, fmt.Errorf("status %d", resp.Status))
		e.Status = resp.Status
		return nil, e.WithOp("local search")
	}
	if decodeErr != nil {
		return nil, apperr.Provider(apperr.MsgSearchFailed, decodeErr).WithOp("local search")
	}

	res := &Result{Message: body.Message, Existing: body.Exists}
	switch {
	case body.Exists && body.Place != nil:
		res.Places = []model.Place{{
			ID:      idString(body.Place.ID),
			Name:    body.Place.Name,
			Address: body.Place.Address,
			Lat:     body.Place.Lat,
			Lng:     body.Place.Lng,
		}}
	case !body.Exists && body.Lat != nil && body.Lng != nil:
		// suggestion for a place the server does not know yet
		res.Places = []model.Place{{
			Name: firstNonEmpty(body.Name, q.Text),
			Lat:  *body.Lat,
			Lng:  *body.Lng,
		}}
		res.Message = firstNonEmpty(body.Message, "Not saved yet: "+q.Text)
	}
	return res, nil
}

// idString renders a JSON id (number or string) without exponent noise.
func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return fmt.Sprint(id)
	}
}
