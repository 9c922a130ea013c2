// Package submit posts a picked place (or an edited place link) to the group
// server and turns the answer into an Outcome.
package submit

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/idilsaglam/tripmap/internal/apperr"
	"github.com/idilsaglam/tripmap/internal/backend"
	"github.com/idilsaglam/tripmap/internal/logger"
	"github.com/idilsaglam/tripmap/internal/model"
)

// State is a step of one submission attempt.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSending
	StateSucceededRedirect
	StateSucceededAck
	StateRejectedLocal
	StateRejectedServer
	StateRejectedNetwork
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSending:
		return "sending"
	case StateSucceededRedirect:
		return "succeeded_redirect"
	case StateSucceededAck:
		return "succeeded_ack"
	case StateRejectedLocal:
		return "rejected_local"
	case StateRejectedServer:
		return "rejected_server"
	case StateRejectedNetwork:
		return "rejected_network"
	}
	return "unknown"
}

// Succeeded reports a success terminal state.
func (s State) Succeeded() bool {
	return s == StateSucceededRedirect || s == StateSucceededAck
}

// Outcome is the terminal state of an attempt. Message is what the status
// area shows; RedirectURL is set only for StateSucceededRedirect.
type Outcome struct {
	State       State
	Message     string
	RedirectURL string
	Err         error
}

// CreatePayload is the body of the create endpoint.
type CreatePayload struct {
	Place       model.Place `json:"place"`
	PlaceType   string      `json:"place_type"`
	Description string      `json:"description"`
}

// UpdatePayload is the body of the place link update endpoint.
type UpdatePayload struct {
	Nickname    string `json:"nickname" validate:"required"`
	PlaceType   string `json:"place_type"`
	Description string `json:"description"`
}

type response struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirect_url"`
	Error       string `json:"error"`
}

// Client sends submissions. Only one attempt may be in flight at a time.
type Client struct {
	api      *backend.Client
	validate *validator.Validate
	log      *logger.Logger

	mu    sync.Mutex
	state State
}

func New(api *backend.Client, log *logger.Logger) *Client {
	return &Client{api: api, validate: validator.New(), log: log}
}

// State returns the current step; StateIdle between attempts.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Create submits selection as a new place of the group at endpoint. A nil
// selection or one without numeric coordinates is rejected locally.
func (c *Client) Create(ctx context.Context, endpoint string, selection *model.Place, placeType, description string) Outcome {
	if !c.begin() {
		return Outcome{State: StateRejectedLocal, Message: apperr.MsgBusy, Err: apperr.Validation(apperr.MsgBusy)}
	}
	defer c.end()

	if selection == nil || !selection.HasCoords() {
		return c.finish(endpoint, rejectLocal(apperr.MsgNoSelection))
	}
	payload := CreatePayload{Place: *selection, PlaceType: placeType, Description: description}
	if err := c.validate.Struct(payload); err != nil {
		return c.finish(endpoint, rejectLocal(apperr.MsgNoSelection))
	}
	return c.finish(endpoint, c.send(ctx, endpoint, payload))
}

// Update edits an existing place link at endpoint. The nickname must be
// present.
func (c *Client) Update(ctx context.Context, endpoint, nickname, placeType, description string) Outcome {
	if !c.begin() {
		return Outcome{State: StateRejectedLocal, Message: apperr.MsgBusy, Err: apperr.Validation(apperr.MsgBusy)}
	}
	defer c.end()

	payload := UpdatePayload{
		Nickname:    strings.TrimSpace(nickname),
		PlaceType:   placeType,
		Description: strings.TrimSpace(description),
	}
	if err := c.validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return c.finish(endpoint, rejectLocal(apperr.MsgNoNickname))
		}
		return c.finish(endpoint, rejectLocal(err.Error()))
	}
	return c.finish(endpoint, c.send(ctx, endpoint, payload))
}

func (c *Client) send(ctx context.Context, endpoint string, payload any) Outcome {
	c.set(StateSending)
	resp, err := c.api.PostJSON(ctx, endpoint, payload)
	if err != nil {
		return Outcome{State: StateRejectedNetwork, Message: apperr.MsgNetwork, Err: apperr.Network(err).WithOp("submit")}
	}

	var body response
	if err := resp.Decode(&body); err != nil {
		if !resp.OK() {
			e := apperr.Server(resp.Status, "")
			return Outcome{State: StateRejectedServer, Message: e.Message, Err: e}
		}
		// a 2xx without JSON is as useless as no answer
		return Outcome{State: StateRejectedNetwork, Message: apperr.MsgNetwork, Err: apperr.Network(err).WithOp("submit")}
	}
	if !resp.OK() || !body.Success {
		e := apperr.Server(resp.Status, body.Error)
		return Outcome{State: StateRejectedServer, Message: e.Message, Err: e}
	}
	if body.RedirectURL != "" {
		return Outcome{State: StateSucceededRedirect, RedirectURL: body.RedirectURL}
	}
	return Outcome{State: StateSucceededAck, Message: apperr.MsgSaved}
}

func rejectLocal(msg string) Outcome {
	return Outcome{State: StateRejectedLocal, Message: msg, Err: apperr.Validation(msg).WithOp("submit")}
}

func (c *Client) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return false
	}
	c.state = StateValidating
	return true
}

func (c *Client) set(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Client) finish(endpoint string, o Outcome) Outcome {
	c.set(o.State)
	c.log.Submission(o.State.String(), endpoint, o.Message)
	return o
}

// end returns the client to idle after a terminal state.
func (c *Client) end() { c.set(StateIdle) }
