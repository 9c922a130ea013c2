// Package backend is the HTTP client for the travel-group server. It attaches
// the session cookie, the CSRF token and the AJAX marker header to every
// request.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/tripmap/internal/auth"
	"github.com/idilsaglam/tripmap/internal/logger"
)

const (
	HeaderCSRF      = "X-CSRFToken"
	HeaderAJAX      = "X-Requested-With"
	HeaderRequestID = "X-Request-ID"

	ajaxValue = "XMLHttpRequest"

	csrfCookie    = "csrftoken"
	sessionCookie = "sessionid"
)

// SessionSource yields the current session; nil means anonymous.
type SessionSource interface {
	Get() (*auth.Session, error)
}

// Client sends JSON requests to the server.
type Client struct {
	httpClient *http.Client
	sessions   SessionSource
	referer    string
	log        *logger.Logger
}

// New creates a client. baseURL is sent as Referer, which the server's CSRF
// check requires over HTTPS.
func New(baseURL string, httpClient *http.Client, sessions SessionSource, log *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		sessions:   sessions,
		referer:    baseURL + "/",
		log:        log,
	}
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetJSON issues a GET.
func (c *Client) GetJSON(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// PostJSON issues a POST with payload encoded as JSON.
func (c *Client) PostJSON(ctx context.Context, url string, payload any) (*Response, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, b)
}

// do returns an error only when no response was received.
func (c *Client) do(ctx context.Context, method, url string, body []byte) (*Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderAJAX, ajaxValue)
	req.Header.Set(HeaderRequestID, requestID)
	req.Header.Set("Referer", c.referer)
	if c.sessions != nil {
		sess, err := c.sessions.Get()
		if err != nil {
			c.log.Warn("session unavailable", "error", err)
		}
		if sess != nil {
			req.Header.Set(HeaderCSRF, sess.CSRFToken)
			req.AddCookie(&http.Cookie{Name: csrfCookie, Value: sess.CSRFToken})
			if sess.SessionID != "" {
				req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sess.SessionID})
			}
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("backend request failed", "method", method, "url", url, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	c.log.HTTPCall(method, url, resp.StatusCode, time.Since(start), requestID)
	return &Response{Status: resp.StatusCode, Body: b}, nil
}
