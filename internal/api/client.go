// Package api is the HTTP boundary to the TickIt backend: one request
// path that attaches the bearer token, unwraps the {data} envelope,
// normalizes every failure into *Error, and force-logs-out on 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nlsnlaurensius/tickit/internal/session"
)

// DefaultBaseURL points at the hosted backend; overridable via config.
const DefaultBaseURL = "https://be-tt-9.vercel.app/api"

// Client issues requests against a fixed base URL. It borrows the token
// from the session store per request and clears the session on 401.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
	log     *log.Logger
}

// New builds a client. An empty baseURL falls back to DefaultBaseURL.
func New(baseURL string, sess *session.Store, logger *log.Logger, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
		log:     logger,
	}
}

// envelope is the backend's uniform response shape.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Details string          `json:"details"`
}

// request performs one API call and returns the envelope's data field.
// Query parameters with empty values are dropped. The body is serialized
// only for methods that carry a payload.
func (c *Client) request(ctx context.Context, method, endpoint string, body any, params url.Values) (json.RawMessage, error) {
	u := c.baseURL + endpoint
	if qs := compactQuery(params); qs != "" {
		u += "?" + qs
	}

	var reader io.Reader
	if body != nil && method != http.MethodGet && method != http.MethodHead {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Message: "encode request body", err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, &Error{Message: "build request", err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("api request", "method", method, "endpoint", endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("api transport failure", "method", method, "endpoint", endpoint, "err", err)
		return nil, &Error{Message: "request failed", err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Session teardown happens before the caller sees the error so the
		// very next call (and render) observes the logged-out state.
		c.log.Warn("unauthorized response, clearing session", "endpoint", endpoint)
		if err := c.session.Logout(); err != nil {
			c.log.Error("forced logout", "err", err)
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: "read response", err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Non-JSON error body still carries the status for the caller.
			return nil, &Error{
				Message: http.StatusText(resp.StatusCode),
				Status:  resp.StatusCode,
				err:     err,
			}
		}
		return nil, &Error{Message: "decode response", err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = "API request failed"
		}
		details := env.Details
		if details == "" {
			details = env.Message
		}
		if details == "" {
			details = "Unknown error"
		}
		c.log.Error("api error", "endpoint", endpoint, "status", resp.StatusCode, "details", details)
		return nil, &Error{Message: msg, Details: details, Status: resp.StatusCode}
	}

	return env.Data, nil
}

// get/post/put/del mirror the verbs the endpoints use.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, params, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, body, nil, out)
}

func (c *Client) put(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, body, nil, out)
}

func (c *Client) del(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, params url.Values, out any) error {
	data, err := c.request(ctx, method, endpoint, body, params)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Message: fmt.Sprintf("decode %s response", endpoint), err: err}
	}
	return nil
}

// compactQuery encodes only parameters that have a non-empty value.
func compactQuery(params url.Values) string {
	if params == nil {
		return ""
	}
	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			if v != "" {
				q.Add(k, v)
			}
		}
	}
	return q.Encode()
}
