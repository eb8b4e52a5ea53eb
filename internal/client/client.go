// Package client implements the typed HTTP client every console service
// goes through. It owns the request pipeline: base-URL resolution, default
// and bearer-token headers, the per-call wall-clock timeout, and the
// normalization of every failure into domain.APIError. It performs exactly
// one attempt per call; retry policy, if any, belongs to callers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/utpfund/admin-console-go/internal/metrics"
	"github.com/utpfund/admin-console-go/pkg/logger"
)

// DefaultTimeout bounds a single request when no explicit timeout is
// configured.
const DefaultTimeout = 300 * time.Second

// Response is the uniform envelope the API wraps every payload in.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    string          `json:"code,omitempty"`
}

// Client performs outbound calls against the configured API base. It is
// safe for concurrent use; the token is the only mutable state and is
// guarded internally.
type Client struct {
	baseURL string
	timeout time.Duration
	httpc   *http.Client
	log     zerolog.Logger

	mu    sync.RWMutex
	token string
}

// Option customises a Client at construction time.
type Option func(*Client)

// WithTimeout overrides the per-request wall-clock budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient substitutes the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpc = hc
		}
	}
}

// WithLogger attaches a logger; defaults to the process singleton.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a Client rooted at baseURL. baseURL carries no trailing
// slash; request paths start with "/".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		timeout: DefaultTimeout,
		httpc:   &http.Client{},
		log:     logger.Get(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() { c.SetToken("") }

// Token returns the currently installed bearer token, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Do performs one request. body, when non-nil, is JSON-encoded; out, when
// non-nil, receives the envelope's data field. The returned envelope is
// non-nil exactly when the error is nil. Every failure is a *domain.APIError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) (*Response, error) {
	start := time.Now()
	env, err := c.do(ctx, method, path, body, out)
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	metrics.RequestsTotal.WithLabelValues(method, outcomeLabel(err)).Inc()
	return env, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, transportError("encode request: " + err.Error())
		}
		reader = bytes.NewReader(encoded)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, transportError(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, normalizeTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, normalizeTransport(err)
	}

	var env Response
	if err := json.Unmarshal(raw, &env); err != nil {
		// Non-JSON bodies carry no server message worth preserving.
		if resp.StatusCode/100 != 2 {
			return nil, statusError(resp.StatusCode, "", "")
		}
		return nil, transportError("decode response: " + err.Error())
	}

	if resp.StatusCode/100 != 2 {
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("message", env.Message).
			Msg("api request rejected")
		return nil, statusError(resp.StatusCode, env.Message, env.Code)
	}

	// A 2xx envelope can still declare failure; normalize it like any
	// other rejection so callers deal with one error shape.
	if !env.Success {
		return nil, statusError(resp.StatusCode, env.Message, env.Code)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, transportError("decode data: " + err.Error())
		}
	}
	return &env, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, out any) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch performs a PATCH request with an optional JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

func outcomeLabel(err error) string {
	apiErr := asAPIError(err)
	switch {
	case apiErr == nil:
		return "ok"
	case apiErr.Timeout():
		return "timeout"
	case apiErr.Transport():
		return "transport"
	default:
		return strconv.Itoa(apiErr.Status)
	}
}
