// Package api implements the REST transport to the Alveera backend: JSON
// request/response helpers, bearer token attachment, correlation IDs and
// outbound request metrics.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pranavchugh1/alveera/pkg/httpclient"
	"github.com/pranavchugh1/alveera/pkg/logger"
)

// TokenSource supplies the current bearer token for authenticated requests.
// Implementations must return the token held right now, not a snapshot taken
// when the source was created; an empty string means no token is attached.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token TokenSource, mainly for tests.
type StaticToken string

// Token returns the fixed token value.
func (s StaticToken) Token() string { return string(s) }

// Client issues JSON requests against the backend base URL.
type Client struct {
	baseURL string
	http    *httpclient.CircuitBreakerClient
	tokens  TokenSource
	logger  *slog.Logger
}

// New creates an API client for the given base URL. The base URL should not
// include the /api prefix; paths passed to request methods carry it.
func New(baseURL string, hc *httpclient.CircuitBreakerClient, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  log,
	}
}

// WithTokenSource returns a copy of the client that attaches the source's
// current bearer token to every request.
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	cpy := *c
	cpy.tokens = ts
	return &cpy
}

// Get issues a GET request and decodes the JSON response into out (skipped
// when out is nil). fallbackMsg is the user-facing message used when an error
// response has no detail body.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any, fallbackMsg string) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, fallbackMsg)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any, fallbackMsg string) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, fallbackMsg)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any, fallbackMsg string) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out, fallbackMsg)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, fallbackMsg string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, fallbackMsg)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, fallbackMsg string) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	// Bearer token is read at send time so a login or logout between calls
	// is always reflected.
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	correlationID := logger.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	req.Header.Set("X-Correlation-ID", correlationID)

	start := time.Now()
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		observeRequest(method, path, 0, start)
		c.logger.ErrorContext(ctx, "backend request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	observeRequest(method, path, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.ParseResponseError(resp, fallbackMsg)
	}

	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
