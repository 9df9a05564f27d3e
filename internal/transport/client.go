// Package transport provides the HTTP plumbing shared by the catalog
// fetcher and the watsonx chat client: a bounded-timeout client, bearer
// authentication, and JSON response decoding.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/wxcompass/wxcompass/pkg/errors"
)

// DefaultHTTPTimeout bounds every upstream request. The watsonx catalog
// endpoint is expected to answer well within this.
const DefaultHTTPTimeout = 10 * time.Second

// Client provides HTTP client functionality with optional bearer auth.
type Client struct {
	http  *http.Client
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithBearerToken sets a bearer token applied to every request.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying http.Client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a new transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request with common headers and auth applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// Get performs a GET request with the given query parameters.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.WrapValidation("url", err)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	return c.Do(req)
}

// Post performs a POST request with a JSON-encoded body.
func (c *Client) Post(ctx context.Context, rawURL string, query url.Values, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.WrapParse("json", "request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapValidation("url", err)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	return c.Do(req)
}
