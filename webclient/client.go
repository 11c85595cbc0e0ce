// Package webclient performs the unauthenticated GET requests shared by all
// resolvers: browser-like headers, status checks and bounded bodies.
package webclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/phuslu/log"

	"stock-movers/logging"
)

// Some public finance endpoints reject requests without a browser user agent.
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// defaultMaxBody caps every response body. Logos and chart payloads fit well below it.
const defaultMaxBody = 4 << 20

// StatusError is returned for any non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

// Client wraps an http.Client. The zero value is not usable; call New.
type Client struct {
	http      *http.Client
	userAgent string
	maxBody   int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying client. Its transport is wrapped for logging.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

func WithMaxBody(n int64) Option { return func(c *Client) { c.maxBody = n } }

// New builds a Client. Requests carry no client-level timeout; callers bound
// them through their context.
func New(logger *log.Logger, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{},
		userAgent: defaultUserAgent,
		maxBody:   defaultMaxBody,
	}
	for _, o := range opts {
		o(c)
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *c.http
	wrapped.Transport = &loggingTransport{base: base, logger: logging.OrDiscard(logger)}
	c.http = &wrapped
	return c
}

// Get fetches url and returns the body of a 200 response.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json,image/avif,image/webp,image/png,image/*,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// GetJSON fetches url and decodes the body into a generic value suitable for
// JSONPath queries.
func (c *Client) GetJSON(ctx context.Context, url string) (any, error) {
	var v any
	if err := c.DecodeJSON(ctx, url, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeJSON fetches url and decodes the body into v.
func (c *Client) DecodeJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// loggingTransport logs every round trip at debug level.
type loggingTransport struct {
	base   http.RoundTripper
	logger *log.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug().Str("host", req.URL.Host).Str("path", req.URL.Path).Dur("elapsed", time.Since(start)).Err(err).Msg("request failed")
		return nil, err
	}
	t.logger.Debug().Str("host", req.URL.Host).Str("path", req.URL.Path).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("request")
	return resp, nil
}
