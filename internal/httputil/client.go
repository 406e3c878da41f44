// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client shared by the collection API
// adapters.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Client defaults.
const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "museum-search/0.1"

	// maxErrorBody caps how much of a non-2xx body is kept for the error.
	maxErrorBody = 512
)

// StatusError reports a non-2xx response from a collection API.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

// Config configures a Client.
type Config struct {
	Timeout   time.Duration
	UserAgent string

	// RequestsPerSecond bounds the request rate of one limiter returned by
	// NewLimiter. Zero means unlimited.
	RequestsPerSecond float64
}

// Client issues GET requests and decodes JSON responses. It does not retry:
// a failed request fails the adapter call that made it. Client is safe for
// concurrent use and holds no per-search state.
type Client struct {
	http      *http.Client
	userAgent string
	rps       float64
}

// New returns a Client. Zero fields in cfg select the defaults.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		rps:       cfg.RequestsPerSecond,
	}
}

// WithHTTPClient returns a copy of c that sends requests through hc. Tests
// use it with httptest servers.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	cp := *c
	cp.http = hc
	return &cp
}

// NewLimiter returns a fresh limiter for one adapter call. Limiters are
// never shared between searches. A zero rps argument falls back to the
// client's configured rate; both zero means unlimited.
func (c *Client) NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		rps = c.rps
	}
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// GetJSON fetches rawURL and decodes the JSON body into out. When lim is
// non-nil the request waits for a token first. Non-2xx responses return a
// *StatusError.
func (c *Client) GetJSON(ctx context.Context, lim *rate.Limiter, rawURL string, out any) error {
	if lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	shown := Redact(rawURL)
	resp, err := c.http.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = shown
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		// Drain the rest so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: shown, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", shown, err)
	}
	return nil
}

// secretParams are query parameters never written to logs or errors.
var secretParams = []string{"apikey", "api_key", "key", "token"}

// Redact masks credential query parameters in rawURL.
func Redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return rawURL
	}
	q := u.Query()
	changed := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	u.RawQuery = q.Encode()
	return u.String()
}
