// Package remote implements the shared HTTP plumbing for talking to the
// task backend: base address resolution, bearer authentication, and a
// typed error taxonomy that callers can branch on.
package remote

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
)

// TokenSource supplies the stored bearer token. The second return value is
// false when no token is present.
type TokenSource interface {
	Token() (string, bool)
}

// ResolveBaseURL normalizes a configured base address for client use. A
// wildcard bind address (0.0.0.0) is substituted with localhost so that a
// server advertising its bind address is still reachable from the same
// machine. Trailing slashes are stripped.
func ResolveBaseURL(raw string) string {
	resolved := strings.Replace(raw, "0.0.0.0", "localhost", 1)
	return strings.TrimRight(resolved, "/")
}

// Caller issues authenticated JSON requests against the task backend.
type Caller struct {
	base         string
	client       *http.Client
	tokens       TokenSource
	requireToken bool
}

// CallerOpts holds parameters for creating a Caller.
type CallerOpts struct {
	BaseURL      string
	Timeout      time.Duration // bounds every request; zero means no limit
	Tokens       TokenSource   // optional; requests go out unauthenticated without it
	RequireToken bool          // fail fast instead of sending unauthenticated requests
}

// NewCaller creates a Caller. The base URL is resolved via ResolveBaseURL.
func NewCaller(opts CallerOpts) (*Caller, error) {
	base := ResolveBaseURL(opts.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("remote: base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("remote: invalid base URL %q: %w", opts.BaseURL, err)
	}
	return &Caller{
		base:         base,
		client:       &http.Client{Timeout: opts.Timeout},
		tokens:       opts.Tokens,
		requireToken: opts.RequireToken,
	}, nil
}

// BaseURL returns the resolved base address.
func (c *Caller) BaseURL() string { return c.base }

// PostJSON sends body as JSON to path and decodes the response into out
// when out is non-nil. Errors are ErrNoToken, *ConnectivityError,
// *TransportError or *ParseError.
func (c *Caller) PostJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("remote: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// GetJSON fetches path and decodes the response into out.
func (c *Caller) GetJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	return c.do(req, out)
}

// PostForm sends form-encoded values to path and decodes the response into
// out. Used by the login flow, whose endpoint takes form data.
func (c *Caller) PostForm(ctx context.Context, path string, values url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Caller) do(req *http.Request, out any) error {
	token, ok := "", false
	if c.tokens != nil {
		token, ok = c.tokens.Token()
	}
	if ok {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if c.requireToken {
		return ErrNoToken
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &TransportError{StatusCode: resp.StatusCode}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Err: err}
	}
	return nil
}
