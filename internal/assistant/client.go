// Package assistant implements the chat client for the backend assistant
// endpoint.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ovelund/taskdeck/internal/remote"
)

// TaskSummary is the minimal task projection attached to a reply.
type TaskSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Reply is one assistant response. Tasks is present only when the
// assistant chose to attach a task list.
type Reply struct {
	Response string        `json:"response"`
	Tasks    []TaskSummary `json:"tasks,omitempty"`
}

type chatRequest struct {
	Message string `json:"message"`
	Locale  string `json:"locale"`
}

// Options holds parameters for creating a Client.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	Tokens       remote.TokenSource
	Locale       string
	RequireToken bool
}

// Client performs the authenticated request/response exchange for one chat
// turn. It applies no retries; one Send is one POST.
type Client struct {
	caller *remote.Caller
	locale string
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	caller, err := remote.NewCaller(remote.CallerOpts{
		BaseURL:      opts.BaseURL,
		Timeout:      opts.Timeout,
		Tokens:       opts.Tokens,
		RequireToken: opts.RequireToken,
	})
	if err != nil {
		return nil, fmt.Errorf("assistant: %w", err)
	}
	locale := opts.Locale
	if locale == "" {
		locale = "en"
	}
	return &Client{caller: caller, locale: locale}, nil
}

// BaseURL returns the resolved backend address.
func (c *Client) BaseURL() string { return c.caller.BaseURL() }

// Send posts one chat message and returns the parsed reply. Errors are the
// remote taxonomy (connectivity, transport, parse) plus remote.ErrNoToken
// in require-token mode; callers fold them into a fallback turn.
func (c *Client) Send(ctx context.Context, message string) (*Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("assistant: message must not be empty")
	}
	var reply Reply
	err := c.caller.PostJSON(ctx, "/api/chat/", chatRequest{Message: message, Locale: c.locale}, &reply)
	if err != nil {
		return nil, err
	}
	// The response field is required; a body without it is malformed.
	if reply.Response == "" {
		return nil, &remote.ParseError{Err: fmt.Errorf("missing response field")}
	}
	return &reply, nil
}
