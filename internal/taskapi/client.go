// Package taskapi implements the client for the backend task endpoints:
// listing and batched mutations.
package taskapi

import (
	"context"
	"fmt"
	"time"

	"github.com/ovelund/taskdeck/internal/remote"
)

// Status values accepted by the bulk status endpoint.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Task is one task record as returned by the backend.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type bulkStatusRequest struct {
	IDs    []string `json:"ids"`
	Status Status   `json:"status"`
}

// Options holds parameters for creating a Client.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	Tokens       remote.TokenSource
	RequireToken bool
}

// Client talks to the task endpoints. Batched calls carry all target ids
// in one request; the backend processes them as one logical unit.
type Client struct {
	caller *remote.Caller
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
		return nil, fmt.Errorf("taskapi: %w", err)
	}
	return &Client{caller: caller}, nil
}

// List fetches the caller's tasks.
func (c *Client) List(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.caller.GetJSON(ctx, "/api/users/tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// BulkDelete deletes all tasks in ids with one batched call.
func (c *Client) BulkDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("taskapi: bulk delete: no ids")
	}
	return c.caller.PostJSON(ctx, "/api/users/tasks/bulk-delete", bulkDeleteRequest{IDs: ids}, nil)
}

// BulkSetStatus sets the status of all tasks in ids with one batched call.
func (c *Client) BulkSetStatus(ctx context.Context, ids []string, status Status) error {
	if len(ids) == 0 {
		return fmt.Errorf("taskapi: bulk status: no ids")
	}
	if status != StatusPending && status != StatusCompleted {
		return fmt.Errorf("taskapi: bulk status: invalid status %q", status)
	}
	return c.caller.PostJSON(ctx, "/api/users/tasks/bulk-status", bulkStatusRequest{IDs: ids, Status: status}, nil)
}
