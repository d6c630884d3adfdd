// Package export files selected tasks as GitHub issues, one issue per
// task.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/ovelund/taskdeck/internal/taskapi"
)

// issueCreator abstracts the go-github issues service, enabling test
// mocks.
type issueCreator interface {
	Create(ctx context.Context, owner, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error)
}

// Exporter creates one GitHub issue per exported task.
type Exporter struct {
	issues issueCreator
	owner  string
	repo   string
}

// New creates an Exporter authenticated with a personal access token.
func New(token, owner, repo string) (*Exporter, error) {
	if token == "" || owner == "" || repo == "" {
		return nil, fmt.Errorf("export: token, owner and repo are required")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(context.Background(), ts))
	return &Exporter{issues: client.Issues, owner: owner, repo: repo}, nil
}

// newWithCreator injects a mock issues service for testing.
func newWithCreator(issues issueCreator, owner, repo string) *Exporter {
	return &Exporter{issues: issues, owner: owner, repo: repo}
}

// Export creates one issue per task, in order. It stops at the first
// failure and returns the number of issues created alongside the error.
func (e *Exporter) Export(ctx context.Context, tasks []taskapi.Task) (int, error) {
	for i, task := range tasks {
		req := &github.IssueRequest{
			Title: github.String(task.Title),
			Body:  github.String(issueBody(task)),
		}
		if _, _, err := e.issues.Create(ctx, e.owner, e.repo, req); err != nil {
			return i, fmt.Errorf("export: create issue for task %s: %w", task.ID, err)
		}
	}
	return len(tasks), nil
}

// issueBody renders the task fields into an issue body.
func issueBody(task taskapi.Task) string {
	var b strings.Builder
	if task.Description != "" {
		b.WriteString(task.Description)
		b.WriteString("\n\n")
	}
	status := "pending"
	if task.Completed {
		status = "completed"
	}
	fmt.Fprintf(&b, "---\nExported from taskdeck (task %s, %s).\n", task.ID, status)
	return b.String()
}
