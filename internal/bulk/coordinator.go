// Package bulk applies one user intent to many remote task records as a
// single logical operation, with an aggregate success or failure report.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ovelund/taskdeck/internal/notify"
	"github.com/ovelund/taskdeck/internal/taskapi"
)

// ErrBusy is returned when an action is started while another is still in
// flight. Actions are never queued.
var ErrBusy = errors.New("bulk: another action is in flight")

// TaskMutator abstracts the batched mutation calls of the task client.
type TaskMutator interface {
	BulkDelete(ctx context.Context, ids []string) error
	BulkSetStatus(ctx context.Context, ids []string, status taskapi.Status) error
}

// Confirmer guards destructive actions. Confirm returns true when the user
// approved the prompt.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Options holds parameters for creating a Coordinator.
type Options struct {
	Client   TaskMutator
	Notifier notify.Notifier // optional; defaults to notify.Nop
	Confirm  Confirmer       // required for Delete

	// OnRefresh is invoked after a successful action so the owning list
	// view reloads. Optional.
	OnRefresh func()
	// OnClearSelection is invoked after a successful action so the owning
	// list view empties its selection. Optional.
	OnClearSelection func()
}

// Coordinator issues batched mutations over a borrowed selection snapshot.
// Outcomes are reported through the notifier: a mutation failure is
// notified and then swallowed, so the caller's selection survives for a
// retry. Only the in-flight guard surfaces as a returned error.
type Coordinator struct {
	client           TaskMutator
	notifier         notify.Notifier
	confirm          Confirmer
	onRefresh        func()
	onClearSelection func()

	busy atomic.Bool
}

// New creates a Coordinator.
func New(opts Options) (*Coordinator, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("bulk: client is required")
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Coordinator{
		client:           opts.Client,
		notifier:         notifier,
		confirm:          opts.Confirm,
		onRefresh:        opts.OnRefresh,
		onClearSelection: opts.OnClearSelection,
	}, nil
}

// Delete removes every task in ids with one batched call, after an
// explicit confirmation. An empty selection or a declined confirmation
// aborts silently.
func (c *Coordinator) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.busy.Store(false)

	prompt := fmt.Sprintf("Are you sure you want to delete %d selected tasks?", len(ids))
	if c.confirm == nil || !c.confirm.Confirm(prompt) {
		return nil
	}

	if err := c.client.BulkDelete(ctx, ids); err != nil {
		c.notifier.Notify(notify.LevelError, fmt.Sprintf("Error deleting tasks: %v", err))
		return nil
	}
	c.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("%d tasks deleted successfully!", len(ids)))
	c.settle()
	return nil
}

// MarkComplete marks every task in ids completed with one batched call.
func (c *Coordinator) MarkComplete(ctx context.Context, ids []string) error {
	return c.setStatus(ctx, ids, taskapi.StatusCompleted)
}

// MarkPending marks every task in ids pending with one batched call.
func (c *Coordinator) MarkPending(ctx context.Context, ids []string) error {
	return c.setStatus(ctx, ids, taskapi.StatusPending)
}

func (c *Coordinator) setStatus(ctx context.Context, ids []string, status taskapi.Status) error {
	if len(ids) == 0 {
		return nil
	}
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.busy.Store(false)

	if err := c.client.BulkSetStatus(ctx, ids, status); err != nil {
		c.notifier.Notify(notify.LevelError, fmt.Sprintf("Error marking tasks %s: %v", statusVerb(status), err))
		return nil
	}
	c.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("%d tasks marked %s!", len(ids), status))
	c.settle()
	return nil
}

// settle runs the post-success callbacks: refresh first, then clear the
// selection, matching the order the list view expects.
func (c *Coordinator) settle() {
	if c.onRefresh != nil {
		c.onRefresh()
	}
	if c.onClearSelection != nil {
		c.onClearSelection()
	}
}

func statusVerb(status taskapi.Status) string {
	if status == taskapi.StatusCompleted {
		return "complete"
	}
	return "pending"
}
