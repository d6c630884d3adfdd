package bulk

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ovelund/taskdeck/internal/notify"
	"github.com/ovelund/taskdeck/internal/taskapi"
)

// fakeMutator scripts the task client. When block is non-nil, calls wait
// for it to be closed.
type fakeMutator struct {
	mu          sync.Mutex
	deleteCalls [][]string
	statusCalls []statusCall
	err         error
	block       chan struct{}
	begun       chan struct{}
}

type statusCall struct {
	ids    []string
	status taskapi.Status
}

func (f *fakeMutator) BulkDelete(ctx context.Context, ids []string) error {
	f.mu.Lock()
	f.deleteCalls = append(f.deleteCalls, ids)
	block, begun := f.block, f.begun
	f.mu.Unlock()
	if begun != nil {
		begun <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return f.err
}

func (f *fakeMutator) BulkSetStatus(ctx context.Context, ids []string, status taskapi.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, statusCall{ids: ids, status: status})
	return f.err
}

type fixture struct {
	client    *fakeMutator
	notifier  *notify.Recorder
	coord     *Coordinator
	refreshed int
	cleared   int
	confirmed bool
	prompts   []string
}

func newFixture(t *testing.T, approve bool) *fixture {
	t.Helper()
	f := &fixture{client: &fakeMutator{}, notifier: &notify.Recorder{}, confirmed: approve}
	coord, err := New(Options{
		Client:   f.client,
		Notifier: f.notifier,
		Confirm: ConfirmFunc(func(prompt string) bool {
			f.prompts = append(f.prompts, prompt)
			return f.confirmed
		}),
		OnRefresh:        func() { f.refreshed++ },
		OnClearSelection: func() { f.cleared++ },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.coord = coord
	return f
}

func TestDelete_Success(t *testing.T) {
	f := newFixture(t, true)

	if err := f.coord.Delete(context.Background(), []string{"t1", "t2"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(f.client.deleteCalls) != 1 {
		t.Fatalf("delete calls = %d, want 1 batched call", len(f.client.deleteCalls))
	}
	got := f.client.deleteCalls[0]
	if len(got) != 2 || got[0] != "t1" || got[1] != "t2" {
		t.Errorf("batched ids = %v, want [t1 t2] in order", got)
	}
	if len(f.prompts) != 1 || !strings.Contains(f.prompts[0], "2") {
		t.Errorf("prompts = %v, want one prompt mentioning the count", f.prompts)
	}
	if len(f.notifier.Texts) != 1 || f.notifier.Texts[0] != "2 tasks deleted successfully!" {
		t.Errorf("notifications = %v, want success with count", f.notifier.Texts)
	}
	if f.notifier.Levels[0] != notify.LevelSuccess {
		t.Errorf("level = %q, want success", f.notifier.Levels[0])
	}
	if f.refreshed != 1 || f.cleared != 1 {
		t.Errorf("refreshed = %d, cleared = %d, want 1 and 1", f.refreshed, f.cleared)
	}
}

func TestDelete_EmptySelectionIsNoop(t *testing.T) {
	f := newFixture(t, true)

	if err := f.coord.Delete(context.Background(), nil); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(f.client.deleteCalls) != 0 {
		t.Errorf("delete calls = %d, want 0", len(f.client.deleteCalls))
	}
	if len(f.prompts) != 0 {
		t.Errorf("prompts = %v, want none", f.prompts)
	}
	if len(f.notifier.Texts) != 0 {
		t.Errorf("notifications = %v, want none", f.notifier.Texts)
	}
}

func TestDelete_ConfirmationDeclined(t *testing.T) {
	f := newFixture(t, false)

	if err := f.coord.Delete(context.Background(), []string{"t1"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(f.client.deleteCalls) != 0 {
		t.Errorf("delete calls = %d, want 0 after declined confirmation", len(f.client.deleteCalls))
	}
	if len(f.notifier.Texts) != 0 {
		t.Errorf("notifications = %v, want silent abort", f.notifier.Texts)
	}
	if f.refreshed != 0 || f.cleared != 0 {
		t.Error("callbacks invoked after declined confirmation")
	}
}

func TestDelete_FailureKeepsSelection(t *testing.T) {
	f := newFixture(t, true)
	f.client.err = errors.New("backend exploded")

	if err := f.coord.Delete(context.Background(), []string{"t1", "t2"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(f.notifier.Texts) != 1 {
		t.Fatalf("notifications = %v, want one error", f.notifier.Texts)
	}
	if f.notifier.Levels[0] != notify.LevelError {
		t.Errorf("level = %q, want error", f.notifier.Levels[0])
	}
	if !strings.Contains(f.notifier.Texts[0], "backend exploded") {
		t.Errorf("error text = %q, want the failure message verbatim", f.notifier.Texts[0])
	}
	if f.refreshed != 0 || f.cleared != 0 {
		t.Error("callbacks invoked on failure; selection must survive for retry")
	}
}

func TestMarkComplete_Success(t *testing.T) {
	f := newFixture(t, true)

	if err := f.coord.MarkComplete(context.Background(), []string{"t1", "t2"}); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}

	if len(f.client.statusCalls) != 1 {
		t.Fatalf("status calls = %d, want 1 batched call", len(f.client.statusCalls))
	}
	call := f.client.statusCalls[0]
	if call.status != taskapi.StatusCompleted {
		t.Errorf("status = %q, want completed", call.status)
	}
	if len(call.ids) != 2 || call.ids[0] != "t1" || call.ids[1] != "t2" {
		t.Errorf("ids = %v, want [t1 t2]", call.ids)
	}
	if len(f.prompts) != 0 {
		t.Errorf("prompts = %v, want none (non-destructive)", f.prompts)
	}
	if !strings.Contains(f.notifier.Texts[0], "2") {
		t.Errorf("success text = %q, want the count in it", f.notifier.Texts[0])
	}
	if f.refreshed != 1 || f.cleared != 1 {
		t.Errorf("refreshed = %d, cleared = %d, want 1 and 1", f.refreshed, f.cleared)
	}
}

func TestMarkPending_Success(t *testing.T) {
	f := newFixture(t, true)

	if err := f.coord.MarkPending(context.Background(), []string{"t3"}); err != nil {
		t.Fatalf("MarkPending: %v", err)
	}
	call := f.client.statusCalls[0]
	if call.status != taskapi.StatusPending {
		t.Errorf("status = %q, want pending", call.status)
	}
	if f.notifier.Texts[0] != "1 tasks marked pending!" {
		t.Errorf("success text = %q, want %q", f.notifier.Texts[0], "1 tasks marked pending!")
	}
}

func TestMarkComplete_FailureText(t *testing.T) {
	f := newFixture(t, true)
	f.client.err = errors.New("boom")

	if err := f.coord.MarkComplete(context.Background(), []string{"t1"}); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if got := f.notifier.Texts[0]; !strings.HasPrefix(got, "Error marking tasks complete:") {
		t.Errorf("error text = %q, want %q prefix", got, "Error marking tasks complete:")
	}
}

func TestOverlappingActionsRejected(t *testing.T) {
	f := newFixture(t, true)
	f.client.block = make(chan struct{})
	f.client.begun = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		done <- f.coord.Delete(context.Background(), []string{"t1"})
	}()
	<-f.client.begun

	if err := f.coord.MarkComplete(context.Background(), []string{"t2"}); !errors.Is(err, ErrBusy) {
		t.Errorf("overlapping action err = %v, want ErrBusy", err)
	}
	if len(f.client.statusCalls) != 0 {
		t.Error("overlapping action reached the client")
	}

	close(f.client.block)
	if err := <-done; err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The guard releases once the first action settles.
	if err := f.coord.MarkComplete(context.Background(), []string{"t2"}); err != nil {
		t.Errorf("action after settle err = %v, want nil", err)
	}
}

func TestNew_RequiresClient(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("New without client = nil error, want error")
	}
}

func TestDelete_NilConfirmerAborts(t *testing.T) {
	coord, err := New(Options{Client: &fakeMutator{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := coord.Delete(context.Background(), []string{"t1"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
