package speech

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCommandBridge_Unconfigured(t *testing.T) {
	b := NewCommandBridge("")
	if b.Available() {
		t.Error("Available() = true for empty command, want false")
	}
	if _, err := b.Start(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Start() err = %v, want ErrUnavailable", err)
	}
	// Stop on an idle bridge is a no-op.
	b.Stop()
}

func TestCommandBridge_Transcript(t *testing.T) {
	b := NewCommandBridge("printf 'buy milk\\n'")
	if !b.Available() {
		t.Fatal("Available() = false, want true")
	}

	events, err := b.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	ev, ok := <-events
	if !ok {
		t.Fatal("event channel closed without an event")
	}
	if ev.Err != nil {
		t.Fatalf("event err = %v, want transcript", ev.Err)
	}
	if ev.Transcript != "buy milk" {
		t.Errorf("Transcript = %q, want %q (trimmed)", ev.Transcript, "buy milk")
	}
	if _, ok := <-events; ok {
		t.Error("second event received, want exactly one per capture")
	}
}

func TestCommandBridge_CommandFailure(t *testing.T) {
	b := NewCommandBridge("exit 3")
	events, err := b.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	ev := <-events
	if ev.Err == nil {
		t.Error("event err = nil, want failure from non-zero exit")
	}
	if ev.Transcript != "" {
		t.Errorf("Transcript = %q, want empty on error", ev.Transcript)
	}
}

func TestCommandBridge_SecondStartRejected(t *testing.T) {
	b := NewCommandBridge("sleep 5")
	events, err := b.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := b.Start(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start err = %v, want ErrBusy", err)
	}

	b.Stop()
	select {
	case ev := <-events:
		if ev.Err == nil {
			t.Error("stopped capture delivered a transcript, want error event")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no terminal event after Stop")
	}

	// Bridge is reusable after the session ends.
	events2, err := b.Start(context.Background())
	if err != nil {
		t.Fatalf("Start after Stop: %v", err)
	}
	b.Stop()
	<-events2
}

func TestMockBridge_SingleShot(t *testing.T) {
	m := NewMockBridge()
	events, err := m.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !m.Running() {
		t.Error("Running() = false after Start")
	}
	if _, err := m.Start(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start err = %v, want ErrBusy", err)
	}

	m.EmitTranscript("hello")
	ev := <-events
	if ev.Transcript != "hello" {
		t.Errorf("Transcript = %q, want hello", ev.Transcript)
	}
	if _, ok := <-events; ok {
		t.Error("channel not closed after terminal event")
	}
	if m.Running() {
		t.Error("Running() = true after terminal event")
	}

	// A late emit must not panic or deliver anywhere.
	m.EmitTranscript("ghost")
}

func TestMockBridge_Unavailable(t *testing.T) {
	m := NewMockBridge()
	m.SetAvailable(false)
	if m.Available() {
		t.Error("Available() = true, want false")
	}
	if _, err := m.Start(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Start err = %v, want ErrUnavailable", err)
	}
}
