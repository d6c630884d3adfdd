package speech

import (
	"context"
	"os/exec"
	"strings"
	"sync"
)

// CommandBridge implements Bridge by running an external recognizer
// command once per capture. The command is expected to record a single
// utterance and print the transcript to stdout.
type CommandBridge struct {
	command string

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// NewCommandBridge creates a CommandBridge. An empty command means the
// capability is unavailable.
func NewCommandBridge(command string) *CommandBridge {
	return &CommandBridge{command: command}
}

// Available reports whether a recognizer command is configured.
func (b *CommandBridge) Available() bool {
	return b.command != ""
}

// Start launches the recognizer command. The returned channel delivers one
// Event when the command exits, then closes.
func (b *CommandBridge) Start(ctx context.Context) (<-chan Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.Available() {
		return nil, ErrUnavailable
	}
	if b.running {
		return nil, ErrBusy
	}

	runCtx, cancel := context.WithCancel(ctx)
	b.running = true
	b.cancel = cancel

	events := make(chan Event, 1)
	go b.run(runCtx, events)
	return events, nil
}

// Stop kills a running capture. The terminal event for that capture is an
// error event (the command's interrupted exit).
func (b *CommandBridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
	}
}

func (b *CommandBridge) run(ctx context.Context, events chan<- Event) {
	out, err := exec.CommandContext(ctx, "sh", "-c", b.command).Output()

	b.mu.Lock()
	b.running = false
	b.cancel = nil
	b.mu.Unlock()

	if err != nil {
		events <- Event{Err: err}
	} else {
		events <- Event{Transcript: strings.TrimSpace(string(out))}
	}
	close(events)
}
