// Package speech bridges taskdeck to a platform speech-to-text capability
// that may be absent. A capture is single-shot: one start yields exactly
// one terminal event (a transcript or an error), then the event channel
// closes.
package speech

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by Start when no capture capability is
// configured. Callers are expected to treat it as a silent no-op.
var ErrUnavailable = errors.New("speech: capture unavailable")

// ErrBusy is returned by Start when a capture session is already running.
var ErrBusy = errors.New("speech: capture already running")

// Event is the terminal outcome of one capture session. Exactly one of
// Transcript or Err is meaningful.
type Event struct {
	Transcript string
	Err        error
}

// Bridge is the interface capture implementations must satisfy.
type Bridge interface {
	// Available reports whether the capture capability exists. Must be
	// checked before first use; probing never fails.
	Available() bool

	// Start begins a capture session and returns a channel that delivers
	// exactly one Event before closing. Returns ErrUnavailable or ErrBusy
	// without starting anything.
	Start(ctx context.Context) (<-chan Event, error)

	// Stop ends a running capture session. Idempotent; stopping an idle
	// bridge does nothing.
	Stop()
}
