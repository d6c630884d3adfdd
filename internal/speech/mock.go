package speech

import (
	"context"
	"sync"
)

// MockBridge implements Bridge for testing. Each capture waits for the
// test to call EmitTranscript or EmitError, which delivers the terminal
// event and ends the session.
type MockBridge struct {
	mu          sync.Mutex
	available   bool
	running     bool
	startCount  int
	stopCount   int
	events      chan Event
	stopAsError bool
}

// NewMockBridge creates an available MockBridge.
func NewMockBridge() *MockBridge {
	return &MockBridge{available: true}
}

// SetAvailable toggles the reported capability.
func (m *MockBridge) SetAvailable(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = ok
}

// Available reports the configured capability.
func (m *MockBridge) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// Start begins a mock capture session.
func (m *MockBridge) Start(ctx context.Context) (<-chan Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.available {
		return nil, ErrUnavailable
	}
	if m.running {
		return nil, ErrBusy
	}
	m.running = true
	m.startCount++
	m.events = make(chan Event, 1)
	return m.events, nil
}

// Stop records the stop call. When configured via FailOnStop, it also
// delivers an error event, mimicking a killed recognizer process.
func (m *MockBridge) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCount++
	if m.running && m.stopAsError {
		m.deliverLocked(Event{Err: context.Canceled})
	}
}

// FailOnStop makes Stop deliver an error event for the running session.
func (m *MockBridge) FailOnStop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAsError = true
}

// EmitTranscript delivers the terminal transcript event for the running
// session.
func (m *MockBridge) EmitTranscript(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliverLocked(Event{Transcript: text})
}

// EmitError delivers the terminal error event for the running session.
func (m *MockBridge) EmitError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliverLocked(Event{Err: err})
}

func (m *MockBridge) deliverLocked(ev Event) {
	if !m.running {
		return
	}
	m.running = false
	m.events <- ev
	close(m.events)
	m.events = nil
}

// Running reports whether a capture session is active.
func (m *MockBridge) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// StartCount returns how many captures were started.
func (m *MockBridge) StartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startCount
}

// StopCount returns how many times Stop was called.
func (m *MockBridge) StopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCount
}
