// Package session owns one conversation with the backend assistant: the
// ordered message history, the uncommitted input draft, the single
// in-flight request guard, and the fusion of speech capture into the
// draft.
package session

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/ovelund/taskdeck/internal/assistant"
	"github.com/ovelund/taskdeck/internal/remote"
	"github.com/ovelund/taskdeck/internal/speech"
)

// Role attributes a turn to its author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Kind distinguishes plain replies from replies carrying a task list.
type Kind string

const (
	KindPlain    Kind = "plain"
	KindTaskList Kind = "task-list"
)

// FallbackText is the fixed assistant turn substituted for any chat-flow
// failure. The concrete failure kind is logged, never shown.
const FallbackText = "Sorry, there was an error processing your request. Please make sure the backend server is running."

// Message is one turn in the conversation.
type Message struct {
	Role    Role                    `json:"role"`
	Content string                  `json:"content"`
	Kind    Kind                    `json:"kind"`
	Tasks   []assistant.TaskSummary `json:"tasks,omitempty"` // present iff Kind == KindTaskList
}

// Sender abstracts the assistant client for one chat turn.
type Sender interface {
	Send(ctx context.Context, message string) (*assistant.Reply, error)
}

// Session is one open conversation. History is append-only and discarded
// when the session is closed; nothing persists across runs.
//
// All methods are safe for concurrent use; in practice one goroutine
// drives input while the capture pump delivers transcripts.
type Session struct {
	client Sender
	bridge speech.Bridge
	logf   func(format string, args ...any)

	mu        sync.Mutex
	history   []Message
	draft     string
	sending   bool
	capturing bool
	closed    bool
}

// New creates a Session. bridge may be nil when no capture capability
// exists.
func New(client Sender, bridge speech.Bridge) *Session {
	return &Session{
		client: client,
		bridge: bridge,
		logf:   log.Printf,
	}
}

// SetLogf overrides the diagnostic logger. Intended for tests.
func (s *Session) SetLogf(logf func(format string, args ...any)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logf = logf
}

// Draft returns the current uncommitted input text.
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDraft replaces the uncommitted input text.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.draft = text
}

// History returns a copy of the message history in append order.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// Sending reports whether a chat request is in flight.
func (s *Session) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// Capturing reports whether a speech capture session is active.
func (s *Session) Capturing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capturing
}

// Submit commits the draft as a user turn and performs one chat
// round-trip. It is a no-op when the trimmed draft is empty or a request
// is already in flight. Any client failure appends the fixed fallback
// turn; the error never escapes. Submit blocks until the turn settles.
func (s *Session) Submit(ctx context.Context) {
	s.mu.Lock()
	text := strings.TrimSpace(s.draft)
	if text == "" || s.sending || s.closed {
		s.mu.Unlock()
		return
	}
	s.history = append(s.history, Message{Role: RoleUser, Content: text, Kind: KindPlain})
	s.draft = ""
	s.sending = true
	logf := s.logf
	s.mu.Unlock()

	reply, err := s.client.Send(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sending = false
	if s.closed {
		// The session was torn down mid-flight; drop the result.
		return
	}
	if err != nil {
		logf("session: chat request failed (%s): %v", remote.ErrorKind(err), err)
		s.history = append(s.history, Message{Role: RoleAssistant, Content: FallbackText, Kind: KindPlain})
		return
	}
	msg := Message{Role: RoleAssistant, Content: reply.Response, Kind: KindPlain}
	if len(reply.Tasks) > 0 {
		msg.Kind = KindTaskList
		msg.Tasks = reply.Tasks
	}
	s.history = append(s.history, msg)
}

// StartCapture begins a single-utterance speech capture. No-op when the
// bridge is absent or unavailable, when a capture is already running, or
// when the session is closed. The transcript replaces the draft; a capture
// error is logged and leaves the draft untouched.
func (s *Session) StartCapture(ctx context.Context) {
	s.mu.Lock()
	if s.closed || s.capturing || s.bridge == nil || !s.bridge.Available() {
		s.mu.Unlock()
		return
	}
	events, err := s.bridge.Start(ctx)
	if err != nil {
		logf := s.logf
		s.mu.Unlock()
		logf("session: speech capture start: %v", err)
		return
	}
	s.capturing = true
	s.mu.Unlock()

	go s.pump(events)
}

// StopCapture ends a running capture session. Idempotent.
func (s *Session) StopCapture() {
	s.mu.Lock()
	capturing := s.capturing
	bridge := s.bridge
	s.mu.Unlock()
	if capturing && bridge != nil {
		bridge.Stop()
	}
}

// pump waits for the capture's terminal event.
func (s *Session) pump(events <-chan speech.Event) {
	ev, ok := <-events

	s.mu.Lock()
	defer s.mu.Unlock()
	s.capturing = false
	if !ok || s.closed {
		return
	}
	if ev.Err != nil {
		s.logf("session: speech capture failed: %v", ev.Err)
		return
	}
	s.draft = ev.Transcript
}

// Close discards the session. A pending chat request or capture event may
// still complete, but its result is dropped without touching state.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	capturing := s.capturing
	bridge := s.bridge
	s.mu.Unlock()
	if capturing && bridge != nil {
		bridge.Stop()
	}
}

