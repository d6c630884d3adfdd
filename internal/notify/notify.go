// Package notify delivers transient outcome notifications to one or more
// sinks: the terminal, a desktop command, Slack, or Discord. Delivery is
// best-effort; failures are logged, never returned.
package notify

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notifier is the interface notification sinks must satisfy.
type Notifier interface {
	Notify(level Level, text string)
}

// Nop is a Notifier that discards everything.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(Level, string) {}

// Multi fans a notification out to every sink.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(level Level, text string) {
	for _, n := range m {
		n.Notify(level, text)
	}
}

// Writer is a Notifier that prints to an io.Writer, used for terminal
// output.
type Writer struct {
	Out io.Writer
}

// Notify implements Notifier.
func (w Writer) Notify(level Level, text string) {
	if w.Out == nil {
		return
	}
	fmt.Fprintln(w.Out, prefix(level, text))
}

// Recorder is a Notifier for tests; it records every notification.
type Recorder struct {
	Levels []Level
	Texts  []string
}

// Notify implements Notifier.
func (r *Recorder) Notify(level Level, text string) {
	r.Levels = append(r.Levels, level)
	r.Texts = append(r.Texts, text)
}

// prefix decorates a notification text with its level for sinks that have
// no native severity display.
func prefix(level Level, text string) string {
	switch level {
	case LevelSuccess:
		return "[ok] " + text
	case LevelError:
		return "[error] " + text
	default:
		return text
	}
}

// logDeliveryError reports a failed best-effort delivery.
func logDeliveryError(sink string, err error) {
	log.Printf("notify: %s delivery failed: %v", sink, strings.TrimSpace(err.Error()))
}
