// Package digest posts a periodic summary of the remote task list to the
// configured notifiers.
package digest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ovelund/taskdeck/internal/notify"
	"github.com/ovelund/taskdeck/internal/taskapi"
)

// maxListedTitles caps how many pending task titles a digest spells out.
const maxListedTitles = 5

// cronParser uses standard 5-field cron expressions (minute, hour, dom,
// month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a 5-field cron expression.
func ValidateSchedule(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("digest: invalid schedule %q: %w", expr, err)
	}
	return nil
}

// nextRun parses a 5-field cron expression and returns the duration until
// the next fire time.
func nextRun(expr string, now time.Time) (time.Duration, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0, fmt.Errorf("digest: parse schedule: %w", err)
	}
	d := sched.Next(now).Sub(now)
	if d < 0 {
		d = 0
	}
	return d, nil
}

// Lister abstracts the task client's list call.
type Lister interface {
	List(ctx context.Context) ([]taskapi.Task, error)
}

// Watcher runs the digest loop.
type Watcher struct {
	tasks    Lister
	notifier notify.Notifier
	schedule string
}

// NewWatcher creates a Watcher.
func NewWatcher(tasks Lister, notifier notify.Notifier, schedule string) (*Watcher, error) {
	if tasks == nil {
		return nil, fmt.Errorf("digest: task lister is required")
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if err := ValidateSchedule(schedule); err != nil {
		return nil, err
	}
	return &Watcher{tasks: tasks, notifier: notifier, schedule: schedule}, nil
}

// Run posts a digest on every schedule fire until ctx is cancelled. A
// failed list is logged and skipped; the loop keeps going.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		wait, err := nextRun(w.schedule, time.Now())
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		tasks, err := w.tasks.List(ctx)
		if err != nil {
			log.Printf("digest: list tasks: %v", err)
			continue
		}
		if text := Build(tasks); text != "" {
			w.notifier.Notify(notify.LevelInfo, text)
		}
	}
}

// Build renders the digest text. Returns "" when there is nothing worth
// reporting (no tasks at all).
func Build(tasks []taskapi.Task) string {
	if len(tasks) == 0 {
		return ""
	}
	var pending, completed int
	var titles []string
	for _, t := range tasks {
		if t.Completed {
			completed++
			continue
		}
		pending++
		if len(titles) < maxListedTitles {
			titles = append(titles, t.Title)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Task digest: %d pending, %d completed.", pending, completed)
	if len(titles) > 0 {
		b.WriteString(" Next up: ")
		b.WriteString(strings.Join(titles, ", "))
		if pending > len(titles) {
			fmt.Fprintf(&b, " (+%d more)", pending-len(titles))
		}
		b.WriteString(".")
	}
	return b.String()
}
