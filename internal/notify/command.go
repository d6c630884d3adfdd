package notify

import (
	"log"
	"os/exec"
	"strings"
)

// CommandNotifier runs a shell command template for each notification,
// e.g. "notify-send 'taskdeck' '{{.Text}}'". Placeholders {{.Level}} and
// {{.Text}} are substituted with the notification values.
type CommandNotifier struct {
	Command string
}

// Notify implements Notifier. Best-effort: a failing command is logged.
func (c CommandNotifier) Notify(level Level, text string) {
	if c.Command == "" {
		return
	}
	cmdStr := templateCommand(c.Command, level, text)
	if out, err := exec.Command("sh", "-c", cmdStr).CombinedOutput(); err != nil {
		log.Printf("notify: command failed: %v: %s", err, strings.TrimSpace(string(out)))
	}
}

// templateCommand replaces placeholders in the command template.
func templateCommand(command string, level Level, text string) string {
	r := strings.NewReplacer(
		"{{.Level}}", string(level),
		"{{.Text}}", strings.ReplaceAll(text, "'", "'\\''"),
	)
	return r.Replace(command)
}
