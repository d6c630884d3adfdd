package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ovelund/taskdeck/internal/dashboard"
	"github.com/ovelund/taskdeck/internal/session"
	"github.com/ovelund/taskdeck/internal/speech"
)

func newChatCmd() *cobra.Command {
	var (
		configPath    string
		withDashboard bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive assistant session",
		Long:  "Opens a conversational session with the backend assistant. Type a message and press enter to send it; /voice captures one spoken utterance into the draft; /quit leaves.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, configPath, withDashboard)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Taskdeck config file")
	cmd.Flags().BoolVar(&withDashboard, "dashboard", false, "serve the local web dashboard alongside the session")
	return cmd
}

func runChat(cmd *cobra.Command, configPath string, withDashboard bool) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	client, err := a.assistantClient()
	if err != nil {
		return err
	}

	var bridge speech.Bridge
	if a.cfg.Speech.Command != "" {
		bridge = speech.NewCommandBridge(a.cfg.Speech.Command)
	}
	sess := session.New(client, bridge)
	defer sess.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if withDashboard {
		tasks, err := a.taskClient()
		if err != nil {
			return err
		}
		go dashboard.Start(ctx, dashboard.StartOpts{
			Session: sess,
			Tasks:   tasks,
			Port:    a.cfg.Dashboard.Port,
			Out:     cmd.OutOrStdout(),
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Connected to %s. Type /quit to leave.\n", client.BaseURL())

	scanner := bufio.NewScanner(cmd.InOrStdin())
	seen := 0
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()

		switch line {
		case "/quit", "/exit":
			return nil
		case "/voice":
			if bridge == nil || !bridge.Available() {
				fmt.Fprintln(out, "Speech capture is not available.")
				continue
			}
			captureVoice(ctx, sess, out)
			continue
		case "":
			// An empty line submits the draft, which a voice capture may
			// have filled. With nothing drafted it is a no-op.
			if sess.Draft() == "" {
				continue
			}
		default:
			sess.SetDraft(line)
		}

		sess.Submit(ctx)
		seen = printNewTurns(out, sess, seen)
	}
}

// captureVoice runs one speech capture to completion and reports the
// transcribed draft.
func captureVoice(ctx context.Context, sess *session.Session, out io.Writer) {
	sess.StartCapture(ctx)
	fmt.Fprintln(out, "Listening...")
	for sess.Capturing() {
		time.Sleep(50 * time.Millisecond)
	}
	if draft := sess.Draft(); draft != "" {
		fmt.Fprintf(out, "Transcribed: %s\nPress enter to send.\n", draft)
	} else {
		fmt.Fprintln(out, "Nothing transcribed.")
	}
}

// printNewTurns renders every assistant turn appended since the last call
// and returns the new high-water mark.
func printNewTurns(out io.Writer, sess *session.Session, seen int) int {
	history := sess.History()
	for _, msg := range history[seen:] {
		if msg.Role != session.RoleAssistant {
			continue
		}
		fmt.Fprintf(out, "assistant: %s\n", msg.Content)
		for _, task := range msg.Tasks {
			fmt.Fprintf(out, "  - %s (%s)\n", task.Title, task.ID)
		}
	}
	return len(history)
}
