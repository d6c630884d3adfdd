package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ovelund/taskdeck/internal/digest"
)

func newWatchCmd() *cobra.Command {
	var (
		configPath string
		schedule   string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Post scheduled task digests to the configured notifiers",
		Long:  "Runs in the foreground and posts a summary of the task list on every fire of the digest schedule until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, configPath, schedule)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Taskdeck config file")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule override (5 fields)")
	return cmd
}

func runWatch(cmd *cobra.Command, configPath, schedule string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	client, err := a.taskClient()
	if err != nil {
		return err
	}
	notifier, err := a.notifier(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if schedule == "" {
		schedule = a.cfg.Digest.Schedule
	}
	watcher, err := digest.NewWatcher(client, notifier, schedule)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching tasks on schedule %q\n", schedule)
	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
