package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ovelund/taskdeck/internal/bulk"
	"github.com/ovelund/taskdeck/internal/export"
	"github.com/ovelund/taskdeck/internal/taskapi"
)

func newBulkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Apply one action to every selected task",
		Long:  "Runs a batched action against the tasks in the local selection. A successful action clears the selection; a failed one keeps it so the action can be retried.",
	}

	cmd.AddCommand(newBulkDeleteCmd())
	cmd.AddCommand(newBulkStatusCmd("complete", "Mark every selected task completed"))
	cmd.AddCommand(newBulkStatusCmd("pending", "Mark every selected task pending"))
	cmd.AddCommand(newBulkExportCmd())
	return cmd
}

func newBulkDeleteCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete every selected task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBulkAction(cmd, configPath, "delete", yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Taskdeck config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newBulkStatusCmd(name, short string) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBulkAction(cmd, configPath, name, false)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Taskdeck config file")
	return cmd
}

func runBulkAction(cmd *cobra.Command, configPath, action string, yes bool) error {
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

	ids, err := a.store.SelectedIDs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tasks selected.")
		return nil
	}

	coord, err := bulk.New(bulk.Options{
		Client:   client,
		Notifier: notifier,
		Confirm:  terminalConfirmer(cmd, yes),
		OnRefresh: func() {
			tasks, err := client.List(cmd.Context())
			if err != nil {
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d tasks on the backend now\n", len(tasks))
		},
		OnClearSelection: func() {
			if err := a.store.ClearSelection(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "clear selection: %v\n", err)
			}
		},
	})
	if err != nil {
		return err
	}

	switch action {
	case "delete":
		return coord.Delete(cmd.Context(), ids)
	case "complete":
		return coord.MarkComplete(cmd.Context(), ids)
	case "pending":
		return coord.MarkPending(cmd.Context(), ids)
	default:
		return fmt.Errorf("bulk: unknown action %q", action)
	}
}

// terminalConfirmer prompts on the command's streams. With yes set it
// approves everything.
func terminalConfirmer(cmd *cobra.Command, yes bool) bulk.Confirmer {
	return bulk.ConfirmFunc(func(prompt string) bool {
		if yes {
			return true
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	})
}

func newBulkExportCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "File every selected task as a GitHub issue",
		Long:  "Creates one GitHub issue per selected task in the repository configured under github. Requires a personal access token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBulkExport(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Taskdeck config file")
	return cmd
}

func runBulkExport(cmd *cobra.Command, configPath string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	gh := a.cfg.GitHub
	exporter, err := export.New(gh.Token, gh.Owner, gh.Repo)
	if err != nil {
		return err
	}
	client, err := a.taskClient()
	if err != nil {
		return err
	}

	ids, err := a.store.SelectedIDs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tasks selected.")
		return nil
	}

	tasks, err := client.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	picked := pickSelected(tasks, ids)

	n, err := exporter.Export(cmd.Context(), picked)
	if err != nil {
		return fmt.Errorf("exported %d of %d tasks: %w", n, len(picked), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s/%s\n", n, gh.Owner, gh.Repo)
	return nil
}

// pickSelected filters the task list down to the selected ids, preserving
// selection order.
func pickSelected(tasks []taskapi.Task, ids []string) []taskapi.Task {
	byID := make(map[string]taskapi.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	var picked []taskapi.Task
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			picked = append(picked, t)
		}
	}
	return picked
}
