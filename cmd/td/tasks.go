package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks and manage the local selection",
	}

	cmd.AddCommand(newTasksListCmd())
	cmd.AddCommand(newTasksSelectCmd())
	cmd.AddCommand(newTasksSelectionCmd())
	cmd.AddCommand(newTasksClearCmd())
	return cmd
}

func newTasksListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every task on the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasksList(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Taskdeck config file")
	return cmd
}

func runTasksList(cmd *cobra.Command, configPath string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	client, err := a.taskClient()
	if err != nil {
		return err
	}
	tasks, err := client.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	selected, err := a.store.SelectedIDs()
	if err != nil {
		return err
	}
	marked := make(map[string]bool, len(selected))
	for _, id := range selected {
		marked[id] = true
	}

	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tSTATUS\tTITLE")
	for _, task := range tasks {
		mark := " "
		if marked[task.ID] {
			mark = "*"
		}
		status := "pending"
		if task.Completed {
			status = "completed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, task.ID, status, task.Title)
	}
	return w.Flush()
}

func newTasksSelectCmd() *cobra.Command {
	var (
		configPath string
		replace    bool
	)

	cmd := &cobra.Command{
		Use:   "select <task-id>...",
		Short: "Add tasks to the local selection",
		Long:  "Adds task ids to the selection that bulk actions operate on. With --replace the given ids become the whole selection.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			if replace {
				err = a.store.SaveSelection(args)
			} else {
				err = a.store.AddToSelection(args...)
			}
			if err != nil {
				return err
			}
			ids, err := a.store.SelectedIDs()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d tasks selected\n", len(ids))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Taskdeck config file")
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the selection instead of adding to it")
	return cmd
}

func newTasksSelectionCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "selection",
		Short: "Show the current selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			ids, err := a.store.SelectedIDs()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No tasks selected.")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Taskdeck config file")
	return cmd
}

func newTasksClearCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the current selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			if err := a.store.ClearSelection(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Selection cleared")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Taskdeck config file")
	return cmd
}
