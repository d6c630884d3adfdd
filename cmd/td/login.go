package main

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ovelund/taskdeck/internal/remote"
)

func newLoginCmd() *cobra.Command {
	var (
		configPath string
		password   string
	)

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Authenticate against the task backend",
		Long:  "Exchanges username and password for an access token and stores it in the local credential store. Later commands send it as a bearer token.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, configPath, args[0], password)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Taskdeck config file")
	cmd.Flags().StringVar(&password, "password", "", "password (omit to be prompted)")
	return cmd
}

func runLogin(cmd *cobra.Command, configPath, username, password string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}

	if password == "" {
		password, err = promptPassword(cmd)
		if err != nil {
			return err
		}
	}
	if password == "" {
		return fmt.Errorf("login: password is required")
	}

	// The token exchange itself runs unauthenticated.
	caller, err := remote.NewCaller(remote.CallerOpts{
		BaseURL: a.cfg.API.BaseURL,
		Timeout: a.timeout(),
	})
	if err != nil {
		return err
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	form := url.Values{"username": {username}, "password": {password}}
	if err := caller.PostForm(cmd.Context(), "/api/token", form, &resp); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("login: backend returned no access token")
	}

	if err := a.store.SetToken(resp.AccessToken); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", username)
	return nil
}

// promptPassword reads the password without echo when stdin is a terminal,
// and falls back to a plain line read otherwise.
func promptPassword(cmd *cobra.Command) (string, error) {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, "Password: ")

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("login: read password: %w", err)
		}
		return string(raw), nil
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("login: read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func newLogoutCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			if err := a.store.ClearToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Taskdeck config file")
	return cmd
}
