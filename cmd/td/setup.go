package main

import (
	"io"
	"time"

	"github.com/ovelund/taskdeck/internal/assistant"
	"github.com/ovelund/taskdeck/internal/config"
	"github.com/ovelund/taskdeck/internal/notify"
	"github.com/ovelund/taskdeck/internal/store"
	"github.com/ovelund/taskdeck/internal/taskapi"
)

const defaultConfigPath = "taskdeck.yaml"

// app bundles the pieces most commands need: the loaded config and the
// local credential/selection store.
type app struct {
	cfg   *config.Config
	store *store.Store
}

// openApp loads the config and opens the local store.
func openApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, store: st}, nil
}

func (a *app) timeout() time.Duration {
	return time.Duration(a.cfg.API.TimeoutSeconds) * time.Second
}

func (a *app) assistantClient() (*assistant.Client, error) {
	return assistant.New(assistant.Options{
		BaseURL:      a.cfg.API.BaseURL,
		Timeout:      a.timeout(),
		Tokens:       a.store,
		Locale:       a.cfg.Locale,
		RequireToken: a.cfg.Auth.RequireToken,
	})
}

func (a *app) taskClient() (*taskapi.Client, error) {
	return taskapi.New(taskapi.Options{
		BaseURL:      a.cfg.API.BaseURL,
		Timeout:      a.timeout(),
		Tokens:       a.store,
		RequireToken: a.cfg.Auth.RequireToken,
	})
}

// notifier builds the configured sinks plus a terminal echo so outcomes
// always reach the user running the command.
func (a *app) notifier(out io.Writer) (notify.Notifier, error) {
	configured, err := notify.FromConfig(a.cfg.Notify)
	if err != nil {
		return nil, err
	}
	return notify.Multi{notify.Writer{Out: out}, configured}, nil
}
