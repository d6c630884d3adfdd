package notify

import (
	"fmt"

	"github.com/ovelund/taskdeck/internal/config"
)

// FromConfig builds the configured notification fan-out. With nothing
// configured it returns Nop, so callers never need a nil check.
func FromConfig(cfg config.NotifyConfig) (Notifier, error) {
	var sinks Multi
	if cfg.Command != "" {
		sinks = append(sinks, CommandNotifier{Command: cfg.Command})
	}
	if cfg.Slack.BotToken != "" {
		sinks = append(sinks, NewSlackNotifier(cfg.Slack.BotToken, cfg.Slack.ChannelID))
	}
	if cfg.Discord.BotToken != "" {
		d, err := NewDiscordNotifier(cfg.Discord.BotToken, cfg.Discord.ChannelID)
		if err != nil {
			return nil, fmt.Errorf("notify: %w", err)
		}
		sinks = append(sinks, d)
	}
	if len(sinks) == 0 {
		return Nop{}, nil
	}
	return sinks, nil
}
