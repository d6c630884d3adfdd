package notify

import (
	slackapi "github.com/slack-go/slack"
)

// slackPoster abstracts the Slack API method we use, enabling test mocks.
type slackPoster interface {
	PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// SlackNotifier posts notifications to a Slack channel via the Web API.
type SlackNotifier struct {
	client    slackPoster
	channelID string
}

// NewSlackNotifier creates a SlackNotifier for the given bot token and
// channel.
func NewSlackNotifier(botToken, channelID string) *SlackNotifier {
	return &SlackNotifier{
		client:    slackapi.New(botToken),
		channelID: channelID,
	}
}

// newSlackNotifierWithClient injects a mock client for testing.
func newSlackNotifierWithClient(client slackPoster, channelID string) *SlackNotifier {
	return &SlackNotifier{client: client, channelID: channelID}
}

// Notify implements Notifier. Best-effort: a failed post is logged.
func (s *SlackNotifier) Notify(level Level, text string) {
	_, _, err := s.client.PostMessage(s.channelID, slackapi.MsgOptionText(prefix(level, text), false))
	if err != nil {
		logDeliveryError("slack", err)
	}
}
