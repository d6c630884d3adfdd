package notify

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// discordSender abstracts the discordgo method we use, enabling test
// mocks. Sends go over the REST API; no gateway connection is opened.
type discordSender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts notifications to a Discord channel.
type DiscordNotifier struct {
	sess      discordSender
	channelID string
}

// NewDiscordNotifier creates a DiscordNotifier for the given bot token and
// channel.
func NewDiscordNotifier(botToken, channelID string) (*DiscordNotifier, error) {
	sess, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("notify: discord session: %w", err)
	}
	return &DiscordNotifier{sess: sess, channelID: channelID}, nil
}

// newDiscordNotifierWithSession injects a mock session for testing.
func newDiscordNotifierWithSession(sess discordSender, channelID string) *DiscordNotifier {
	return &DiscordNotifier{sess: sess, channelID: channelID}
}

// Notify implements Notifier. Best-effort: a failed send is logged.
func (d *DiscordNotifier) Notify(level Level, text string) {
	if _, err := d.sess.ChannelMessageSend(d.channelID, prefix(level, text)); err != nil {
		logDeliveryError("discord", err)
	}
}
