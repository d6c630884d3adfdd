package notify

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	slackapi "github.com/slack-go/slack"

	"github.com/ovelund/taskdeck/internal/config"
)

func TestMulti_FansOut(t *testing.T) {
	a := &Recorder{}
	b := &Recorder{}
	m := Multi{a, b}

	m.Notify(LevelSuccess, "2 tasks deleted successfully!")

	for name, r := range map[string]*Recorder{"a": a, "b": b} {
		if len(r.Texts) != 1 {
			t.Fatalf("sink %s received %d notifications, want 1", name, len(r.Texts))
		}
		if r.Levels[0] != LevelSuccess {
			t.Errorf("sink %s level = %q, want success", name, r.Levels[0])
		}
	}
}

func TestWriter(t *testing.T) {
	buf := new(bytes.Buffer)
	Writer{Out: buf}.Notify(LevelSuccess, "3 tasks marked completed!")
	if got := buf.String(); got != "[ok] 3 tasks marked completed!\n" {
		t.Errorf("output = %q, want prefixed line", got)
	}
	Writer{}.Notify(LevelInfo, "dropped") // nil writer must not panic
}

func TestPrefix(t *testing.T) {
	cases := []struct {
		level Level
		want  string
	}{
		{LevelSuccess, "[ok] done"},
		{LevelError, "[error] done"},
		{LevelInfo, "done"},
	}
	for _, tc := range cases {
		if got := prefix(tc.level, "done"); got != tc.want {
			t.Errorf("prefix(%q) = %q, want %q", tc.level, got, tc.want)
		}
	}
}

func TestTemplateCommand(t *testing.T) {
	got := templateCommand("notify-send '{{.Level}}' '{{.Text}}'", LevelError, "it's broken")
	want := `notify-send 'error' 'it'\''s broken'`
	if got != want {
		t.Errorf("templateCommand = %q, want %q", got, want)
	}
}

type fakeSlack struct {
	channels []string
	err      error
}

func (f *fakeSlack) PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error) {
	f.channels = append(f.channels, channelID)
	return "", "", f.err
}

func TestSlackNotifier_Posts(t *testing.T) {
	fake := &fakeSlack{}
	n := newSlackNotifierWithClient(fake, "C123")

	n.Notify(LevelSuccess, "2 tasks marked completed!")

	if len(fake.channels) != 1 || fake.channels[0] != "C123" {
		t.Errorf("posted to %v, want [C123]", fake.channels)
	}
}

func TestSlackNotifier_DeliveryFailureIsSwallowed(t *testing.T) {
	fake := &fakeSlack{err: errors.New("rate limited")}
	n := newSlackNotifierWithClient(fake, "C123")

	// Must not panic or propagate.
	n.Notify(LevelError, "Error deleting tasks: boom")
}

type fakeDiscord struct {
	channels []string
	contents []string
	err      error
}

func (f *fakeDiscord) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channels = append(f.channels, channelID)
	f.contents = append(f.contents, content)
	return nil, f.err
}

func TestDiscordNotifier_Sends(t *testing.T) {
	fake := &fakeDiscord{}
	n := newDiscordNotifierWithSession(fake, "456")

	n.Notify(LevelError, "Error marking tasks pending: boom")

	if len(fake.channels) != 1 || fake.channels[0] != "456" {
		t.Fatalf("sent to %v, want [456]", fake.channels)
	}
	if fake.contents[0] != "[error] Error marking tasks pending: boom" {
		t.Errorf("content = %q, want level-prefixed text", fake.contents[0])
	}
}

func TestFromConfig(t *testing.T) {
	t.Run("empty config yields nop", func(t *testing.T) {
		n, err := FromConfig(config.NotifyConfig{})
		if err != nil {
			t.Fatalf("FromConfig: %v", err)
		}
		if _, ok := n.(Nop); !ok {
			t.Errorf("notifier = %T, want Nop", n)
		}
	})

	t.Run("all sinks configured", func(t *testing.T) {
		n, err := FromConfig(config.NotifyConfig{
			Command: "true",
			Slack:   config.SlackConfig{BotToken: "xoxb-x", ChannelID: "C1"},
			Discord: config.DiscordConfig{BotToken: "d-x", ChannelID: "456"},
		})
		if err != nil {
			t.Fatalf("FromConfig: %v", err)
		}
		m, ok := n.(Multi)
		if !ok {
			t.Fatalf("notifier = %T, want Multi", n)
		}
		if len(m) != 3 {
			t.Errorf("len(Multi) = %d, want 3", len(m))
		}
	})
}
