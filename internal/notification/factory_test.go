package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullChannelConfig() ChannelConfig {
	return ChannelConfig{
		Slack:   SlackConfig{WebhookURL: "https://hooks.slack.com/services/T/B/X"},
		Teams:   TeamsConfig{WebhookURL: "https://outlook.office.com/webhook/abc"},
		Email:   EmailConfig{Host: "smtp.example.com", Username: "sender", Password: "secret", To: []string{"ops@example.com"}},
		Line:    LineConfig{AccessToken: "token"},
		Webhook: WebhookConfig{URL: "https://webhook.example.com/notify"},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{KindSlack, "slack"},
		{KindTeams, "teams"},
		{KindEmail, "email"},
		{KindLine, "line"},
		{KindWebhook, "webhook"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			n, err := New(tt.kind, fullChannelConfig(), testLogger())
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Name())
		})
	}
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New("pager", fullChannelConfig(), testLogger())

	require.ErrorIs(t, err, ErrUnknownKind)
	assert.Contains(t, err.Error(), "pager")
}

func TestNew_MissingSetting(t *testing.T) {
	cfg := fullChannelConfig()
	cfg.Slack.WebhookURL = ""

	_, err := New(KindSlack, cfg, testLogger())

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "slack", cfgErr.Channel)
}

func TestNewMulti(t *testing.T) {
	multi := NewMulti([]string{KindSlack, KindEmail}, fullChannelConfig(), testLogger())

	assert.Equal(t, 2, multi.Len())
	assert.Equal(t, []string{"slack", "email"}, multi.Names())
}

func TestNewMulti_SkipsMisconfiguredChannels(t *testing.T) {
	cfg := fullChannelConfig()
	cfg.Email.Password = ""

	multi := NewMulti([]string{KindSlack, KindEmail, "pager"}, cfg, testLogger())

	// Misconfigured and unknown channels are skipped, not fatal
	assert.Equal(t, 1, multi.Len())
	assert.Equal(t, []string{"slack"}, multi.Names())
}

func TestNewMulti_Empty(t *testing.T) {
	multi := NewMulti(nil, fullChannelConfig(), testLogger())

	assert.Equal(t, 0, multi.Len())
	assert.ErrorIs(t, multi.SendMessage(context.Background(), "hello"), ErrNoNotifiers)
}
