package notification

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ChannelConfig carries the per-channel configurations the factory can
// draw from when assembling notifiers by kind.
type ChannelConfig struct {
	Slack   SlackConfig
	Teams   TeamsConfig
	Email   EmailConfig
	Line    LineConfig
	Webhook WebhookConfig
}

// New constructs a single notifier of the given kind. It fails fast with a
// *ConfigError when a required setting is missing, and with ErrUnknownKind
// for unsupported kinds.
func New(kind string, cfg ChannelConfig, logger *logrus.Entry) (Notifier, error) {
	channelLogger := logger.WithField("channel", kind)

	switch kind {
	case KindSlack:
		return NewSlackNotifier(cfg.Slack, channelLogger)
	case KindTeams:
		return NewTeamsNotifier(cfg.Teams, channelLogger)
	case KindEmail:
		return NewEmailNotifier(cfg.Email, channelLogger)
	case KindLine:
		return NewLineNotifier(cfg.Line, channelLogger)
	case KindWebhook:
		return NewWebhookNotifier(cfg.Webhook, channelLogger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// NewMulti assembles a fan-out group with one notifier per listed kind.
// A kind whose construction fails (unknown, or missing required settings)
// is logged and omitted so one misconfigured channel cannot take down the
// rest of the group.
func NewMulti(kinds []string, cfg ChannelConfig, logger *logrus.Entry) *MultiNotifier {
	m := NewMultiNotifier(logger)
	for _, kind := range kinds {
		n, err := New(kind, cfg, logger)
		if err != nil {
			logger.WithError(err).WithField("channel", kind).Warn("Skipping notification channel")
			continue
		}
		m.Add(n)
	}
	return m
}
