package notification

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// SlackConfig holds the settings for the Slack channel.
// WebhookURL is required; everything else has sensible defaults.
type SlackConfig struct {
	WebhookURL string
	Username   string   // display name of the sender, defaults to "herald"
	IconEmoji  string   // bot icon, defaults to ":bell:"
	Channel    string   // channel override, webhook default if empty
	Mentions   []string // users to mention ahead of every message
}

// slackPayload represents the JSON payload for Slack webhooks
type slackPayload struct {
	Text        string            `json:"text"`
	Username    string            `json:"username,omitempty"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Channel     string            `json:"channel,omitempty"`
	Attachments []slackAttachment `json:"attachments,omitempty"`
}

// slackAttachment carries the colored error/success detail block
type slackAttachment struct {
	Color string `json:"color"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// SlackNotifier handles sending notifications via Slack
type SlackNotifier struct {
	*HTTPNotifier
	cfg SlackConfig
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(cfg SlackConfig, logger *logrus.Entry) (*SlackNotifier, error) {
	return NewSlackNotifierWithClient(cfg, nil, logger)
}

// NewSlackNotifierWithClient creates a new Slack notifier with a custom HTTP client
func NewSlackNotifierWithClient(cfg SlackConfig, httpClient *http.Client, logger *logrus.Entry) (*SlackNotifier, error) {
	if cfg.WebhookURL == "" {
		return nil, &ConfigError{Channel: KindSlack, Setting: "webhook_url"}
	}
	if cfg.Username == "" {
		cfg.Username = "herald"
	}
	if cfg.IconEmoji == "" {
		cfg.IconEmoji = ":bell:"
	}

	return &SlackNotifier{
		HTTPNotifier: NewHTTPNotifier(cfg.WebhookURL, httpClient, logger),
		cfg:          cfg,
	}, nil
}

// Name returns the channel kind (implements Notifier interface)
func (n *SlackNotifier) Name() string { return KindSlack }

// SendMessage sends a plain notification via Slack (implements Notifier interface)
func (n *SlackNotifier) SendMessage(ctx context.Context, message string) error {
	if message == "" {
		return ErrEmptyMessage
	}
	return n.post(ctx, message, n.cfg.IconEmoji, nil)
}

// SendErrorMessage sends an error notification with a red detail attachment
func (n *SlackNotifier) SendErrorMessage(ctx context.Context, title, details string) error {
	if title == "" {
		return ErrEmptyMessage
	}
	if details == "" {
		details = "No further details."
	}
	attachments := []slackAttachment{{
		Color: "danger",
		Title: "Details",
		Text:  details,
	}}
	return n.post(ctx, fmt.Sprintf("*Error*: %s", title), ":warning:", attachments)
}

// SendSuccessMessage sends a success notification with a green detail attachment
func (n *SlackNotifier) SendSuccessMessage(ctx context.Context, title, details string) error {
	if title == "" {
		return ErrEmptyMessage
	}
	var attachments []slackAttachment
	if details != "" {
		attachments = append(attachments, slackAttachment{
			Color: "good",
			Title: "Details",
			Text:  details,
		})
	}
	return n.post(ctx, fmt.Sprintf("*Success*: %s", title), ":white_check_mark:", attachments)
}

// post assembles the webhook payload and delivers it
func (n *SlackNotifier) post(ctx context.Context, text, icon string, attachments []slackAttachment) error {
	if len(n.cfg.Mentions) > 0 {
		mentions := make([]string, 0, len(n.cfg.Mentions))
		for _, m := range n.cfg.Mentions {
			mentions = append(mentions, formatMention(m))
		}
		text = strings.Join(mentions, " ") + "\n" + text
	}

	payload := slackPayload{
		Text:        text,
		Username:    n.cfg.Username,
		IconEmoji:   icon,
		Channel:     n.cfg.Channel,
		Attachments: attachments,
	}

	if err := n.SendJSON(ctx, payload); err != nil {
		return err
	}

	n.logger.Info("Successfully sent Slack notification")
	return nil
}

// formatMention converts a mention string into the Slack mention syntax.
// User IDs (U…) are wrapped in <@…>; already-formatted mentions and email
// addresses are passed through unchanged, since only IDs can be linked
// without a directory lookup.
func formatMention(mention string) string {
	if strings.HasPrefix(mention, "<@") && strings.HasSuffix(mention, ">") {
		return mention
	}
	if strings.HasPrefix(mention, "U") && len(mention) > 8 {
		return fmt.Sprintf("<@%s>", mention)
	}
	return mention
}
