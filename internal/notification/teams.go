package notification

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
)

// TeamsConfig holds the settings for the Microsoft Teams channel.
// WebhookURL is required; Title and Subtitle become the card header.
type TeamsConfig struct {
	WebhookURL string
	Title      string
	Subtitle   string
}

// teamsMessageCard represents the JSON payload for Microsoft Teams webhooks
type teamsMessageCard struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	Summary    string         `json:"summary"`
	ThemeColor string         `json:"themeColor,omitempty"`
	Sections   []teamsSection `json:"sections"`
}

// teamsSection is one card section; the header section carries the title
// and subtitle, the body section carries the message text
type teamsSection struct {
	ActivityTitle    string `json:"activityTitle,omitempty"`
	ActivitySubtitle string `json:"activitySubtitle,omitempty"`
	Text             string `json:"text,omitempty"`
}

// TeamsNotifier handles sending notifications via Microsoft Teams
type TeamsNotifier struct {
	*HTTPNotifier
	cfg TeamsConfig
}

// NewTeamsNotifier creates a new Microsoft Teams notifier
func NewTeamsNotifier(cfg TeamsConfig, logger *logrus.Entry) (*TeamsNotifier, error) {
	return NewTeamsNotifierWithClient(cfg, nil, logger)
}

// NewTeamsNotifierWithClient creates a new Microsoft Teams notifier with a custom HTTP client
func NewTeamsNotifierWithClient(cfg TeamsConfig, httpClient *http.Client, logger *logrus.Entry) (*TeamsNotifier, error) {
	if cfg.WebhookURL == "" {
		return nil, &ConfigError{Channel: KindTeams, Setting: "webhook_url"}
	}

	return &TeamsNotifier{
		HTTPNotifier: NewHTTPNotifier(cfg.WebhookURL, httpClient, logger),
		cfg:          cfg,
	}, nil
}

// Name returns the channel kind (implements Notifier interface)
func (n *TeamsNotifier) Name() string { return KindTeams }

// SendMessage sends a plain MessageCard (implements Notifier interface)
func (n *TeamsNotifier) SendMessage(ctx context.Context, message string) error {
	if message == "" {
		return ErrEmptyMessage
	}
	return n.post(ctx, n.cfg.Title, n.cfg.Subtitle, message, "")
}

// SendErrorMessage sends a red-themed error card
func (n *TeamsNotifier) SendErrorMessage(ctx context.Context, title, details string) error {
	if title == "" {
		return ErrEmptyMessage
	}
	return n.post(ctx, "An error occurred", n.cfg.Subtitle, composeBody(title, details), "FF0000")
}

// SendSuccessMessage sends a green-themed success card
func (n *TeamsNotifier) SendSuccessMessage(ctx context.Context, title, details string) error {
	if title == "" {
		return ErrEmptyMessage
	}
	return n.post(ctx, "Completed successfully", n.cfg.Subtitle, composeBody(title, details), "00FF00")
}

// post assembles the MessageCard and delivers it
func (n *TeamsNotifier) post(ctx context.Context, title, subtitle, message, themeColor string) error {
	summary := title
	if summary == "" {
		summary = "Notification"
	}

	card := teamsMessageCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		Summary:    summary,
		ThemeColor: themeColor,
	}

	if title != "" || subtitle != "" {
		card.Sections = append(card.Sections, teamsSection{
			ActivityTitle:    title,
			ActivitySubtitle: subtitle,
		})
	}
	card.Sections = append(card.Sections, teamsSection{Text: message})

	if err := n.SendJSON(ctx, card); err != nil {
		return err
	}

	n.logger.Info("Successfully sent Microsoft Teams notification")
	return nil
}
