package notification

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
)

// WebhookConfig holds the settings for the generic webhook channel.
// URL is required. Headers are added to every request and Payload is a
// default payload merged into every message body.
type WebhookConfig struct {
	URL     string
	Headers map[string]string
	Payload map[string]interface{}
}

// WebhookNotifier handles sending notifications via generic webhook
type WebhookNotifier struct {
	*HTTPNotifier
	cfg WebhookConfig
}

// NewWebhookNotifier creates a new generic webhook notifier
func NewWebhookNotifier(cfg WebhookConfig, logger *logrus.Entry) (*WebhookNotifier, error) {
	return NewWebhookNotifierWithClient(cfg, nil, logger)
}

// NewWebhookNotifierWithClient creates a new generic webhook notifier with a custom HTTP client
func NewWebhookNotifierWithClient(cfg WebhookConfig, httpClient *http.Client, logger *logrus.Entry) (*WebhookNotifier, error) {
	if cfg.URL == "" {
		return nil, &ConfigError{Channel: KindWebhook, Setting: "webhook_url"}
	}

	return &WebhookNotifier{
		HTTPNotifier: NewHTTPNotifier(cfg.URL, httpClient, logger),
		cfg:          cfg,
	}, nil
}

// Name returns the channel kind (implements Notifier interface)
func (n *WebhookNotifier) Name() string { return KindWebhook }

// SendMessage posts the message merged into the default payload (implements Notifier interface)
func (n *WebhookNotifier) SendMessage(ctx context.Context, message string) error {
	if message == "" {
		return ErrEmptyMessage
	}
	return n.post(ctx, map[string]interface{}{
		"message": message,
	})
}

// SendErrorMessage posts an error-typed payload
func (n *WebhookNotifier) SendErrorMessage(ctx context.Context, title, details string) error {
	if title == "" {
		return ErrEmptyMessage
	}
	payload := map[string]interface{}{
		"type":    "error",
		"title":   "An error occurred",
		"message": title,
	}
	if details != "" {
		payload["details"] = details
	}
	return n.post(ctx, payload)
}

// SendSuccessMessage posts a success-typed payload
func (n *WebhookNotifier) SendSuccessMessage(ctx context.Context, title, details string) error {
	if title == "" {
		return ErrEmptyMessage
	}
	payload := map[string]interface{}{
		"type":    "success",
		"title":   "Completed successfully",
		"message": title,
	}
	if details != "" {
		payload["details"] = details
	}
	return n.post(ctx, payload)
}

// post merges the default payload under the per-send fields and delivers it
func (n *WebhookNotifier) post(ctx context.Context, fields map[string]interface{}) error {
	payload := make(map[string]interface{}, len(n.cfg.Payload)+len(fields))
	for key, value := range n.cfg.Payload {
		payload[key] = value
	}
	for key, value := range fields {
		payload[key] = value
	}

	if err := n.SendJSONWithHeaders(ctx, payload, n.cfg.Headers); err != nil {
		return err
	}

	n.logger.Info("Successfully sent webhook notification")
	return nil
}
