package notification

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// lineNotifyURL is the fixed LINE Notify API endpoint
const lineNotifyURL = "https://notify-api.line.me/api/notify"

// lineMaxMessageLength is the message length limit enforced by the API
const lineMaxMessageLength = 1000

// LineConfig holds the settings for the LINE Notify push channel.
// AccessToken is required; ImageURL attaches an image to every message.
type LineConfig struct {
	AccessToken string
	ImageURL    string
}

// LineNotifier handles sending push notifications via LINE Notify
type LineNotifier struct {
	cfg        LineConfig
	apiURL     string
	httpClient *http.Client
	logger     *logrus.Entry
}

// NewLineNotifier creates a new LINE Notify notifier
func NewLineNotifier(cfg LineConfig, logger *logrus.Entry) (*LineNotifier, error) {
	return NewLineNotifierWithClient(cfg, nil, logger)
}

// NewLineNotifierWithClient creates a new LINE Notify notifier with a custom HTTP client
func NewLineNotifierWithClient(cfg LineConfig, httpClient *http.Client, logger *logrus.Entry) (*LineNotifier, error) {
	if cfg.AccessToken == "" {
		return nil, &ConfigError{Channel: KindLine, Setting: "access_token"}
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: DefaultHTTPTimeout,
		}
	}

	return &LineNotifier{
		cfg:        cfg,
		apiURL:     lineNotifyURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Name returns the channel kind (implements Notifier interface)
func (n *LineNotifier) Name() string { return KindLine }

// SendMessage sends a plain push message (implements Notifier interface)
func (n *LineNotifier) SendMessage(ctx context.Context, message string) error {
	if message == "" {
		return ErrEmptyMessage
	}
	return n.post(ctx, message)
}

// SendErrorMessage sends a push message tagged with the warning marker
func (n *LineNotifier) SendErrorMessage(ctx context.Context, title, details string) error {
	if title == "" {
		return ErrEmptyMessage
	}
	message := fmt.Sprintf("⚠ An error occurred ⚠\n%s", composeBody(title, details))
	return n.post(ctx, message)
}

// SendSuccessMessage sends a push message tagged with the check marker
func (n *LineNotifier) SendSuccessMessage(ctx context.Context, title, details string) error {
	if title == "" {
		return ErrEmptyMessage
	}
	message := fmt.Sprintf("✅ Completed successfully ✅\n%s", composeBody(title, details))
	return n.post(ctx, message)
}

// post sends the form-encoded notify request with the bearer token
func (n *LineNotifier) post(ctx context.Context, message string) error {
	form := url.Values{}
	form.Set("message", truncate(message, lineMaxMessageLength))
	if n.cfg.ImageURL != "" {
		form.Set("imageFullsize", n.cfg.ImageURL)
		form.Set("imageThumbnail", n.cfg.ImageURL)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Authorization", "Bearer "+n.cfg.AccessToken)

	n.logger.Debug("Sending LINE notification")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("failed to send message: status %d", resp.StatusCode)
	}

	n.logger.Info("Successfully sent LINE notification")
	return nil
}
