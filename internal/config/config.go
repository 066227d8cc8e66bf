package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"herald/internal/notification"
)

// Config holds the application configuration
type Config struct {
	// Enabled channel kinds, in dispatch order
	Channels []string `mapstructure:"channels" yaml:"channels"`

	// Slack settings
	SlackWebhookURL string   `mapstructure:"slack_webhook_url" yaml:"slack_webhook_url,omitempty"`
	SlackUsername   string   `mapstructure:"slack_username" yaml:"slack_username,omitempty"`
	SlackIconEmoji  string   `mapstructure:"slack_icon_emoji" yaml:"slack_icon_emoji,omitempty"`
	SlackChannel    string   `mapstructure:"slack_channel" yaml:"slack_channel,omitempty"`
	SlackMentions   []string `mapstructure:"slack_mentions" yaml:"slack_mentions,omitempty"`

	// Microsoft Teams settings
	TeamsWebhookURL string `mapstructure:"teams_webhook_url" yaml:"teams_webhook_url,omitempty"`
	TeamsTitle      string `mapstructure:"teams_title" yaml:"teams_title,omitempty"`
	TeamsSubtitle   string `mapstructure:"teams_subtitle" yaml:"teams_subtitle,omitempty"`

	// Email settings
	SMTPServer      string   `mapstructure:"smtp_server" yaml:"smtp_server,omitempty"`
	SMTPPort        int      `mapstructure:"smtp_port" yaml:"smtp_port,omitempty"`
	SMTPUsername    string   `mapstructure:"smtp_username" yaml:"smtp_username,omitempty"`
	SMTPPassword    string   `mapstructure:"smtp_password" yaml:"smtp_password,omitempty"`
	SMTPTLS         bool     `mapstructure:"smtp_tls" yaml:"smtp_tls,omitempty"`
	SenderEmail     string   `mapstructure:"sender_email" yaml:"sender_email,omitempty"`
	EmailRecipients []string `mapstructure:"email_recipients" yaml:"email_recipients,omitempty"`
	EmailCc         []string `mapstructure:"email_cc" yaml:"email_cc,omitempty"`

	// LINE Notify settings
	LineNotifyToken string `mapstructure:"line_notify_token" yaml:"line_notify_token,omitempty"`
	LineImageURL    string `mapstructure:"line_image_url" yaml:"line_image_url,omitempty"`

	// Generic webhook settings
	WebhookURL     string                 `mapstructure:"webhook_url" yaml:"webhook_url,omitempty"`
	WebhookHeaders map[string]string      `mapstructure:"webhook_headers" yaml:"webhook_headers,omitempty"`
	WebhookPayload map[string]interface{} `mapstructure:"webhook_payload" yaml:"webhook_payload,omitempty"`

	// General settings
	Verbose bool `mapstructure:"verbose" yaml:"verbose,omitempty"`
}

// Load loads configuration from various sources. The process environment is
// read exactly once here; constructors and notifiers never touch it.
func Load() (*Config, error) {
	// Set default values
	viper.SetDefault("verbose", false)
	viper.SetDefault("channels", []string{})
	viper.SetDefault("slack_webhook_url", "")
	viper.SetDefault("slack_username", "")
	viper.SetDefault("slack_icon_emoji", "")
	viper.SetDefault("slack_channel", "")
	viper.SetDefault("slack_mentions", []string{})
	viper.SetDefault("teams_webhook_url", "")
	viper.SetDefault("teams_title", "")
	viper.SetDefault("teams_subtitle", "")
	viper.SetDefault("smtp_server", "")
	viper.SetDefault("smtp_port", 587)
	viper.SetDefault("smtp_username", "")
	viper.SetDefault("smtp_password", "")
	viper.SetDefault("smtp_tls", false)
	viper.SetDefault("sender_email", "")
	viper.SetDefault("email_recipients", []string{})
	viper.SetDefault("email_cc", []string{})
	viper.SetDefault("line_notify_token", "")
	viper.SetDefault("line_image_url", "")
	viper.SetDefault("webhook_url", "")
	viper.SetDefault("webhook_headers", map[string]string{})
	viper.SetDefault("webhook_payload", map[string]interface{}{})

	// Set config file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/herald")
	viper.AddConfigPath("$HOME/.herald")

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, continue with defaults and env vars
	}

	// AutomaticEnv binds every config key to its uppercase environment
	// variable (e.g. SLACK_WEBHOOK_URL maps to slack_webhook_url). The two
	// variables whose names differ from their keys are bound explicitly.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.BindEnv("channels", "NOTIFICATION_TYPE"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}
	if err := viper.BindEnv("email_recipients", "DEFAULT_EMAIL_RECIPIENTS"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	// List- and map-valued keys arrive from the environment as flat strings;
	// convert them BEFORE unmarshal
	for _, key := range []string{"channels", "email_recipients", "email_cc", "slack_mentions"} {
		if value, ok := viper.Get(key).(string); ok {
			viper.Set(key, parseListFromString(value))
		}
	}
	if value, ok := viper.Get("webhook_headers").(string); ok {
		viper.Set("webhook_headers", parseHeadersFromString(value))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Channel kinds are matched case-insensitively
	for i := range cfg.Channels {
		cfg.Channels[i] = strings.ToLower(strings.TrimSpace(cfg.Channels[i]))
	}

	return &cfg, nil
}

// ChannelConfig converts the flat configuration into the per-channel
// configuration structs the notification factory consumes
func (c *Config) ChannelConfig() notification.ChannelConfig {
	return notification.ChannelConfig{
		Slack: notification.SlackConfig{
			WebhookURL: c.SlackWebhookURL,
			Username:   c.SlackUsername,
			IconEmoji:  c.SlackIconEmoji,
			Channel:    c.SlackChannel,
			Mentions:   c.SlackMentions,
		},
		Teams: notification.TeamsConfig{
			WebhookURL: c.TeamsWebhookURL,
			Title:      c.TeamsTitle,
			Subtitle:   c.TeamsSubtitle,
		},
		Email: notification.EmailConfig{
			Host:     c.SMTPServer,
			Port:     c.SMTPPort,
			Username: c.SMTPUsername,
			Password: c.SMTPPassword,
			From:     c.SenderEmail,
			To:       c.EmailRecipients,
			Cc:       c.EmailCc,
			TLS:      c.SMTPTLS,
		},
		Line: notification.LineConfig{
			AccessToken: c.LineNotifyToken,
			ImageURL:    c.LineImageURL,
		},
		Webhook: notification.WebhookConfig{
			URL:     c.WebhookURL,
			Headers: c.WebhookHeaders,
			Payload: c.WebhookPayload,
		},
	}
}

// parseListFromString parses a comma-separated string into a slice,
// trimming whitespace and dropping empty entries
// Example: "slack, email" -> []string{"slack", "email"}
func parseListFromString(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// parseHeadersFromString parses a comma-separated key=value string into a map
// Example: "X-Token=abc,X-Env=prod" -> map[string]string{"X-Token": "abc", "X-Env": "prod"}
func parseHeadersFromString(value string) map[string]string {
	headers := make(map[string]string)
	if value == "" {
		return headers
	}

	pairs := strings.Split(value, ",")
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			val := strings.TrimSpace(parts[1])
			if key != "" {
				headers[key] = val
			}
		}
	}

	return headers
}
