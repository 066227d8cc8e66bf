package notification

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

// fakeSender captures messages instead of dialing an SMTP server
type fakeSender struct {
	messages []*gomail.Message
	err      error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.messages = append(f.messages, m...)
	return f.err
}

// render writes the captured message to a string for content assertions
func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func validEmailConfig() EmailConfig {
	return EmailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "sender@example.com",
		Password: "secret",
		To:       []string{"ops@example.com"},
	}
}

func TestNewEmailNotifier(t *testing.T) {
	logger := logrus.NewEntry(logrus.New())
	notifier, err := NewEmailNotifier(validEmailConfig(), logger)

	require.NoError(t, err)
	require.NotNil(t, notifier)
	assert.Equal(t, "email", notifier.Name())
	// From falls back to the SMTP username
	assert.Equal(t, "sender@example.com", notifier.cfg.From)
}

func TestNewEmailNotifier_Defaults(t *testing.T) {
	logger := logrus.NewEntry(logrus.New())
	cfg := validEmailConfig()
	cfg.Port = 0
	notifier, err := NewEmailNotifier(cfg, logger)

	require.NoError(t, err)
	assert.Equal(t, 587, notifier.cfg.Port)
}

func TestNewEmailNotifier_TLS(t *testing.T) {
	logger := logrus.NewEntry(logrus.New())

	tests := []struct {
		name string
		tls  bool
	}{
		{"implicit TLS enabled", true},
		{"implicit TLS disabled", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validEmailConfig()
			cfg.TLS = tt.tls
			notifier, err := NewEmailNotifier(cfg, logger)
			require.NoError(t, err)

			dialer, ok := notifier.sender.(*gomail.Dialer)
			require.True(t, ok)
			assert.Equal(t, tt.tls, dialer.SSL)
		})
	}
}

func TestNewEmailNotifier_MissingSettings(t *testing.T) {
	logger := logrus.NewEntry(logrus.New())

	tests := []struct {
		name    string
		mutate  func(*EmailConfig)
		setting string
	}{
		{"missing host", func(c *EmailConfig) { c.Host = "" }, "smtp_server"},
		{"missing username", func(c *EmailConfig) { c.Username = "" }, "smtp_username"},
		{"missing password", func(c *EmailConfig) { c.Password = "" }, "smtp_password"},
		{"missing recipients", func(c *EmailConfig) { c.To = nil }, "recipients"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validEmailConfig()
			tt.mutate(&cfg)

			_, err := NewEmailNotifier(cfg, logger)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "email", cfgErr.Channel)
			assert.Equal(t, tt.setting, cfgErr.Setting)
		})
	}
}

func TestEmailNotifier_SendMessage(t *testing.T) {
	logger := logrus.NewEntry(logrus.New())
	notifier, err := NewEmailNotifier(validEmailConfig(), logger)
	require.NoError(t, err)

	sender := &fakeSender{}
	notifier.sender = sender

	err = notifier.SendMessage(context.Background(), "nightly job done")
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	raw := render(t, sender.messages[0])
	assert.Contains(t, raw, "To: ops@example.com")
	assert.Contains(t, raw, "Subject: Notification")
	assert.Contains(t, raw, "nightly job done")
	assert.NotContains(t, raw, "text/html")
}

func TestEmailNotifier_SendErrorMessage(t *testing.T) {
	logger := logrus.NewEntry(logrus.New())
	cfg := validEmailConfig()
	cfg.Cc = []string{"lead@example.com"}
	notifier, err := NewEmailNotifier(cfg, logger)
	require.NoError(t, err)

	sender := &fakeSender{}
	notifier.sender = sender

	err = notifier.SendErrorMessage(context.Background(), "backup failed", "disk full")
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	raw := render(t, sender.messages[0])
	assert.Contains(t, raw, "Subject: [ERROR] backup failed")
	assert.Contains(t, raw, "Cc: lead@example.com")
	assert.Contains(t, raw, "disk full")
	// Error mails carry an HTML alternative body
	assert.Contains(t, raw, "text/html")
}

func TestEmailNotifier_SendSuccessMessage(t *testing.T) {
	logger := logrus.NewEntry(logrus.New())
	notifier, err := NewEmailNotifier(validEmailConfig(), logger)
	require.NoError(t, err)

	sender := &fakeSender{}
	notifier.sender = sender

	err = notifier.SendSuccessMessage(context.Background(), "backup finished", "")
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	raw := render(t, sender.messages[0])
	assert.Contains(t, raw, "Subject: [SUCCESS] backup finished")
}

func TestEmailNotifier_SendMessage_TransportFailure(t *testing.T) {
	logger := logrus.NewEntry(logrus.New())
	notifier, err := NewEmailNotifier(validEmailConfig(), logger)
	require.NoError(t, err)

	notifier.sender = &fakeSender{err: errors.New("connection refused")}

	err = notifier.SendMessage(context.Background(), "ping")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email")
}

func TestEmailNotifier_SendMessage_Empty(t *testing.T) {
	logger := logrus.NewEntry(logrus.New())
	notifier, err := NewEmailNotifier(validEmailConfig(), logger)
	require.NoError(t, err)

	sender := &fakeSender{}
	notifier.sender = sender

	err = notifier.SendMessage(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, sender.messages)
}
