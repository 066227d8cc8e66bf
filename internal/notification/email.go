package notification

import (
	"context"
	"fmt"
	"html"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// EmailConfig holds the SMTP settings for the email channel.
// Host, Port, Username, Password and at least one recipient are required.
// From defaults to Username when empty. TLS enables an implicit TLS
// connection (SMTPS, typically port 465); without it the dialer still
// negotiates STARTTLS when the server offers it.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Cc       []string
	TLS      bool
}

// mailSender abstracts the gomail dialer so tests can capture messages
// without a live SMTP server.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier handles sending notifications via SMTP email
type EmailNotifier struct {
	cfg    EmailConfig
	sender mailSender
	logger *logrus.Entry
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(cfg EmailConfig, logger *logrus.Entry) (*EmailNotifier, error) {
	if cfg.Host == "" {
		return nil, &ConfigError{Channel: KindEmail, Setting: "smtp_server"}
	}
	if cfg.Username == "" {
		return nil, &ConfigError{Channel: KindEmail, Setting: "smtp_username"}
	}
	if cfg.Password == "" {
		return nil, &ConfigError{Channel: KindEmail, Setting: "smtp_password"}
	}
	if len(cfg.To) == 0 {
		return nil, &ConfigError{Channel: KindEmail, Setting: "recipients"}
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.TLS

	return &EmailNotifier{
		cfg:    cfg,
		sender: dialer,
		logger: logger,
	}, nil
}

// Name returns the channel kind (implements Notifier interface)
func (n *EmailNotifier) Name() string { return KindEmail }

// SendMessage sends a plain-text email (implements Notifier interface)
func (n *EmailNotifier) SendMessage(ctx context.Context, message string) error {
	if message == "" {
		return ErrEmptyMessage
	}
	return n.send(ctx, "Notification", message, "")
}

// SendErrorMessage sends an error email with an HTML alternative body
func (n *EmailNotifier) SendErrorMessage(ctx context.Context, title, details string) error {
	if title == "" {
		return ErrEmptyMessage
	}
	htmlBody := fmt.Sprintf(
		`<html><body><h2 style="color: #cc0000;">An error occurred</h2><p><strong>%s</strong></p>%s</body></html>`,
		html.EscapeString(title),
		detailsHTML(details),
	)
	return n.send(ctx, "[ERROR] "+title, composeBody(title, details), htmlBody)
}

// SendSuccessMessage sends a success email with an HTML alternative body
func (n *EmailNotifier) SendSuccessMessage(ctx context.Context, title, details string) error {
	if title == "" {
		return ErrEmptyMessage
	}
	htmlBody := fmt.Sprintf(
		`<html><body><h2 style="color: #007700;">Completed successfully</h2><p><strong>%s</strong></p>%s</body></html>`,
		html.EscapeString(title),
		detailsHTML(details),
	)
	return n.send(ctx, "[SUCCESS] "+title, composeBody(title, details), htmlBody)
}

// send builds the MIME message and hands it to the dialer. gomail opens and
// closes the SMTP connection per call, which fits the stateless contract.
func (n *EmailNotifier) send(_ context.Context, subject, plainBody, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.To...)
	if len(n.cfg.Cc) > 0 {
		m.SetHeader("Cc", n.cfg.Cc...)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}

	n.logger.WithFields(logrus.Fields{
		"smtp_host": n.cfg.Host,
		"smtp_port": n.cfg.Port,
		"to":        n.cfg.To,
		"subject":   subject,
	}).Debug("Sending email notification")

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.WithField("to", n.cfg.To).Info("Successfully sent email notification")
	return nil
}

// detailsHTML renders the optional details block for the HTML body
func detailsHTML(details string) string {
	if details == "" {
		return ""
	}
	return fmt.Sprintf("<h3>Details:</h3><pre>%s</pre>", html.EscapeString(details))
}
