package notification

import "context"

// Channel kind identifiers understood by the factory.
const (
	KindSlack   = "slack"
	KindTeams   = "teams"
	KindEmail   = "email"
	KindLine    = "line"
	KindWebhook = "webhook"
)

// Notifier is the contract every notification channel implements.
// A nil error means the sink accepted the delivery; transport failures are
// returned as errors, never panics, so callers can safely notify from their
// own error-handling paths.
type Notifier interface {
	// Name returns the channel kind identifier (e.g. "slack").
	Name() string

	// SendMessage delivers a freeform message.
	SendMessage(ctx context.Context, message string) error

	// SendErrorMessage delivers a message tagged as an error, with
	// channel-specific visual treatment. details may be empty.
	SendErrorMessage(ctx context.Context, title, details string) error

	// SendSuccessMessage delivers a message tagged as a success.
	SendSuccessMessage(ctx context.Context, title, details string) error
}
