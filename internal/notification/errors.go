package notification

import (
	"errors"
	"fmt"
)

// Common errors that can be checked with errors.Is()
var (
	// ErrEmptyMessage indicates that a send was attempted with an empty message
	ErrEmptyMessage = errors.New("message must not be empty")

	// ErrNoNotifiers indicates that a fan-out group has no members configured
	ErrNoNotifiers = errors.New("no notifiers configured")

	// ErrAllFailed indicates that every member of a fan-out group failed to deliver
	ErrAllFailed = errors.New("all notifiers failed")

	// ErrUnknownKind indicates that the factory was asked for an unsupported channel kind
	ErrUnknownKind = errors.New("unknown notification kind")
)

// ConfigError reports a required channel setting that was missing at
// construction time. It names the channel and the setting so the
// misconfiguration is discoverable at startup.
type ConfigError struct {
	Channel string
	Setting string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s notifier: missing required setting %q", e.Channel, e.Setting)
}
