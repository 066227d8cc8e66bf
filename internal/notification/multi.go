package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Breakdown records the per-channel outcome of one fan-out dispatch,
// keyed by Notifier.Name(). A nil value means the channel succeeded.
type Breakdown map[string]error

// Succeeded returns the names of channels that delivered successfully
func (b Breakdown) Succeeded() []string {
	var names []string
	for name, err := range b {
		if err == nil {
			names = append(names, name)
		}
	}
	return names
}

// Failed returns the names of channels whose delivery failed
func (b Breakdown) Failed() []string {
	var names []string
	for name, err := range b {
		if err != nil {
			names = append(names, name)
		}
	}
	return names
}

// AllSucceeded reports whether every channel delivered successfully.
// An empty breakdown is not a success: nothing was sent.
func (b Breakdown) AllSucceeded() bool {
	return len(b) > 0 && len(b.Failed()) == 0
}

// Err collapses the breakdown into the scalar summary: nil when at least
// one channel succeeded, ErrNoNotifiers for an empty group, and an error
// wrapping ErrAllFailed together with every member error otherwise.
func (b Breakdown) Err() error {
	if len(b) == 0 {
		return ErrNoNotifiers
	}

	errs := []error{ErrAllFailed}
	for _, err := range b {
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// MultiNotifier fans a single send out to every configured channel.
// Members are dispatched sequentially in insertion order; one member's
// failure never prevents the remaining members from being attempted.
// It implements the Notifier interface itself, so a group can be used
// anywhere a single channel can.
type MultiNotifier struct {
	notifiers []Notifier
	logger    *logrus.Entry
}

// NewMultiNotifier creates a fan-out group over the given notifiers
func NewMultiNotifier(logger *logrus.Entry, notifiers ...Notifier) *MultiNotifier {
	m := &MultiNotifier{logger: logger}
	for _, n := range notifiers {
		m.Add(n)
	}
	return m
}

// Add appends a notifier to the group
func (m *MultiNotifier) Add(n Notifier) {
	if n != nil {
		m.notifiers = append(m.notifiers, n)
	}
}

// Len returns the number of members in the group
func (m *MultiNotifier) Len() int {
	return len(m.notifiers)
}

// Names returns the member channel names in dispatch order
func (m *MultiNotifier) Names() []string {
	names := make([]string, 0, len(m.notifiers))
	for _, n := range m.notifiers {
		names = append(names, n.Name())
	}
	return names
}

// Name returns the channel kind (implements Notifier interface)
func (m *MultiNotifier) Name() string { return "multi" }

// BroadcastMessage delivers a freeform message to every member and
// returns the per-channel breakdown
func (m *MultiNotifier) BroadcastMessage(ctx context.Context, message string) Breakdown {
	return m.broadcast(func(n Notifier) error {
		return n.SendMessage(ctx, message)
	})
}

// BroadcastErrorMessage delivers an error notification to every member
func (m *MultiNotifier) BroadcastErrorMessage(ctx context.Context, title, details string) Breakdown {
	return m.broadcast(func(n Notifier) error {
		return n.SendErrorMessage(ctx, title, details)
	})
}

// BroadcastSuccessMessage delivers a success notification to every member
func (m *MultiNotifier) BroadcastSuccessMessage(ctx context.Context, title, details string) Breakdown {
	return m.broadcast(func(n Notifier) error {
		return n.SendSuccessMessage(ctx, title, details)
	})
}

// SendMessage implements the Notifier interface over the whole group
func (m *MultiNotifier) SendMessage(ctx context.Context, message string) error {
	return m.BroadcastMessage(ctx, message).Err()
}

// SendErrorMessage implements the Notifier interface over the whole group
func (m *MultiNotifier) SendErrorMessage(ctx context.Context, title, details string) error {
	return m.BroadcastErrorMessage(ctx, title, details).Err()
}

// SendSuccessMessage implements the Notifier interface over the whole group
func (m *MultiNotifier) SendSuccessMessage(ctx context.Context, title, details string) error {
	return m.BroadcastSuccessMessage(ctx, title, details).Err()
}

// broadcast invokes send on every member, collecting outcomes without
// short-circuiting. Members sharing a name get a #N suffix so one
// outcome cannot shadow another.
func (m *MultiNotifier) broadcast(send func(Notifier) error) Breakdown {
	breakdown := make(Breakdown, len(m.notifiers))
	seen := make(map[string]int, len(m.notifiers))
	for _, n := range m.notifiers {
		err := send(n)
		if err != nil {
			m.logger.WithError(err).WithField("channel", n.Name()).Warn("Notification delivery failed")
		}

		key := n.Name()
		seen[key]++
		if count := seen[key]; count > 1 {
			key = fmt.Sprintf("%s#%d", key, count)
		}
		breakdown[key] = err
	}
	return breakdown
}
