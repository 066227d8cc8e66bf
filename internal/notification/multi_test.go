package notification

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubNotifier records the calls it receives and returns a fixed error.
type stubNotifier struct {
	name     string
	err      error
	messages []string
	errCalls int
	okCalls  int
}

func (s *stubNotifier) Name() string { return s.name }

func (s *stubNotifier) SendMessage(_ context.Context, message string) error {
	s.messages = append(s.messages, message)
	return s.err
}

func (s *stubNotifier) SendErrorMessage(_ context.Context, _, _ string) error {
	s.errCalls++
	return s.err
}

func (s *stubNotifier) SendSuccessMessage(_ context.Context, _, _ string) error {
	s.okCalls++
	return s.err
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(logger)
}

func TestMultiNotifier_BroadcastMessage_AllSucceed(t *testing.T) {
	slack := &stubNotifier{name: "slack"}
	email := &stubNotifier{name: "email"}
	multi := NewMultiNotifier(testLogger(), slack, email)

	breakdown := multi.BroadcastMessage(context.Background(), "hello")

	require.Len(t, breakdown, 2)
	assert.NoError(t, breakdown["slack"])
	assert.NoError(t, breakdown["email"])
	assert.True(t, breakdown.AllSucceeded())
	assert.NoError(t, breakdown.Err())
	assert.Equal(t, []string{"hello"}, slack.messages)
	assert.Equal(t, []string{"hello"}, email.messages)
}

func TestMultiNotifier_BroadcastMessage_PartialFailure(t *testing.T) {
	sendErr := errors.New("connection refused")
	slack := &stubNotifier{name: "slack", err: sendErr}
	email := &stubNotifier{name: "email"}
	multi := NewMultiNotifier(testLogger(), slack, email)

	breakdown := multi.BroadcastMessage(context.Background(), "hello")

	// The failing member must not prevent the remaining members from running
	assert.Equal(t, []string{"hello"}, email.messages)
	assert.ErrorIs(t, breakdown["slack"], sendErr)
	assert.NoError(t, breakdown["email"])
	assert.False(t, breakdown.AllSucceeded())
	assert.Equal(t, []string{"slack"}, breakdown.Failed())
	assert.Equal(t, []string{"email"}, breakdown.Succeeded())

	// One success is enough for the scalar summary
	assert.NoError(t, breakdown.Err())
}

func TestMultiNotifier_BroadcastMessage_AllFail(t *testing.T) {
	slackErr := errors.New("slack down")
	emailErr := errors.New("smtp down")
	multi := NewMultiNotifier(testLogger(),
		&stubNotifier{name: "slack", err: slackErr},
		&stubNotifier{name: "email", err: emailErr},
	)

	breakdown := multi.BroadcastMessage(context.Background(), "hello")

	err := breakdown.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllFailed)
	assert.ErrorIs(t, err, slackErr)
	assert.ErrorIs(t, err, emailErr)

	failed := breakdown.Failed()
	sort.Strings(failed)
	assert.Equal(t, []string{"email", "slack"}, failed)
}

func TestMultiNotifier_Empty(t *testing.T) {
	multi := NewMultiNotifier(testLogger())

	assert.Equal(t, 0, multi.Len())

	breakdown := multi.BroadcastMessage(context.Background(), "hello")
	assert.Empty(t, breakdown)
	assert.False(t, breakdown.AllSucceeded())
	assert.ErrorIs(t, breakdown.Err(), ErrNoNotifiers)
}

func TestMultiNotifier_AddIgnoresNil(t *testing.T) {
	multi := NewMultiNotifier(testLogger())
	multi.Add(nil)
	multi.Add(&stubNotifier{name: "slack"})

	assert.Equal(t, 1, multi.Len())
	assert.Equal(t, []string{"slack"}, multi.Names())
}

func TestMultiNotifier_BroadcastMessage_DuplicateKinds(t *testing.T) {
	sendErr := errors.New("endpoint down")
	first := &stubNotifier{name: "webhook"}
	second := &stubNotifier{name: "webhook", err: sendErr}
	multi := NewMultiNotifier(testLogger(), first, second)

	breakdown := multi.BroadcastMessage(context.Background(), "hello")

	// Both members must be dispatched and neither outcome may shadow the other
	assert.Equal(t, []string{"hello"}, first.messages)
	assert.Equal(t, []string{"hello"}, second.messages)
	require.Len(t, breakdown, 2)
	assert.NoError(t, breakdown["webhook"])
	assert.ErrorIs(t, breakdown["webhook#2"], sendErr)
	assert.False(t, breakdown.AllSucceeded())
	assert.NoError(t, breakdown.Err())
}

func TestMultiNotifier_SendErrorMessage(t *testing.T) {
	slack := &stubNotifier{name: "slack"}
	teams := &stubNotifier{name: "teams"}
	multi := NewMultiNotifier(testLogger(), slack, teams)

	err := multi.SendErrorMessage(context.Background(), "backup failed", "disk full")

	require.NoError(t, err)
	assert.Equal(t, 1, slack.errCalls)
	assert.Equal(t, 1, teams.errCalls)
}

func TestMultiNotifier_SendSuccessMessage(t *testing.T) {
	slack := &stubNotifier{name: "slack"}
	multi := NewMultiNotifier(testLogger(), slack)

	err := multi.SendSuccessMessage(context.Background(), "backup finished", "")

	require.NoError(t, err)
	assert.Equal(t, 1, slack.okCalls)
}

func TestMultiNotifier_ImplementsNotifier(t *testing.T) {
	var _ Notifier = (*MultiNotifier)(nil)

	multi := NewMultiNotifier(testLogger(), &stubNotifier{name: "slack"})
	assert.Equal(t, "multi", multi.Name())
}

func TestBreakdown_Err_Empty(t *testing.T) {
	assert.ErrorIs(t, Breakdown{}.Err(), ErrNoNotifiers)
}
