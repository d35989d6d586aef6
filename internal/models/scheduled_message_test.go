package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduledMessageIsDue(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	due := &ScheduledMessage{Status: MessageStatusScheduled, ScheduledFor: now.Add(-time.Minute)}
	assert.True(t, due.IsDue(now))

	exactlyNow := &ScheduledMessage{Status: MessageStatusScheduled, ScheduledFor: now}
	assert.True(t, exactlyNow.IsDue(now))

	future := &ScheduledMessage{Status: MessageStatusScheduled, ScheduledFor: now.Add(time.Minute)}
	assert.False(t, future.IsDue(now))

	sent := &ScheduledMessage{Status: MessageStatusSent, ScheduledFor: now.Add(-time.Minute)}
	assert.False(t, sent.IsDue(now))
}

func TestScheduledMessageCanRetry(t *testing.T) {
	retryable := &ScheduledMessage{Status: MessageStatusFailed, Attempts: 1, MaxAttempts: 3}
	assert.True(t, retryable.CanRetry())

	exhausted := &ScheduledMessage{Status: MessageStatusFailed, Attempts: 3, MaxAttempts: 3}
	assert.False(t, exhausted.CanRetry())

	notFailed := &ScheduledMessage{Status: MessageStatusScheduled, Attempts: 0, MaxAttempts: 3}
	assert.False(t, notFailed.CanRetry())
}
