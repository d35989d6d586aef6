package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionTerminalTransitions(t *testing.T) {
	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	t.Run("success records message reference", func(t *testing.T) {
		e := &WorkflowExecution{Status: ExecutionStatusPending}
		assert.False(t, e.IsTerminal())

		e.MarkSuccess("msg-1", at)
		assert.True(t, e.IsTerminal())
		assert.Equal(t, ExecutionStatusSuccess, e.Status)
		require.NotNil(t, e.ScheduledMessageID)
		assert.Equal(t, "msg-1", *e.ScheduledMessageID)
		require.NotNil(t, e.CompletedAt)
		assert.Equal(t, at, *e.CompletedAt)
	})

	t.Run("skipped records reason", func(t *testing.T) {
		e := &WorkflowExecution{Status: ExecutionStatusPending}
		e.MarkSkipped("conditions not met", at)

		assert.Equal(t, ExecutionStatusSkipped, e.Status)
		require.NotNil(t, e.SkipReason)
		assert.Equal(t, "conditions not met", *e.SkipReason)
		assert.Nil(t, e.ScheduledMessageID)
	})

	t.Run("failed records error", func(t *testing.T) {
		e := &WorkflowExecution{Status: ExecutionStatusPending}
		e.MarkFailed("template lookup failed", at)

		assert.Equal(t, ExecutionStatusFailed, e.Status)
		require.NotNil(t, e.ErrorMessage)
		assert.Equal(t, "template lookup failed", *e.ErrorMessage)
	})
}
