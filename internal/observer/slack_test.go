package observer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest-api/internal/domain"
)

func TestSlackNotifier_OnlyCompletionTriggersMessage(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	task, err := domain.NewTask("Buy milk", "", "alice@example.com", 2, now.Add(time.Hour), now)
	require.NoError(t, err)

	tests := []struct {
		action      domain.Action
		wantMessage bool
	}{
		{domain.ActionTaskCreated, false},
		{domain.ActionTaskUpdated, false},
		{domain.ActionTaskDeleted, false},
		{domain.ActionMarkTaskCompleted, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			sender := &fakeSlackSender{}
			notifier := NewSlackNotifier(sender, nil)

			err := notifier.Update(context.Background(), tt.action, task, nil)

			require.NoError(t, err)
			if tt.wantMessage {
				require.Len(t, sender.messages, 1)
				assert.Contains(t, sender.messages[0], task.ID)
				assert.Contains(t, sender.messages[0], "Good job!")
			} else {
				assert.Empty(t, sender.messages)
			}
		})
	}
}

func TestSlackNotifier_SendFailurePropagates(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	task, err := domain.NewTask("Buy milk", "", "alice@example.com", 2, now.Add(time.Hour), now)
	require.NoError(t, err)

	sender := &fakeSlackSender{err: assert.AnError}
	notifier := NewSlackNotifier(sender, nil)

	err = notifier.Update(context.Background(), domain.ActionMarkTaskCompleted, task, nil)
	assert.Error(t, err)
}
