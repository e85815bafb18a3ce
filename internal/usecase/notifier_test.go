package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/internal/store/memory"
)

func complaintPayload() models.Payload {
	return models.Payload{
		Notification: models.Notification{
			Title: "Status Update: Noise",
			Body:  "Your issue has been marked as resolved.",
			Icon:  models.NotificationIcon,
			Sound: models.NotificationSound,
		},
		Data: map[string]string{
			"complaintId":  "c1",
			"click_action": models.ClickAction,
		},
	}
}

func historyEntries(t *testing.T, st *memory.Store, userID string) map[string]models.NotificationHistoryEntry {
	t.Helper()
	var entries map[string]models.NotificationHistoryEntry
	err := st.Get(context.Background(), "/users/"+userID+"/notifications", &entries)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	require.NoError(t, err)
	return entries
}

func TestNotifyWithoutTokenSkipsEverything(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.Set(ctx, "/users/u1", models.UserProfile{Name: "Alice", DisplayName: "Alice"}))
	gateway := &fakeGateway{}

	resp := NewNotifier(st, gateway).Notify(ctx, "u1", complaintPayload())

	assert.Nil(t, resp)
	assert.Empty(t, gateway.sent)
	assert.Empty(t, historyEntries(t, st, "u1"))
}

func TestNotifyAppendsHistoryOnSuccess(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.Set(ctx, "/users/u1", models.UserProfile{
		Name:     "Alice",
		FCMToken: "token-1",
	}))
	gateway := &fakeGateway{}

	resp := NewNotifier(st, gateway).Notify(ctx, "u1", complaintPayload())

	require.NotNil(t, resp)
	assert.Equal(t, 1, resp.SuccessCount)
	require.Len(t, gateway.sent, 1)
	assert.Equal(t, "token-1", gateway.sent[0].token)

	entries := historyEntries(t, st, "u1")
	require.Len(t, entries, 1)
	for _, entry := range entries {
		assert.Equal(t, "Status Update: Noise", entry.Title)
		assert.Equal(t, "c1", entry.ComplaintID)
		assert.Empty(t, entry.ReportID)
		assert.False(t, entry.Read)
		assert.NotZero(t, entry.Timestamp)
	}
}

func TestNotifyAppendsHistoryWhenGatewayFails(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.Set(ctx, "/users/u1", models.UserProfile{
		Name:     "Alice",
		FCMToken: "token-1",
	}))
	gateway := &fakeGateway{err: errors.New("gateway unavailable")}

	resp := NewNotifier(st, gateway).Notify(ctx, "u1", complaintPayload())

	assert.Nil(t, resp, "delivery failure returns no result")
	assert.Len(t, historyEntries(t, st, "u1"), 1, "history reflects the attempt regardless")
}
