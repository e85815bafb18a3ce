package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/community-worker/internal/trigger"
)

func tokenWritten(t *testing.T, userID string, before, after string) trigger.Event {
	t.Helper()
	ev := trigger.Event{
		Path:   "/users/" + userID + "/fcmToken",
		Params: map[string]string{"userId": userID},
	}
	if before != "" {
		ev.Before = mustJSON(t, before)
	}
	if after != "" {
		ev.After = mustJSON(t, after)
	}
	switch {
	case before == "":
		ev.Kind = trigger.Created
	case after == "":
		ev.Kind = trigger.Deleted
	default:
		ev.Kind = trigger.Updated
	}
	return ev
}

func TestTokenRefresh(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
	}{
		{"first token", "", "token-1"},
		{"token rotated", "token-1", "token-2"},
		{"token removed", "token-1", ""},
		{"empty write", "", ""},
	}

	handler := NewTokenRefreshHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tokenWritten(t, "u1", tt.before, tt.after)
			require.NoError(t, handler.Handle(context.Background(), ev))
		})
	}
}

func TestTokenRefreshRejectsMalformedValue(t *testing.T) {
	handler := NewTokenRefreshHandler()
	ev := trigger.Event{
		Path:   "/users/u1/fcmToken",
		Kind:   trigger.Created,
		Params: map[string]string{"userId": "u1"},
		After:  json.RawMessage(`{"not":"a string"}`),
	}
	require.Error(t, handler.Handle(context.Background(), ev))
}
