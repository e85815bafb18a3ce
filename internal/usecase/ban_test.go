package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/internal/store/memory"
)

func TestBanEnforcementRemovesBannedMessage(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	msg := models.DiscussionMessage{SenderID: "u1", Message: "spam"}
	require.NoError(t, st.Set(ctx, "/discussion/m1", msg))
	require.NoError(t, st.Set(ctx, "/banned_users/u1", true))

	handler := NewBanEnforcementHandler(st)
	require.NoError(t, handler.Handle(ctx, messageCreated(t, "m1", msg)))

	var gone models.DiscussionMessage
	err := st.Get(ctx, "/discussion/m1", &gone)
	assert.ErrorIs(t, err, models.ErrNotFound, "banned message removed")

	var remaining map[string]models.DiscussionMessage
	require.NoError(t, st.Get(ctx, "/discussion", &remaining))
	require.Len(t, remaining, 1, "exactly one system notice remains")
	for _, notice := range remaining {
		assert.Equal(t, models.SystemSenderID, notice.SenderID)
		assert.Equal(t, "System", notice.SenderName)
		assert.Equal(t, "system", notice.MessageType)
		assert.Equal(t, "A message from a banned user was automatically removed", notice.Message)
		assert.NotZero(t, notice.Timestamp)
	}
}

func TestBanEnforcementLeavesOthersAlone(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	msg := models.DiscussionMessage{SenderID: "u2", Message: "fine"}
	require.NoError(t, st.Set(ctx, "/discussion/m1", msg))
	require.NoError(t, st.Set(ctx, "/banned_users/u1", true))
	seedWrites := st.Writes()

	handler := NewBanEnforcementHandler(st)
	require.NoError(t, handler.Handle(ctx, messageCreated(t, "m1", msg)))

	assert.Equal(t, seedWrites, st.Writes())
	var kept models.DiscussionMessage
	require.NoError(t, st.Get(ctx, "/discussion/m1", &kept))
	assert.Equal(t, "fine", kept.Message)
}
