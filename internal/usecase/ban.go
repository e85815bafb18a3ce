package usecase

import (
	"context"
	"errors"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"

	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/internal/store"
	"github.com/nguyentranbao-ct/community-worker/internal/trigger"
)

// BanEnforcementHandler removes messages posted by banned users and replaces
// them with a system notice. The notice itself triggers this handler again,
// which terminates because the system sender is not on the ban list; see
// models.SystemSenderID for the invariant that keeps it that way.
type BanEnforcementHandler struct {
	store store.Store
}

func NewBanEnforcementHandler(st store.Store) *BanEnforcementHandler {
	return &BanEnforcementHandler{store: st}
}

func (h *BanEnforcementHandler) Trigger() trigger.Trigger {
	return trigger.Trigger{
		Name:    "enforce_ban_list",
		Pattern: "/discussion/{messageId}",
		Kind:    trigger.Created,
		Handle:  h.Handle,
	}
}

func (h *BanEnforcementHandler) Handle(ctx context.Context, ev trigger.Event) error {
	var msg models.DiscussionMessage
	if err := ev.DecodeAfter(&msg); err != nil {
		return err
	}
	if msg.SenderID == "" {
		return nil
	}

	var marker any
	err := h.store.Get(ctx, store.Join("banned_users", msg.SenderID), &marker)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check ban list for %s: %w", msg.SenderID, err)
	}

	if err := h.store.Delete(ctx, ev.Path); err != nil {
		return fmt.Errorf("remove banned message %s: %w", ev.Params["messageId"], err)
	}

	_, err = h.store.Push(ctx, "/discussion", map[string]any{
		"message":     "A message from a banned user was automatically removed",
		"messageType": "system",
		"timestamp":   store.ServerTimestamp,
		"createdAt":   store.ServerTimestamp,
		"senderName":  "System",
		"senderId":    models.SystemSenderID,
	})
	if err != nil {
		return fmt.Errorf("post removal notice: %w", err)
	}

	log.Infow(ctx, "blocked message from banned user",
		"sender_id", msg.SenderID,
		"message_id", ev.Params["messageId"],
	)
	return nil
}
