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

// AttributionHandler back-fills the sender's display name onto new
// discussion messages, plus a snippet of the quoted message when replying.
// Messages that already carry a senderName are left alone, which makes
// event re-delivery a no-op.
type AttributionHandler struct {
	store    store.Store
	resolver UserResolver
}

func NewAttributionHandler(st store.Store, resolver UserResolver) *AttributionHandler {
	return &AttributionHandler{
		store:    st,
		resolver: resolver,
	}
}

func (h *AttributionHandler) Trigger() trigger.Trigger {
	return trigger.Trigger{
		Name:    "add_sender_name",
		Pattern: "/discussion/{messageId}",
		Kind:    trigger.Created,
		Handle:  h.Handle,
	}
}

func (h *AttributionHandler) Handle(ctx context.Context, ev trigger.Event) error {
	var msg models.DiscussionMessage
	if err := ev.DecodeAfter(&msg); err != nil {
		return err
	}
	if msg.SenderName != "" || msg.SenderID == "" {
		return nil
	}

	profile := h.resolver.Resolve(ctx, msg.SenderID)

	patch := map[string]any{
		"senderName": profile.Name,
		"createdAt":  store.ServerTimestamp,
	}
	if msg.ReplyTo != "" {
		var replied models.DiscussionMessage
		err := h.store.Get(ctx, store.Join("discussion", msg.ReplyTo), &replied)
		switch {
		case err == nil:
			patch["replyToMessage"] = replied.Message
			sender := replied.SenderName
			if sender == "" {
				sender = "Unknown User"
			}
			patch["replyToSender"] = sender
		case !errors.Is(err, models.ErrNotFound):
			return fmt.Errorf("read replied message %s: %w", msg.ReplyTo, err)
		}
	}

	if err := h.store.Update(ctx, ev.Path, patch); err != nil {
		return fmt.Errorf("patch message %s: %w", ev.Params["messageId"], err)
	}

	log.Infow(ctx, "sender name attached",
		"message_id", ev.Params["messageId"],
		"sender_name", profile.Name,
	)
	return nil
}
