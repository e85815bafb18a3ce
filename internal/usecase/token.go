package usecase

import (
	"context"

	log "github.com/carousell/ct-go/pkg/logger/log_context"

	"github.com/nguyentranbao-ct/community-worker/internal/trigger"
)

// TokenRefreshHandler logs device-token writes. Pure observability: no data
// mutation, no notification. Token removals are ignored.
type TokenRefreshHandler struct{}

func NewTokenRefreshHandler() *TokenRefreshHandler {
	return &TokenRefreshHandler{}
}

func (h *TokenRefreshHandler) Trigger() trigger.Trigger {
	return trigger.Trigger{
		Name:    "token_refresh",
		Pattern: "/users/{userId}/fcmToken",
		Kind:    trigger.Written,
		Handle:  h.Handle,
	}
}

func (h *TokenRefreshHandler) Handle(ctx context.Context, ev trigger.Event) error {
	var token string
	if err := ev.DecodeAfter(&token); err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	action := "created"
	if ev.HasBefore() {
		action = "updated"
	}
	log.Infow(ctx, "device token written",
		"user_id", ev.Params["userId"],
		"action", action,
	)
	return nil
}
