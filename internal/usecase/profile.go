package usecase

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"

	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/internal/store"
	"github.com/nguyentranbao-ct/community-worker/internal/trigger"
)

// ProfileProvisioningHandler writes the initial profile record when the
// identity provider creates a new user. The write is unconditional; identity
// creation fires once per user.
type ProfileProvisioningHandler struct {
	store   store.Store
	genName NameGenerator
}

func NewProfileProvisioningHandler(st store.Store, genName NameGenerator) *ProfileProvisioningHandler {
	return &ProfileProvisioningHandler{
		store:   st,
		genName: genName,
	}
}

func (h *ProfileProvisioningHandler) Trigger() trigger.Trigger {
	return trigger.Trigger{
		Name:    "create_user_profile",
		Pattern: "/auth/users/{userId}",
		Kind:    trigger.Created,
		Handle:  h.Handle,
	}
}

func (h *ProfileProvisioningHandler) Handle(ctx context.Context, ev trigger.Event) error {
	var user models.AuthUser
	if err := ev.DecodeAfter(&user); err != nil {
		return err
	}

	userID := ev.Params["userId"]
	name := deriveName(user.DisplayName, user.Email, h.genName)

	err := h.store.Set(ctx, store.Join("users", userID), map[string]any{
		"name":        name,
		"displayName": name,
		"email":       user.Email,
		"createdAt":   store.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("write profile for %s: %w", userID, err)
	}

	log.Infow(ctx, "user profile created", "user_id", userID, "name", name)
	return nil
}
