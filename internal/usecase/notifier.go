package usecase

import (
	"context"

	log "github.com/carousell/ct-go/pkg/logger/log_context"

	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/internal/repo/fcm"
	"github.com/nguyentranbao-ct/community-worker/internal/store"
)

// Notifier delivers a push payload to a user's registered device and records
// the attempt in the user's notification history. History is written even
// when delivery fails, so the in-app notification list reflects every
// notification the user was due. A missing token short-circuits: no
// delivery, no history.
type Notifier interface {
	Notify(ctx context.Context, userID string, payload models.Payload) *models.SendResponse
}

type notifier struct {
	store   store.Store
	gateway fcm.Client
}

func NewNotifier(st store.Store, gateway fcm.Client) Notifier {
	return &notifier{
		store:   st,
		gateway: gateway,
	}
}

func (n *notifier) Notify(ctx context.Context, userID string, payload models.Payload) *models.SendResponse {
	var profile models.UserProfile
	if err := n.store.Get(ctx, store.Join("users", userID), &profile); err != nil {
		log.Warnw(ctx, "could not read user for notification", "user_id", userID, "error", err)
		return nil
	}
	if profile.FCMToken == "" {
		log.Warnw(ctx, "no device token for user", "user_id", userID)
		return nil
	}

	resp, sendErr := n.gateway.Send(ctx, profile.FCMToken, payload)
	if sendErr != nil {
		log.Errorw(ctx, "notification delivery failed", "user_id", userID, "error", sendErr)
	} else {
		log.Infow(ctx, "notification sent",
			"user_id", userID,
			"success", resp.SuccessCount,
			"failure", resp.FailureCount,
		)
	}

	entry := map[string]any{
		"title":       payload.Notification.Title,
		"body":        payload.Notification.Body,
		"icon":        payload.Notification.Icon,
		"sound":       payload.Notification.Sound,
		"timestamp":   store.ServerTimestamp,
		"complaintId": nullable(payload.Data["complaintId"]),
		"reportId":    nullable(payload.Data["reportId"]),
		"read":        false,
	}
	if _, err := n.store.Push(ctx, store.Join("users", userID, "notifications"), entry); err != nil {
		log.Errorw(ctx, "could not record notification history", "user_id", userID, "error", err)
	}

	if sendErr != nil {
		return nil
	}
	return resp
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
