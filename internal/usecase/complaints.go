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

// ComplaintStatusHandler notifies the submitting user when the status of
// their complaint changes.
type ComplaintStatusHandler struct {
	notifier Notifier
}

func NewComplaintStatusHandler(notifier Notifier) *ComplaintStatusHandler {
	return &ComplaintStatusHandler{notifier: notifier}
}

func (h *ComplaintStatusHandler) Trigger() trigger.Trigger {
	return trigger.Trigger{
		Name:    "complaint_status_update",
		Pattern: "/complaints/{complaintId}",
		Kind:    trigger.Updated,
		Handle:  h.Handle,
	}
}

func (h *ComplaintStatusHandler) Handle(ctx context.Context, ev trigger.Event) error {
	var before, after models.Complaint
	if err := ev.DecodeBefore(&before); err != nil {
		return err
	}
	if err := ev.DecodeAfter(&after); err != nil {
		return err
	}
	if before.Status == after.Status {
		return nil
	}
	if after.UserID == "" {
		log.Warnw(ctx, "complaint has no submitting user", "complaint_id", ev.Params["complaintId"])
		return nil
	}

	issue := after.IssueType
	if issue == "" {
		issue = "Your complaint"
	}
	body := fmt.Sprintf("Your issue has been marked as %s.", after.Status)
	if after.AdminNote != "" {
		body += " " + after.AdminNote
	}

	h.notifier.Notify(ctx, after.UserID, models.Payload{
		Notification: models.Notification{
			Title: "Status Update: " + issue,
			Body:  body,
			Icon:  models.NotificationIcon,
			Sound: models.NotificationSound,
		},
		Data: map[string]string{
			"complaintId":  ev.Params["complaintId"],
			"newStatus":    after.Status,
			"issueTitle":   issue,
			"click_action": models.ClickAction,
		},
	})
	return nil
}

// ComplaintNoteHandler notifies the submitting user when an admin note is
// added or changed on their complaint.
type ComplaintNoteHandler struct {
	store    store.Store
	notifier Notifier
}

func NewComplaintNoteHandler(st store.Store, notifier Notifier) *ComplaintNoteHandler {
	return &ComplaintNoteHandler{
		store:    st,
		notifier: notifier,
	}
}

func (h *ComplaintNoteHandler) Trigger() trigger.Trigger {
	return trigger.Trigger{
		Name:    "complaint_admin_note",
		Pattern: "/complaints/{complaintId}/admin_note",
		Kind:    trigger.Updated,
		Handle:  h.Handle,
	}
}

func (h *ComplaintNoteHandler) Handle(ctx context.Context, ev trigger.Event) error {
	var oldNote, newNote string
	if err := ev.DecodeBefore(&oldNote); err != nil {
		return err
	}
	if err := ev.DecodeAfter(&newNote); err != nil {
		return err
	}
	if newNote == "" || newNote == oldNote {
		return nil
	}

	complaintID := ev.Params["complaintId"]
	var complaint models.Complaint
	err := h.store.Get(ctx, store.Join("complaints", complaintID), &complaint)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read complaint %s: %w", complaintID, err)
	}
	if complaint.UserID == "" {
		log.Warnw(ctx, "complaint has no submitting user", "complaint_id", complaintID)
		return nil
	}

	issue := complaint.IssueType
	if issue == "" {
		issue = "Your complaint"
	}

	h.notifier.Notify(ctx, complaint.UserID, models.Payload{
		Notification: models.Notification{
			Title: "Update on: " + issue,
			Body:  newNote,
			Icon:  models.NotificationIcon,
			Sound: models.NotificationSound,
		},
		Data: map[string]string{
			"complaintId":  complaintID,
			"click_action": models.ClickAction,
		},
	})
	return nil
}
