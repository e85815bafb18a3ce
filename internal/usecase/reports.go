package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	log "github.com/carousell/ct-go/pkg/logger/log_context"

	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/internal/store"
	"github.com/nguyentranbao-ct/community-worker/internal/trigger"
)

var (
	highPriorityReasons   = []string{"harassment", "hate_speech", "privacy_violation"}
	mediumPriorityReasons = []string{"inappropriate_content", "misinformation"}
)

// ReportPriority classifies a report reason into the admin queue priority.
// Unknown and unset reasons are low priority.
func ReportPriority(reason string) string {
	if slices.Contains(highPriorityReasons, reason) {
		return "high"
	}
	if slices.Contains(mediumPriorityReasons, reason) {
		return "medium"
	}
	return "low"
}

// ReportIngestHandler fans in the reported message and both user names into
// one admin-facing notification per new report. Reports referencing a
// message that no longer exists are dropped.
type ReportIngestHandler struct {
	store    store.Store
	resolver UserResolver
}

func NewReportIngestHandler(st store.Store, resolver UserResolver) *ReportIngestHandler {
	return &ReportIngestHandler{
		store:    st,
		resolver: resolver,
	}
}

func (h *ReportIngestHandler) Trigger() trigger.Trigger {
	return trigger.Trigger{
		Name:    "ingest_message_report",
		Pattern: "/message_reports/{reportId}",
		Kind:    trigger.Created,
		Handle:  h.Handle,
	}
}

func (h *ReportIngestHandler) Handle(ctx context.Context, ev trigger.Event) error {
	var report models.MessageReport
	if err := ev.DecodeAfter(&report); err != nil {
		return err
	}
	reportID := ev.Params["reportId"]

	var msg models.DiscussionMessage
	err := h.store.Get(ctx, store.Join("discussion", report.MessageID), &msg)
	if errors.Is(err, models.ErrNotFound) {
		log.Warnw(ctx, "report references missing message",
			"report_id", reportID,
			"message_id", report.MessageID,
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read reported message %s: %w", report.MessageID, err)
	}

	reporter := h.resolver.Resolve(ctx, report.ReporterID)
	reported := h.resolver.Resolve(ctx, report.ReportedUserID)

	content := report.MessageContent
	if content == "" {
		content = msg.Message
	}
	if content == "" {
		content = "Media/Poll content"
	}

	_, err = h.store.Push(ctx, "/admin_notifications", map[string]any{
		"type":              "message_report",
		"reportId":          reportID,
		"messageId":         report.MessageID,
		"reportedUserId":    report.ReportedUserID,
		"reportedUserName":  orUnknown(reported.Name),
		"reporterId":        report.ReporterID,
		"reporterName":      orUnknown(reporter.Name),
		"reason":            report.ReportReason,
		"messageContent":    content,
		"additionalDetails": report.AdditionalDetails,
		"timestamp":         store.ServerTimestamp,
		"status":            "pending",
		"priority":          ReportPriority(report.ReportReason),
	})
	if err != nil {
		return fmt.Errorf("enqueue admin notification for report %s: %w", reportID, err)
	}

	log.Infow(ctx, "message report ingested",
		"report_id", reportID,
		"reason", report.ReportReason,
	)
	return nil
}

func orUnknown(name string) string {
	if name == "" {
		return "Unknown User"
	}
	return name
}

// ReportStatusHandler notifies the reporter when moderation updates the
// status of their report.
type ReportStatusHandler struct {
	notifier Notifier
}

func NewReportStatusHandler(notifier Notifier) *ReportStatusHandler {
	return &ReportStatusHandler{notifier: notifier}
}

func (h *ReportStatusHandler) Trigger() trigger.Trigger {
	return trigger.Trigger{
		Name:    "report_status_update",
		Pattern: "/message_reports/{reportId}",
		Kind:    trigger.Updated,
		Handle:  h.Handle,
	}
}

func (h *ReportStatusHandler) Handle(ctx context.Context, ev trigger.Event) error {
	var before, after models.MessageReport
	if err := ev.DecodeBefore(&before); err != nil {
		return err
	}
	if err := ev.DecodeAfter(&after); err != nil {
		return err
	}
	if before.Status == after.Status {
		return nil
	}
	if after.ReporterID == "" {
		log.Warnw(ctx, "report has no reporter", "report_id", ev.Params["reportId"])
		return nil
	}

	body := reportStatusBody(after.Status)
	if after.AdminNote != "" && after.AdminNote != before.AdminNote {
		body += " Note: " + after.AdminNote
	}

	h.notifier.Notify(ctx, after.ReporterID, models.Payload{
		Notification: models.Notification{
			Title: "Report Update",
			Body:  body,
			Icon:  models.NotificationIcon,
			Sound: models.NotificationSound,
		},
		Data: map[string]string{
			"reportId":     ev.Params["reportId"],
			"newStatus":    after.Status,
			"click_action": models.ClickAction,
		},
	})
	return nil
}

func reportStatusBody(status string) string {
	switch status {
	case "reviewed":
		return "Your report has been reviewed by our moderation team."
	case "resolved":
		return "Your report has been resolved. Thank you for helping keep our community safe."
	case "dismissed":
		return "Your report has been reviewed and dismissed. No violation was found."
	default:
		return fmt.Sprintf("Your report status has been updated to %s.", status)
	}
}
