package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/internal/store/memory"
	"github.com/nguyentranbao-ct/community-worker/internal/trigger"
)

func TestReportPriority(t *testing.T) {
	tests := []struct {
		reason   string
		expected string
	}{
		{"harassment", "high"},
		{"hate_speech", "high"},
		{"privacy_violation", "high"},
		{"inappropriate_content", "medium"},
		{"misinformation", "medium"},
		{"spam", "low"},
		{"", "low"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ReportPriority(tt.reason), "reason %q", tt.reason)
	}
}

func reportCreated(t *testing.T, reportID string, report models.MessageReport) trigger.Event {
	t.Helper()
	return trigger.Event{
		Path:   "/message_reports/" + reportID,
		Kind:   trigger.Created,
		Params: map[string]string{"reportId": reportID},
		After:  mustJSON(t, report),
	}
}

func adminQueue(t *testing.T, st *memory.Store) map[string]models.AdminNotification {
	t.Helper()
	var entries map[string]models.AdminNotification
	err := st.Get(context.Background(), "/admin_notifications", &entries)
	if err != nil {
		return nil
	}
	return entries
}

func TestReportIngestEnqueuesAdminNotification(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.Set(ctx, "/discussion/m1", models.DiscussionMessage{
		SenderID: "u2",
		Message:  "offensive text",
	}))
	require.NoError(t, st.Set(ctx, "/users/u1", models.UserProfile{Name: "Alice"}))
	require.NoError(t, st.Set(ctx, "/users/u2", models.UserProfile{Name: "Bob"}))
	resolver := NewUserResolver(st, &fakeIdentity{}, fixedName("User42"))

	handler := NewReportIngestHandler(st, resolver)
	ev := reportCreated(t, "r1", models.MessageReport{
		MessageID:      "m1",
		ReporterID:     "u1",
		ReportedUserID: "u2",
		ReportReason:   "hate_speech",
	})
	require.NoError(t, handler.Handle(ctx, ev))

	entries := adminQueue(t, st)
	require.Len(t, entries, 1)
	for _, entry := range entries {
		assert.Equal(t, "message_report", entry.Type)
		assert.Equal(t, "r1", entry.ReportID)
		assert.Equal(t, "m1", entry.MessageID)
		assert.Equal(t, "Alice", entry.ReporterName)
		assert.Equal(t, "Bob", entry.ReportedUserName)
		assert.Equal(t, "offensive text", entry.MessageContent)
		assert.Equal(t, "high", entry.Priority)
		assert.Equal(t, "pending", entry.Status)
		assert.NotZero(t, entry.Timestamp)
	}
}

func TestReportIngestContentFallback(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.Set(ctx, "/discussion/m1", models.DiscussionMessage{
		SenderID:    "u2",
		MessageType: "image",
	}))

	handler := NewReportIngestHandler(st, &stubResolver{profile: models.UserProfile{Name: "Someone"}})
	require.NoError(t, handler.Handle(ctx, reportCreated(t, "r1", models.MessageReport{
		MessageID:    "m1",
		ReportReason: "spam",
	})))

	entries := adminQueue(t, st)
	require.Len(t, entries, 1)
	for _, entry := range entries {
		assert.Equal(t, "Media/Poll content", entry.MessageContent)
		assert.Equal(t, "low", entry.Priority)
	}
}

func TestReportIngestDropsMissingMessage(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	handler := NewReportIngestHandler(st, &stubResolver{})
	require.NoError(t, handler.Handle(ctx, reportCreated(t, "r1", models.MessageReport{
		MessageID: "gone",
	})))

	assert.Equal(t, 0, st.Writes())
	assert.Empty(t, adminQueue(t, st))
}

func reportUpdated(t *testing.T, reportID string, before, after models.MessageReport) trigger.Event {
	t.Helper()
	return trigger.Event{
		Path:   "/message_reports/" + reportID,
		Kind:   trigger.Updated,
		Params: map[string]string{"reportId": reportID},
		Before: mustJSON(t, before),
		After:  mustJSON(t, after),
	}
}

func TestReportStatusBodies(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{"reviewed", "Your report has been reviewed by our moderation team."},
		{"resolved", "Your report has been resolved. Thank you for helping keep our community safe."},
		{"dismissed", "Your report has been reviewed and dismissed. No violation was found."},
		{"escalated", "Your report status has been updated to escalated."},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			ctx := context.Background()
			st := memory.New()
			seedNotifiable(t, st, "u1")
			gateway := &fakeGateway{}

			handler := NewReportStatusHandler(NewNotifier(st, gateway))
			ev := reportUpdated(t, "r1",
				models.MessageReport{ReporterID: "u1", Status: "pending"},
				models.MessageReport{ReporterID: "u1", Status: tt.status},
			)
			require.NoError(t, handler.Handle(ctx, ev))

			require.Len(t, gateway.sent, 1)
			assert.Equal(t, "Report Update", gateway.sent[0].payload.Notification.Title)
			assert.Equal(t, tt.expected, gateway.sent[0].payload.Notification.Body)
			assert.Equal(t, tt.status, gateway.sent[0].payload.Data["newStatus"])
		})
	}
}

func TestReportStatusAppendsNewAdminNote(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedNotifiable(t, st, "u1")
	gateway := &fakeGateway{}

	handler := NewReportStatusHandler(NewNotifier(st, gateway))
	ev := reportUpdated(t, "r1",
		models.MessageReport{ReporterID: "u1", Status: "pending"},
		models.MessageReport{ReporterID: "u1", Status: "dismissed", AdminNote: "Context was satire."},
	)
	require.NoError(t, handler.Handle(ctx, ev))

	require.Len(t, gateway.sent, 1)
	assert.Equal(t,
		"Your report has been reviewed and dismissed. No violation was found. Note: Context was satire.",
		gateway.sent[0].payload.Notification.Body,
	)
}

func TestReportStatusWithoutReporterIsNoop(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	gateway := &fakeGateway{}

	handler := NewReportStatusHandler(NewNotifier(st, gateway))
	ev := reportUpdated(t, "r1",
		models.MessageReport{Status: "pending"},
		models.MessageReport{Status: "resolved"},
	)
	require.NoError(t, handler.Handle(ctx, ev))

	assert.Empty(t, gateway.sent)
	assert.Equal(t, 0, st.Writes())
}

func TestReportStatusUnchangedIsNoop(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedNotifiable(t, st, "u1")
	gateway := &fakeGateway{}

	handler := NewReportStatusHandler(NewNotifier(st, gateway))
	report := models.MessageReport{ReporterID: "u1", Status: "pending"}
	require.NoError(t, handler.Handle(ctx, reportUpdated(t, "r1", report, report)))

	assert.Empty(t, gateway.sent)
}
