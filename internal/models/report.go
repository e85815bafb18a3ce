package models

// MessageReport lives at /message_reports/{reportId}.
type MessageReport struct {
	MessageID         string `json:"messageId,omitempty"`
	ReporterID        string `json:"reporterId,omitempty"`
	ReportedUserID    string `json:"reportedUserId,omitempty"`
	ReportReason      string `json:"reportReason,omitempty"`
	MessageContent    string `json:"messageContent,omitempty"`
	AdditionalDetails string `json:"additionalDetails,omitempty"`
	Status            string `json:"status,omitempty"`
	AdminNote         string `json:"adminNote,omitempty"`
}

// AdminNotification is appended under /admin_notifications once per report.
type AdminNotification struct {
	Type              string `json:"type"`
	ReportID          string `json:"reportId"`
	MessageID         string `json:"messageId"`
	ReportedUserID    string `json:"reportedUserId"`
	ReportedUserName  string `json:"reportedUserName"`
	ReporterID        string `json:"reporterId"`
	ReporterName      string `json:"reporterName"`
	Reason            string `json:"reason"`
	MessageContent    string `json:"messageContent"`
	AdditionalDetails string `json:"additionalDetails"`
	Timestamp         int64  `json:"timestamp"`
	Status            string `json:"status"`
	Priority          string `json:"priority"`
}
