package models

const (
	NotificationIcon  = "@mipmap/ic_launcher"
	NotificationSound = "default"
	ClickAction       = "FLUTTER_NOTIFICATION_CLICK"
)

type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
	Sound string `json:"sound,omitempty"`
}

// Payload is what the push gateway accepts for a single device token.
type Payload struct {
	Notification Notification      `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type SendResult struct {
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

type SendResponse struct {
	SuccessCount int          `json:"success"`
	FailureCount int          `json:"failure"`
	Results      []SendResult `json:"results,omitempty"`
}

// NotificationHistoryEntry is appended under /users/{userId}/notifications
// whenever a notification was due, whether or not delivery succeeded.
type NotificationHistoryEntry struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	Icon        string `json:"icon,omitempty"`
	Sound       string `json:"sound,omitempty"`
	Timestamp   int64  `json:"timestamp"`
	ComplaintID string `json:"complaintId,omitempty"`
	ReportID    string `json:"reportId,omitempty"`
	Read        bool   `json:"read"`
}
