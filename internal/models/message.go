package models

// SystemSenderID authors the notices this worker posts into the discussion.
// It must never appear under /banned_users, otherwise the ban handler would
// remove its own notices and repost them forever.
const SystemSenderID = "system"

// DiscussionMessage lives at /discussion/{messageId}. SenderName and the
// replyTo* fields are back-filled by the attribution handler.
type DiscussionMessage struct {
	SenderID       string `json:"senderId,omitempty"`
	SenderName     string `json:"senderName,omitempty"`
	Message        string `json:"message,omitempty"`
	MessageType    string `json:"messageType,omitempty"`
	ReplyTo        string `json:"replyTo,omitempty"`
	ReplyToMessage string `json:"replyToMessage,omitempty"`
	ReplyToSender  string `json:"replyToSender,omitempty"`
	Timestamp      int64  `json:"timestamp,omitempty"`
	CreatedAt      int64  `json:"createdAt,omitempty"`
}
