package models

// Complaint lives at /complaints/{complaintId} and is owned by the main app;
// this worker only reacts to status and admin_note transitions.
type Complaint struct {
	UserID    string `json:"user_id,omitempty"`
	Status    string `json:"status,omitempty"`
	IssueType string `json:"issue_type,omitempty"`
	AdminNote string `json:"admin_note,omitempty"`
}
