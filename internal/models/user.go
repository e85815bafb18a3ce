package models

// UserProfile lives at /users/{userId}. Name and DisplayName are non-empty
// once the record exists.
type UserProfile struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	FCMToken    string `json:"fcmToken,omitempty"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
}

// AuthUser is what the identity provider returns for a user id, and the
// payload of identity-creation events.
type AuthUser struct {
	UID         string `json:"uid,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}
