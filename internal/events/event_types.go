package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventTokenRefreshed EventType = "token_refreshed"
)

// Event represents a security-relevant event emitted by services. Payloads
// carry account metadata only; tokens and passwords are never attached.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// LoginFailedPayload payload.
type LoginFailedPayload struct {
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

// TokenRefreshedPayload payload.
type TokenRefreshedPayload struct {
	AccessExpiresAt time.Time `json:"access_expires_at"`
}
