package model

import (
	"time"

	"github.com/google/uuid"
)

// Session status values. Sessions are created and transitioned by the
// booking workflow; this service only reads them.
const (
	SessionPending   = "pending"
	SessionConfirmed = "confirmed"
	SessionCancelled = "cancelled"
	SessionCompleted = "completed"
)

// Session represents a scheduled tutoring engagement.
//
// Only confirmed sessions with a start time at or after "now" are eligible
// for arrival notification.
type Session struct {
	ID        uuid.UUID `json:"id"`         // unique identifier for the session
	TutorID   uuid.UUID `json:"tutor_id"`   // tutor running the session
	StudentID uuid.UUID `json:"student_id"` // student attending the session
	StartAt   time.Time `json:"start_at"`   // scheduled start time
	Status    string    `json:"status"`     // current state, e.g., "pending", "confirmed", "cancelled", "completed"
	Student   Recipient `json:"student"`    // recipient projection resolved at lookup time
}

// Recipient is the contactable projection of a student profile, fetched as a
// read-only snapshot at notification time.
type Recipient struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	TelegramChatID string    `json:"telegram_chat_id,omitempty"`
}
