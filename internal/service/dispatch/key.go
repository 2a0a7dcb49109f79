package dispatch

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// Key derives the idempotency key for a logical notification.
//
// The key is a pure function of (tutor id, session id, message content):
// identical inputs always yield the same key, and any change to the message
// yields a different one. Fields are separated by a NUL byte so that no two
// distinct inputs can collapse into the same digest input.
func Key(tutorID, sessionID uuid.UUID, message string) string {
	h := sha256.New()
	h.Write([]byte(tutorID.String()))
	h.Write([]byte{0})
	h.Write([]byte(sessionID.String()))
	h.Write([]byte{0})
	h.Write([]byte(message))

	return hex.EncodeToString(h.Sum(nil))
}
