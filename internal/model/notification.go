package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// NotificationRecord status values. A record is immutable once sent; a
// failed record may be taken over by a retried attempt sharing the same
// idempotency key.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Delivery channels.
const (
	ChannelEmail    = "email"
	ChannelTelegram = "telegram"
)

// KindArrivalUpdate marks records produced by the arrival pipeline.
const KindArrivalUpdate = "arrival_update"

// Dispatch result statuses returned to callers.
const (
	ResultSent                  = "sent"
	ResultAlreadySent           = "already_sent"
	ResultRejected              = "rejected"
	ResultNoUpcomingSession     = "no_upcoming_session"
	ResultDependencyUnavailable = "dependency_unavailable"
	ResultPartialFailure        = "partial_failure"
)

// ErrDeliveryRejected marks a transport failure that retrying cannot fix:
// the delivery service permanently refused the recipient or the content.
// Transports wrap permanent refusals with it so the dispatcher can stop
// retrying immediately.
var ErrDeliveryRejected = errors.New("delivery rejected by transport")

// NotificationRequest is the transient input to the dispatch pipeline.
type NotificationRequest struct {
	TutorID       uuid.UUID `json:"tutor_id"`
	Message       string    `json:"message"`
	EstimatedTime string    `json:"estimated_time,omitempty"`
	Channel       string    `json:"channel,omitempty"` // defaults to "email"
}

// NotificationRecord is the durable audit entry for one logical notification.
type NotificationRecord struct {
	ID             uuid.UUID `json:"id"`
	RecipientID    uuid.UUID `json:"recipient_id"`
	Kind           string    `json:"kind"`
	Message        string    `json:"message"`
	EstimatedTime  string    `json:"estimated_time,omitempty"`
	Channel        string    `json:"channel"`
	Status         string    `json:"status"`
	IdempotencyKey string    `json:"idempotency_key"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Payload is a fully rendered notification ready for a transport.
type Payload struct {
	Channel  string            `json:"channel"`
	To       string            `json:"to"`
	Subject  string            `json:"subject"`
	TextBody string            `json:"text_body"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// DispatchResult is the stable outcome surfaced to callers. Detail carries
// an optional human-readable diagnostic; no raw dependency errors cross the
// boundary except through it.
type DispatchResult struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}
