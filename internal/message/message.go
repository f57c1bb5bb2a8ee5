package message

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActivityEvent is the audit-trail record as published to the notification
// sink, one event per committed transition or payout.
type ActivityEvent struct {
	ID          uuid.UUID       `json:"id"`
	BookingID   uuid.UUID       `json:"bookingId"`
	ActorID     *uuid.UUID      `json:"actorId,omitempty"`
	Action      string          `json:"action"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// PayoutRequest asks for settlement of a held payment. Retries reuse the
// same payment id.
type PayoutRequest struct {
	PaymentID uuid.UUID `json:"paymentId"`
}
