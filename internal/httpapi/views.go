package httpapi

import (
	"encoding/json"
	"time"

	"booking-admin-service/internal/booking"
	"booking-admin-service/internal/db"
	"github.com/google/uuid"
)

type bookingJSON struct {
	ID            uuid.UUID  `json:"id"`
	ClientID      uuid.UUID  `json:"clientId"`
	ProviderID    uuid.UUID  `json:"providerId"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"paymentStatus"`
	QuotedAmount  int64      `json:"quotedAmount"`
	AcceptedAt    *time.Time `json:"acceptedAt,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type paymentJSON struct {
	ID             uuid.UUID  `json:"id"`
	BookingID      uuid.UUID  `json:"bookingId"`
	ClientID       uuid.UUID  `json:"clientId"`
	ProviderID     uuid.UUID  `json:"providerId"`
	Amount         int64      `json:"amount"`
	PlatformFee    int64      `json:"platformFee"`
	ProviderPayout int64      `json:"providerPayout"`
	Status         string     `json:"status"`
	HeldAt         *time.Time `json:"heldAt,omitempty"`
	ProcessedAt    *time.Time `json:"processedAt,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	RefundedAt     *time.Time `json:"refundedAt,omitempty"`
}

type activityJSON struct {
	ID          uuid.UUID       `json:"id"`
	BookingID   uuid.UUID       `json:"bookingId"`
	ActorID     *uuid.UUID      `json:"actorId,omitempty"`
	Action      string          `json:"action"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type bookingDetailView struct {
	Booking *bookingJSON `json:"booking"`
	Payment *paymentJSON `json:"payment,omitempty"`
}

type actionResultJSON struct {
	Booking *bookingJSON `json:"booking"`
	Payment *paymentJSON `json:"payment,omitempty"`
}

func bookingView(entity *db.BookingEntity) *bookingJSON {
	if entity == nil {
		return nil
	}
	return &bookingJSON{
		ID:            entity.ID,
		ClientID:      entity.ClientID,
		ProviderID:    entity.ProviderID,
		Status:        entity.Status,
		PaymentStatus: entity.PaymentStatus,
		QuotedAmount:  entity.QuotedAmount,
		AcceptedAt:    entity.AcceptedAt,
		CompletedAt:   entity.CompletedAt,
		CancelledAt:   entity.CancelledAt,
		CreatedAt:     entity.CreatedAt,
		UpdatedAt:     entity.UpdatedAt,
	}
}

func paymentView(entity *db.PaymentEntity) *paymentJSON {
	if entity == nil {
		return nil
	}
	return &paymentJSON{
		ID:             entity.ID,
		BookingID:      entity.BookingID,
		ClientID:       entity.ClientID,
		ProviderID:     entity.ProviderID,
		Amount:         entity.Amount,
		PlatformFee:    entity.PlatformFee,
		ProviderPayout: entity.ProviderPayout,
		Status:         entity.Status,
		HeldAt:         entity.HeldAt,
		ProcessedAt:    entity.ProcessedAt,
		CompletedAt:    entity.CompletedAt,
		RefundedAt:     entity.RefundedAt,
	}
}

func activityView(entity *db.ActivityEntity) *activityJSON {
	if entity == nil {
		return nil
	}
	return &activityJSON{
		ID:          entity.ID,
		BookingID:   entity.BookingID,
		ActorID:     entity.ActorID,
		Action:      entity.Action,
		Description: entity.Description,
		Metadata:    json.RawMessage(entity.Metadata),
		CreatedAt:   entity.CreatedAt,
	}
}

func actionResultView(result *booking.ActionResult) *actionResultJSON {
	if result == nil {
		return nil
	}
	return &actionResultJSON{
		Booking: bookingView(result.Booking),
		Payment: paymentView(result.Payment),
	}
}
