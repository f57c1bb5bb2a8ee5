package db

import (
	"time"

	"github.com/google/uuid"
)

// Amounts are integer minor units of the platform currency.

type BookingEntity struct {
	ID            uuid.UUID
	ClientID      uuid.UUID
	ProviderID    uuid.UUID
	Status        string
	PaymentStatus string
	QuotedAmount  int64
	AcceptedAt    *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PaymentEntity struct {
	ID             uuid.UUID
	BookingID      uuid.UUID
	ClientID       uuid.UUID
	ProviderID     uuid.UUID
	Amount         int64
	PlatformFee    int64
	ProviderPayout int64
	Status         string
	HeldAt         *time.Time
	ProcessedAt    *time.Time
	CompletedAt    *time.Time
	RefundedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ActivityEntity struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	ActorID     *uuid.UUID
	Action      string
	Description string
	Metadata    string
	CreatedAt   time.Time
}
