package booking

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"booking-admin-service/internal/db"
	"booking-admin-service/internal/fees"
	"booking-admin-service/internal/logcontext"
	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	actionSuccessCounter    = metrics.GetOrCreateCounter(`booking_action_total{result="success"}`)
	actionRejectedCounter   = metrics.GetOrCreateCounter(`booking_action_total{result="rejected"}`)
	actionDBErrorCounter    = metrics.GetOrCreateCounter(`booking_action_total{result="db_error"}`)
	actionPublishErrCounter = metrics.GetOrCreateCounter(`booking_action_total{result="publish_failed"}`)

	actionDurationHistogram = metrics.GetOrCreateHistogram(`booking_action_duration_milliseconds`)
)

// ActivityPublisher forwards committed audit entries to the downstream
// notification sink. Publishing happens after commit and is best effort.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, activity *db.ActivityEntity) error
}

// ActionResult is what a successful action returns to the caller: the
// updated booking and, when the action touched the ledger, the payment.
type ActionResult struct {
	Booking *db.BookingEntity
	Payment *db.PaymentEntity
}

type activityMetadata struct {
	PreviousStatus Status `json:"previousStatus"`
	NewStatus      Status `json:"newStatus"`
}

// Service is the orchestrator for booking lifecycle actions. Each action
// runs in one transaction: booking update, payment change and audit entry
// land together or not at all, serialized per booking by the row lock taken
// in SelectForUpdateByID.
type Service struct {
	bookings   *db.BookingRepository
	payments   *db.PaymentRepository
	activities *db.ActivityRepository
	calculator *fees.Calculator
	publisher  ActivityPublisher
	logger     *slog.Logger
}

func NewService(
	bookings *db.BookingRepository,
	payments *db.PaymentRepository,
	activities *db.ActivityRepository,
	calculator *fees.Calculator,
	publisher ActivityPublisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		bookings:   bookings,
		payments:   payments,
		activities: activities,
		calculator: calculator,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *Service) ApplyAction(ctx context.Context, bookingID uuid.UUID, rawAction string, actorID uuid.UUID) (*ActionResult, error) {
	startTime := time.Now()

	ctx = logcontext.AppendCtx(ctx, slog.String("bookingId", bookingID.String()))
	ctx = logcontext.AppendCtx(ctx, slog.String("action", rawAction))

	action, err := ParseAction(rawAction)
	if err != nil {
		s.logger.WarnContext(ctx, "Rejected unknown action")
		actionRejectedCounter.Inc()
		return nil, err
	}

	tx, err := s.bookings.BeginTx(ctx)
	if err != nil {
		actionDBErrorCounter.Inc()
		return nil, errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback(ctx)

	entity, err := s.bookings.SelectForUpdateByID(ctx, tx, bookingID)
	if err != nil {
		actionDBErrorCounter.Inc()
		return nil, err
	}
	if entity == nil {
		actionRejectedCounter.Inc()
		return nil, errors.Wrapf(ErrNotFound, "%s", bookingID)
	}

	transition, err := Plan(Status(entity.Status), action)
	if err != nil {
		s.logger.WarnContext(ctx, "Rejected transition", "status", entity.Status, "error", err)
		actionRejectedCounter.Inc()
		return nil, err
	}

	now := time.Now()
	entity.Status = string(transition.To)

	var payment *db.PaymentEntity

	switch action {
	case ActionAccept:
		split, err := s.calculator.ComputeSplit(entity.QuotedAmount)
		if err != nil {
			actionRejectedCounter.Inc()
			return nil, err
		}

		payment, err = s.payments.UpsertHeld(ctx, tx, &db.PaymentEntity{
			ID:             uuid.New(),
			BookingID:      entity.ID,
			ClientID:       entity.ClientID,
			ProviderID:     entity.ProviderID,
			Amount:         entity.QuotedAmount,
			PlatformFee:    split.PlatformFee,
			ProviderPayout: split.ProviderPayout,
		})
		if err != nil {
			actionDBErrorCounter.Inc()
			return nil, err
		}

		entity.PaymentStatus = string(PaymentHeld)
		if entity.AcceptedAt == nil {
			entity.AcceptedAt = &now
		}

	case ActionComplete:
		if err := s.payments.MarkProcessingByBookingID(ctx, tx, entity.ID); err != nil {
			actionDBErrorCounter.Inc()
			return nil, err
		}

		entity.PaymentStatus = string(PaymentProcessing)
		if entity.CompletedAt == nil {
			entity.CompletedAt = &now
		}

	case ActionCancel:
		if entity.CancelledAt == nil {
			entity.CancelledAt = &now
		}
	}

	if err := s.bookings.Update(ctx, tx, entity); err != nil {
		actionDBErrorCounter.Inc()
		return nil, err
	}

	metadata, err := json.Marshal(activityMetadata{
		PreviousStatus: transition.From,
		NewStatus:      transition.To,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshalling activity metadata")
	}

	activity, err := s.activities.Insert(ctx, tx, &db.ActivityEntity{
		ID:          uuid.New(),
		BookingID:   entity.ID,
		ActorID:     &actorID,
		Action:      transition.ActivityAction,
		Description: transition.Description,
		Metadata:    string(metadata),
	})
	if err != nil {
		actionDBErrorCounter.Inc()
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		actionDBErrorCounter.Inc()
		return nil, errors.Wrap(err, "committing transaction")
	}

	s.logger.InfoContext(ctx, "Applied booking action",
		"previousStatus", transition.From, "newStatus", transition.To)

	if err := s.publisher.PublishActivity(ctx, activity); err != nil {
		// The transition is committed; a sink outage must not fail it.
		s.logger.ErrorContext(ctx, "Error publishing activity", "error", err)
		actionPublishErrCounter.Inc()
	}

	actionSuccessCounter.Inc()
	actionDurationHistogram.Update(float64(time.Since(startTime).Milliseconds()))

	return &ActionResult{Booking: entity, Payment: payment}, nil
}
