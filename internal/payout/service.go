package payout

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"booking-admin-service/internal/booking"
	"booking-admin-service/internal/db"
	"booking-admin-service/internal/logcontext"
	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrNotFound            = errors.New("payment not found")
	ErrInvalidPaymentState = errors.New("payment not eligible for payout")
	ErrTransferUnconfirmed = errors.New("transfer not confirmed")
)

var (
	payoutSuccessCounter     = metrics.GetOrCreateCounter(`payout_process_total{result="success"}`)
	payoutRejectedCounter    = metrics.GetOrCreateCounter(`payout_process_total{result="rejected"}`)
	payoutUnconfirmedCounter = metrics.GetOrCreateCounter(`payout_process_total{result="unconfirmed"}`)
	payoutDBErrorCounter     = metrics.GetOrCreateCounter(`payout_process_total{result="db_error"}`)

	payoutDurationHistogram = metrics.GetOrCreateHistogram(`payout_process_duration_milliseconds`)
)

type payoutMetadata struct {
	Amount         int64  `json:"amount"`
	PlatformFee    int64  `json:"platformFee"`
	ProviderPayout int64  `json:"providerPayout"`
	Reference      string `json:"reference,omitempty"`
}

// Service settles held payments. The flow is deliberately split into three
// steps: move the payment to PROCESSING and commit, ask the authority to
// transfer with a bounded timeout, and only mark COMPLETED once the
// transfer is confirmed. An unconfirmed transfer leaves the payment in
// PROCESSING, and the caller retries with the same payment id.
type Service struct {
	payments   *db.PaymentRepository
	bookings   *db.BookingRepository
	activities *db.ActivityRepository
	authority  Authority
	timeout    time.Duration
	logger     *slog.Logger
}

func NewService(
	payments *db.PaymentRepository,
	bookings *db.BookingRepository,
	activities *db.ActivityRepository,
	authority Authority,
	timeoutMs int,
	logger *slog.Logger,
) *Service {
	if timeoutMs <= 0 {
		timeoutMs = defaultTimeoutMs
	}
	return &Service{
		payments:   payments,
		bookings:   bookings,
		activities: activities,
		authority:  authority,
		timeout:    time.Duration(timeoutMs) * time.Millisecond,
		logger:     logger,
	}
}

func (s *Service) ProcessPayout(ctx context.Context, paymentID uuid.UUID) (*db.PaymentEntity, error) {
	startTime := time.Now()

	ctx = logcontext.AppendCtx(ctx, slog.String("paymentId", paymentID.String()))

	payment, err := s.beginProcessing(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	confirmation, err := s.transfer(ctx, payment)
	if err != nil {
		s.logger.WarnContext(ctx, "Transfer not confirmed, payment stays in PROCESSING", "error", err)
		payoutUnconfirmedCounter.Inc()
		return nil, errors.Wrap(ErrTransferUnconfirmed, err.Error())
	}

	settled, err := s.complete(ctx, payment, confirmation)
	if err != nil {
		payoutDBErrorCounter.Inc()
		return nil, err
	}

	s.logger.InfoContext(ctx, "Payout completed", "reference", confirmation.Reference)
	payoutSuccessCounter.Inc()
	payoutDurationHistogram.Update(float64(time.Since(startTime).Milliseconds()))

	return settled, nil
}

// beginProcessing validates eligibility under the row lock and commits the
// move to PROCESSING before any money moves, so a crash mid-transfer leaves
// a resumable state rather than an ambiguous one.
func (s *Service) beginProcessing(ctx context.Context, paymentID uuid.UUID) (*db.PaymentEntity, error) {
	tx, err := s.payments.BeginTx(ctx)
	if err != nil {
		payoutDBErrorCounter.Inc()
		return nil, errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback(ctx)

	payment, err := s.payments.SelectForUpdateByID(ctx, tx, paymentID)
	if err != nil {
		payoutDBErrorCounter.Inc()
		return nil, err
	}
	if payment == nil {
		payoutRejectedCounter.Inc()
		return nil, errors.Wrapf(ErrNotFound, "%s", paymentID)
	}

	status := booking.PaymentStatus(payment.Status)
	if status != booking.PaymentHeld && status != booking.PaymentProcessing {
		payoutRejectedCounter.Inc()
		return nil, errors.Wrapf(ErrInvalidPaymentState, "payment %s is %s", paymentID, payment.Status)
	}

	payment, err = s.payments.MarkProcessing(ctx, tx, paymentID)
	if err != nil {
		payoutDBErrorCounter.Inc()
		return nil, err
	}

	if err := s.bookings.UpdatePaymentStatus(ctx, tx, payment.BookingID, string(booking.PaymentProcessing)); err != nil {
		payoutDBErrorCounter.Inc()
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		payoutDBErrorCounter.Inc()
		return nil, errors.Wrap(err, "committing transaction")
	}

	return payment, nil
}

func (s *Service) transfer(ctx context.Context, payment *db.PaymentEntity) (*TransferConfirmation, error) {
	transferCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	confirmation, err := s.authority.Transfer(transferCtx, TransferRequest{
		IdempotencyKey: payment.ID.String(),
		PaymentID:      payment.ID,
		ProviderID:     payment.ProviderID,
		ProviderPayout: payment.ProviderPayout,
		PlatformFee:    payment.PlatformFee,
	})
	if err != nil {
		return nil, err
	}
	if !confirmation.Confirmed {
		return nil, errors.Errorf("authority declined to confirm transfer %s", payment.ID)
	}
	return confirmation, nil
}

func (s *Service) complete(ctx context.Context, payment *db.PaymentEntity, confirmation *TransferConfirmation) (*db.PaymentEntity, error) {
	tx, err := s.payments.BeginTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback(ctx)

	settled, err := s.payments.MarkCompleted(ctx, tx, payment.ID)
	if err != nil {
		return nil, err
	}
	if settled == nil {
		// A concurrent call settled or refunded it between our two
		// transactions; the guarded update refuses to touch it.
		return nil, errors.Wrapf(ErrInvalidPaymentState, "payment %s changed state during transfer", payment.ID)
	}

	if err := s.bookings.UpdatePaymentStatus(ctx, tx, settled.BookingID, string(booking.PaymentCompleted)); err != nil {
		return nil, err
	}

	metadata, err := json.Marshal(payoutMetadata{
		Amount:         settled.Amount,
		PlatformFee:    settled.PlatformFee,
		ProviderPayout: settled.ProviderPayout,
		Reference:      confirmation.Reference,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshalling payout metadata")
	}

	_, err = s.activities.Insert(ctx, tx, &db.ActivityEntity{
		ID:          uuid.New(),
		BookingID:   settled.BookingID,
		Action:      "payout_processed",
		Description: "Provider payout has been processed",
		Metadata:    string(metadata),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "committing transaction")
	}

	return settled, nil
}
