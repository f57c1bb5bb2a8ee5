package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// PaymentRepository is the escrow ledger. The booking_id unique constraint
// guarantees at most one payment row per booking, and every mutation is
// written so that replaying it yields the same final row.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

const paymentColumns = `id, booking_id, client_id, provider_id, amount, platform_fee, provider_payout,
	       status, held_at, processed_at, completed_at, refunded_at, created_at, updated_at`

// GetByID returns nil when no payment exists for the given id.
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*PaymentEntity, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment WHERE id = $1`
	return scanPayment(r.pool.QueryRow(ctx, query, id))
}

// GetByBookingID returns nil when the booking has no payment yet.
func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentEntity, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment WHERE booking_id = $1`
	return scanPayment(r.pool.QueryRow(ctx, query, bookingID))
}

func (r *PaymentRepository) SelectForUpdateByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*PaymentEntity, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment WHERE id = $1 FOR UPDATE`
	return scanPayment(tx.QueryRow(ctx, query, id))
}

// UpsertHeld creates the escrow row for a booking or, when it already
// exists, refreshes the split and puts it back to HELD. Keying the conflict
// on booking_id makes a retried accept land on the same row instead of
// creating a duplicate.
func (r *PaymentRepository) UpsertHeld(ctx context.Context, tx pgx.Tx, entity *PaymentEntity) (*PaymentEntity, error) {
	query := `INSERT INTO payment (id, booking_id, client_id, provider_id, amount, platform_fee,
	                               provider_payout, status, held_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, 'HELD', $8)
	          ON CONFLICT (booking_id) DO UPDATE
	          SET amount = EXCLUDED.amount,
	              platform_fee = EXCLUDED.platform_fee,
	              provider_payout = EXCLUDED.provider_payout,
	              status = 'HELD',
	              held_at = EXCLUDED.held_at,
	              updated_at = now()
	          RETURNING ` + paymentColumns
	row := tx.QueryRow(ctx, query, entity.ID, entity.BookingID, entity.ClientID, entity.ProviderID,
		entity.Amount, entity.PlatformFee, entity.ProviderPayout, time.Now())
	return scanPayment(row)
}

// MarkProcessingByBookingID moves the booking's payment out of escrow hold
// when the service completes; the payout itself stays admin-triggered.
func (r *PaymentRepository) MarkProcessingByBookingID(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID) error {
	query := `UPDATE payment SET status = 'PROCESSING', updated_at = now() WHERE booking_id = $1`
	_, err := tx.Exec(ctx, query, bookingID)
	return errors.Wrap(err, "marking payment processing")
}

// MarkProcessing records that a payout attempt is underway. processed_at is
// set once; replays keep the original timestamp.
func (r *PaymentRepository) MarkProcessing(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*PaymentEntity, error) {
	query := `UPDATE payment
	          SET status = 'PROCESSING',
	              processed_at = COALESCE(processed_at, now()),
	              updated_at = now()
	          WHERE id = $1
	          RETURNING ` + paymentColumns
	return scanPayment(tx.QueryRow(ctx, query, id))
}

// MarkCompleted settles the payment. The status guard is part of the query:
// a payment that is not HELD or PROCESSING is left untouched and nil is
// returned, so the caller can reject the attempt.
func (r *PaymentRepository) MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*PaymentEntity, error) {
	query := `UPDATE payment
	          SET status = 'COMPLETED',
	              processed_at = COALESCE(processed_at, now()),
	              completed_at = COALESCE(completed_at, now()),
	              updated_at = now()
	          WHERE id = $1 AND status IN ('HELD', 'PROCESSING')
	          RETURNING ` + paymentColumns
	return scanPayment(tx.QueryRow(ctx, query, id))
}

func scanPayment(row pgx.Row) (*PaymentEntity, error) {
	var entity PaymentEntity
	err := row.Scan(&entity.ID, &entity.BookingID, &entity.ClientID, &entity.ProviderID,
		&entity.Amount, &entity.PlatformFee, &entity.ProviderPayout, &entity.Status,
		&entity.HeldAt, &entity.ProcessedAt, &entity.CompletedAt, &entity.RefundedAt,
		&entity.CreatedAt, &entity.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "scanning payment")
	}
	return &entity, nil
}
