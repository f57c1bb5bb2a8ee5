package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

const bookingColumns = `id, client_id, provider_id, status, payment_status, quoted_amount,
	       accepted_at, completed_at, cancelled_at, created_at, updated_at`

func (r *BookingRepository) Create(ctx context.Context, entity *BookingEntity) (*BookingEntity, error) {
	query := `INSERT INTO booking (id, client_id, provider_id, status, payment_status, quoted_amount)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, entity.ID, entity.ClientID, entity.ProviderID,
		entity.Status, entity.PaymentStatus, entity.QuotedAmount).Scan(&entity.CreatedAt, &entity.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "inserting booking")
	}
	return entity, nil
}

// GetByID returns nil when no booking exists for the given id.
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*BookingEntity, error) {
	query := `SELECT ` + bookingColumns + ` FROM booking WHERE id = $1`
	return scanBooking(r.pool.QueryRow(ctx, query, id))
}

// SelectForUpdateByID locks the booking row for the lifetime of tx. This is
// the per-booking mutual exclusion: two concurrent actions on the same
// booking serialize here, and the second one observes the state the first
// one committed.
func (r *BookingRepository) SelectForUpdateByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*BookingEntity, error) {
	query := `SELECT ` + bookingColumns + ` FROM booking WHERE id = $1 FOR UPDATE`
	return scanBooking(tx.QueryRow(ctx, query, id))
}

func (r *BookingRepository) Update(ctx context.Context, tx pgx.Tx, entity *BookingEntity) error {
	query := `UPDATE booking
	          SET status = $2, payment_status = $3, accepted_at = $4, completed_at = $5,
	              cancelled_at = $6, updated_at = $7
	          WHERE id = $1`
	_, err := tx.Exec(ctx, query, entity.ID, entity.Status, entity.PaymentStatus,
		entity.AcceptedAt, entity.CompletedAt, entity.CancelledAt, time.Now())
	return errors.Wrap(err, "updating booking")
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, paymentStatus string) error {
	query := `UPDATE booking SET payment_status = $2, updated_at = $3 WHERE id = $1`
	_, err := tx.Exec(ctx, query, id, paymentStatus, time.Now())
	return errors.Wrap(err, "updating booking payment status")
}

func scanBooking(row pgx.Row) (*BookingEntity, error) {
	var entity BookingEntity
	err := row.Scan(&entity.ID, &entity.ClientID, &entity.ProviderID, &entity.Status,
		&entity.PaymentStatus, &entity.QuotedAmount, &entity.AcceptedAt, &entity.CompletedAt,
		&entity.CancelledAt, &entity.CreatedAt, &entity.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "scanning booking")
	}
	return &entity, nil
}
