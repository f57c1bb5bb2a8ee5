package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// ActivityRepository is append-only: rows are inserted inside the same
// transaction as the state change they describe and never touched again.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Insert(ctx context.Context, tx pgx.Tx, entity *ActivityEntity) (*ActivityEntity, error) {
	query := `INSERT INTO booking_activity (id, booking_id, actor_id, action, description, metadata)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at`
	err := tx.QueryRow(ctx, query, entity.ID, entity.BookingID, entity.ActorID,
		entity.Action, entity.Description, entity.Metadata).Scan(&entity.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "inserting activity")
	}
	return entity, nil
}

// ListByBookingID returns the audit trail newest first, the display order.
// Reconciliation relies on insertion order, which the serial id column keeps.
func (r *ActivityRepository) ListByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*ActivityEntity, error) {
	query := `SELECT id, booking_id, actor_id, action, description, metadata, created_at
	          FROM booking_activity
	          WHERE booking_id = $1
	          ORDER BY created_at DESC, seq DESC`
	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, errors.Wrap(err, "listing activities")
	}
	defer rows.Close()

	var activities []*ActivityEntity
	for rows.Next() {
		var entity ActivityEntity
		err := rows.Scan(&entity.ID, &entity.BookingID, &entity.ActorID, &entity.Action,
			&entity.Description, &entity.Metadata, &entity.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "scanning activity")
		}
		activities = append(activities, &entity)
	}
	return activities, errors.Wrap(rows.Err(), "listing activities")
}
