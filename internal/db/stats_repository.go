package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// AdminStats is the dashboard aggregate over bookings and settled payments.
type AdminStats struct {
	TotalBookings     int64 `json:"totalBookings"`
	PendingBookings   int64 `json:"pendingBookings"`
	ActiveBookings    int64 `json:"activeBookings"`
	CompletedBookings int64 `json:"completedBookings"`
	TotalRevenue      int64 `json:"totalRevenue"`
	PlatformFees      int64 `json:"platformFees"`
	PendingPayments   int64 `json:"pendingPayments"`
}

type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

func (r *StatsRepository) Collect(ctx context.Context) (*AdminStats, error) {
	query := `SELECT
	    (SELECT COUNT(*) FROM booking),
	    (SELECT COUNT(*) FROM booking WHERE status = 'PENDING'),
	    (SELECT COUNT(*) FROM booking WHERE status = 'IN_PROGRESS'),
	    (SELECT COUNT(*) FROM booking WHERE status = 'COMPLETED'),
	    (SELECT COALESCE(SUM(amount), 0) FROM payment WHERE status = 'COMPLETED'),
	    (SELECT COALESCE(SUM(platform_fee), 0) FROM payment WHERE status = 'COMPLETED'),
	    (SELECT COUNT(*) FROM payment WHERE status = 'HELD')`

	var stats AdminStats
	err := r.pool.QueryRow(ctx, query).Scan(&stats.TotalBookings, &stats.PendingBookings,
		&stats.ActiveBookings, &stats.CompletedBookings, &stats.TotalRevenue,
		&stats.PlatformFees, &stats.PendingPayments)
	if err != nil {
		return nil, errors.Wrap(err, "collecting admin stats")
	}
	return &stats, nil
}
