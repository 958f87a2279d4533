package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository serves the aggregate queries of the admin dashboard.
type StatsRepository interface {
	CountBookings(ctx context.Context) (int, error)
	ConfirmedRevenue(ctx context.Context) (int64, error)
	BookingsByStatus(ctx context.Context) ([]domain.StatusCount, error)
	BookingsSince(ctx context.Context, since time.Time) ([]domain.Booking, error)
}

type PGStatsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) StatsRepository {
	return &PGStatsRepository{db: db}
}

func (r *PGStatsRepository) CountBookings(ctx context.Context) (int, error) {
	n, err := count(ctx, r.db, `SELECT count(*) FROM bookings`)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (r *PGStatsRepository) ConfirmedRevenue(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(total_price_cents), 0)::bigint FROM bookings WHERE status=$1`,
		domain.BookingStatusConfirmed).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("confirmed revenue: %w", err)
	}
	return total, nil
}

func (r *PGStatsRepository) BookingsByStatus(ctx context.Context) ([]domain.StatusCount, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM bookings GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("bookings by status: %w", err)
	}
	defer rows.Close()

	counts := make([]domain.StatusCount, 0)
	for rows.Next() {
		var c domain.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// BookingsSince returns bare booking rows; weekly bucketing happens in the service.
func (r *PGStatsRepository) BookingsSince(ctx context.Context, since time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, flight_id, status, total_price_cents, booking_date
		FROM bookings WHERE booking_date >= $1 ORDER BY booking_date`, since)
	if err != nil {
		return nil, fmt.Errorf("bookings since: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.FlightID, &b.Status, &b.TotalPriceCents, &b.BookingDate); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ StatsRepository = (*PGStatsRepository)(nil)
