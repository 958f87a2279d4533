package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatusUpdate describes one booking status transition.
//
// Guard runs inside the transaction against the locked booking row and can veto
// the change. When Payment is set it is inserted in the same transaction, with
// its booking id and amount taken from the booking.
type StatusUpdate struct {
	Status  domain.BookingStatus
	Guard   func(current domain.Booking) error
	Payment *domain.Payment
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	Recent(ctx context.Context, limit int) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, upd StatusUpdate) (*domain.StatusChange, error)
	ListCompletable(ctx context.Context, arrivedBefore time.Time) ([]int64, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// Create takes the booking's seats from the flight, then inserts the booking and
// its passengers. Status and total price are set here from the flight row.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	passengers := len(booking.Passengers)
	if passengers == 0 {
		return fmt.Errorf("%w: at least one passenger is required", domain.ErrValidation)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var price int64
	err = tx.QueryRow(ctx, `UPDATE flights SET available_seats = available_seats - $2, updated_at = now()
		WHERE id=$1 AND available_seats >= $2
		RETURNING price_cents`, booking.FlightID, passengers).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE id=$1)`, booking.FlightID).Scan(&exists); err != nil {
			return fmt.Errorf("check flight: %w", err)
		}
		if !exists {
			return domain.ErrFlightNotFound
		}
		return domain.ErrNotEnoughSeats
	}
	if err != nil {
		return fmt.Errorf("reserve seats: %w", err)
	}

	if seats := seatNumbers(booking.Passengers); len(seats) > 0 {
		var taken bool
		err := tx.QueryRow(ctx, `SELECT EXISTS (
				SELECT 1 FROM passengers p JOIN bookings b ON b.id = p.booking_id
				WHERE b.flight_id=$1 AND b.status NOT IN ('Canceled', 'Refunded') AND p.seat_number = ANY($2))`,
			booking.FlightID, seats).Scan(&taken)
		if err != nil {
			return fmt.Errorf("check seats: %w", err)
		}
		if taken {
			return domain.ErrSeatTaken
		}
	}

	booking.Status = domain.BookingStatusPending
	booking.TotalPriceCents = price * int64(passengers)
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (user_id, flight_id, status, total_price_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING id, booking_date`, booking.UserID, booking.FlightID, booking.Status, booking.TotalPriceCents).
		Scan(&booking.ID, &booking.BookingDate); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	for i := range booking.Passengers {
		p := &booking.Passengers[i]
		p.BookingID = booking.ID
		if err := tx.QueryRow(ctx, `INSERT INTO passengers (booking_id, first_name, last_name, document_number, date_of_birth, seat_number)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			p.BookingID, p.FirstName, p.LastName, p.DocumentNumber, p.DateOfBirth, p.SeatNumber).Scan(&p.ID); err != nil {
			return fmt.Errorf("insert passenger: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func seatNumbers(passengers []domain.Passenger) []string {
	seats := make([]string, 0, len(passengers))
	for _, p := range passengers {
		if p.SeatNumber != "" {
			seats = append(seats, p.SeatNumber)
		}
	}
	return seats
}

// bookingSelect joins the owner, the flight and both flight airports.
const bookingSelect = `SELECT b.id, b.user_id, b.flight_id, b.status, b.total_price_cents, b.booking_date,
		u.id, u.full_name, u.email, u.phone,
		f.id, f.airline, f.flight_number, f.departure_airport_id, f.arrival_airport_id,
		f.departure_time, f.arrival_time, f.price_cents, f.available_seats, f.created_at, f.updated_at,
		da.id, da.airport_code, da.airport_name, da.city, da.country,
		aa.id, aa.airport_code, aa.airport_name, aa.city, aa.country
	FROM bookings b
	JOIN users u ON u.id = b.user_id
	JOIN flights f ON f.id = b.flight_id
	JOIN airports da ON da.id = f.departure_airport_id
	JOIN airports aa ON aa.id = f.arrival_airport_id`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b   domain.Booking
		u   domain.UserSummary
		f   domain.Flight
		dep domain.Airport
		arr domain.Airport
	)
	if err := row.Scan(
		&b.ID, &b.UserID, &b.FlightID, &b.Status, &b.TotalPriceCents, &b.BookingDate,
		&u.ID, &u.FullName, &u.Email, &u.Phone,
		&f.ID, &f.Airline, &f.FlightNumber, &f.DepartureAirportID, &f.ArrivalAirportID,
		&f.DepartureTime, &f.ArrivalTime, &f.PriceCents, &f.AvailableSeats, &f.CreatedAt, &f.UpdatedAt,
		&dep.ID, &dep.AirportCode, &dep.AirportName, &dep.City, &dep.Country,
		&arr.ID, &arr.AirportCode, &arr.AirportName, &arr.City, &arr.Country,
	); err != nil {
		return nil, err
	}
	f.DepartureAirport = &dep
	f.ArrivalAirport = &arr
	b.User = &u
	b.Flight = &f
	return &b, nil
}

func (r *PGBookingRepository) queryBookings(ctx context.Context, sql string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachChildren(ctx, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// attachChildren loads passengers and payments for all bookings in two queries.
func (r *PGBookingRepository) attachChildren(ctx context.Context, bookings []domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	ids := make([]int64, len(bookings))
	index := make(map[int64]int, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
		index[b.ID] = i
	}

	rows, err := r.db.Query(ctx, `SELECT id, booking_id, first_name, last_name, document_number, date_of_birth, seat_number
		FROM passengers WHERE booking_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("load passengers: %w", err)
	}
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.FirstName, &p.LastName, &p.DocumentNumber, &p.DateOfBirth, &p.SeatNumber); err != nil {
			rows.Close()
			return fmt.Errorf("scan passenger: %w", err)
		}
		i := index[p.BookingID]
		bookings[i].Passengers = append(bookings[i].Passengers, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load passengers: %w", err)
	}

	rows, err = r.db.Query(ctx, `SELECT id, booking_id, method, status, amount_cents, transaction_id, transaction_date
		FROM payments WHERE booking_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("load payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Method, &p.Status, &p.AmountCents, &p.TransactionID, &p.TransactionDate); err != nil {
			return fmt.Errorf("scan payment: %w", err)
		}
		i := index[p.BookingID]
		bookings[i].Payments = append(bookings[i].Payments, p)
	}
	return rows.Err()
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, bookingSelect+` WHERE b.id=$1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrBookingNotFound)
	}
	one := []domain.Booking{*b}
	if err := r.attachChildren(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	bookings, err := r.queryBookings(ctx, bookingSelect+` WHERE b.user_id=$1 ORDER BY b.booking_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	return bookings, nil
}

func (r *PGBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	bookings, err := r.queryBookings(ctx, bookingSelect+` ORDER BY b.booking_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (r *PGBookingRepository) Recent(ctx context.Context, limit int) ([]domain.Booking, error) {
	bookings, err := r.queryBookings(ctx, bookingSelect+` ORDER BY b.booking_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus writes the new status and, when the transition crosses the
// active/inactive boundary, the reconciled seat count of the flight. Both rows
// are locked for the duration of the transaction.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, upd StatusUpdate) (*domain.StatusChange, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		current domain.Booking
		owner   domain.UserSummary
	)
	err = tx.QueryRow(ctx, `SELECT b.id, b.user_id, b.flight_id, b.status, b.total_price_cents, b.booking_date,
			u.id, u.full_name, u.email, u.phone
		FROM bookings b JOIN users u ON u.id = b.user_id
		WHERE b.id=$1 FOR UPDATE OF b`, id).
		Scan(&current.ID, &current.UserID, &current.FlightID, &current.Status, &current.TotalPriceCents, &current.BookingDate,
			&owner.ID, &owner.FullName, &owner.Email, &owner.Phone)
	if err != nil {
		return nil, notFound(err, domain.ErrBookingNotFound)
	}
	current.User = &owner
	if upd.Guard != nil {
		if err := upd.Guard(current); err != nil {
			return nil, err
		}
	}

	passengers, err := count(ctx, tx, `SELECT count(*) FROM passengers WHERE booking_id=$1`, id)
	if err != nil {
		return nil, fmt.Errorf("count passengers: %w", err)
	}

	var available int
	if err := tx.QueryRow(ctx, `SELECT available_seats FROM flights WHERE id=$1 FOR UPDATE`, current.FlightID).Scan(&available); err != nil {
		return nil, notFound(err, domain.ErrFlightNotFound)
	}

	if _, err := tx.Exec(ctx, `UPDATE bookings SET status=$2 WHERE id=$1`, id, upd.Status); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	seats, adjust := domain.ReconcileSeats(current.Status, upd.Status, available, passengers)
	if adjust {
		if _, err := tx.Exec(ctx, `UPDATE flights SET available_seats=$2, updated_at=now() WHERE id=$1`, current.FlightID, seats); err != nil {
			return nil, fmt.Errorf("update available seats: %w", err)
		}
	}

	if p := upd.Payment; p != nil {
		p.BookingID = current.ID
		p.AmountCents = current.TotalPriceCents
		if err := tx.QueryRow(ctx, `INSERT INTO payments (booking_id, method, status, amount_cents, transaction_id)
			VALUES ($1, $2, $3, $4, $5) RETURNING id, transaction_date`,
			p.BookingID, p.Method, p.Status, p.AmountCents, p.TransactionID).Scan(&p.ID, &p.TransactionDate); err != nil {
			return nil, fmt.Errorf("insert payment: %w", err)
		}
		current.Payments = append(current.Payments, *p)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	change := &domain.StatusChange{
		Booking:        current,
		PreviousStatus: current.Status,
		Passengers:     passengers,
		AvailableSeats: seats,
		SeatsAdjusted:  adjust,
	}
	change.Booking.Status = upd.Status
	return change, nil
}

func (r *PGBookingRepository) ListCompletable(ctx context.Context, arrivedBefore time.Time) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT b.id FROM bookings b JOIN flights f ON f.id = b.flight_id
		WHERE b.status=$1 AND f.arrival_time < $2 ORDER BY b.id`, domain.BookingStatusConfirmed, arrivedBefore)
	if err != nil {
		return nil, fmt.Errorf("list completable bookings: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
