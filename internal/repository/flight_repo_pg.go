package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

// flightSelect joins both endpoint airports; the column order matches scanFlight.
const flightSelect = `SELECT f.id, f.airline, f.flight_number, f.departure_airport_id, f.arrival_airport_id,
		f.departure_time, f.arrival_time, f.price_cents, f.available_seats, f.created_at, f.updated_at,
		da.id, da.airport_code, da.airport_name, da.city, da.country,
		aa.id, aa.airport_code, aa.airport_name, aa.city, aa.country,
		(SELECT count(*) FROM bookings b WHERE b.flight_id = f.id)
	FROM flights f
	JOIN airports da ON da.id = f.departure_airport_id
	JOIN airports aa ON aa.id = f.arrival_airport_id`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var (
		f   domain.Flight
		dep domain.Airport
		arr domain.Airport
	)
	if err := row.Scan(
		&f.ID, &f.Airline, &f.FlightNumber, &f.DepartureAirportID, &f.ArrivalAirportID,
		&f.DepartureTime, &f.ArrivalTime, &f.PriceCents, &f.AvailableSeats, &f.CreatedAt, &f.UpdatedAt,
		&dep.ID, &dep.AirportCode, &dep.AirportName, &dep.City, &dep.Country,
		&arr.ID, &arr.AirportCode, &arr.AirportName, &arr.City, &arr.Country,
		&f.BookingCount,
	); err != nil {
		return nil, err
	}
	f.DepartureAirport = &dep
	f.ArrivalAirport = &arr
	return &f, nil
}

func (r *PGFlightRepository) queryFlights(ctx context.Context, sql string, args ...any) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	flights, err := r.queryFlights(ctx, flightSelect+` ORDER BY f.departure_time`)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	return flights, nil
}

func (r *PGFlightRepository) Search(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if q.From != "" {
		add("upper(da.airport_code) = upper($%d)", q.From)
	}
	if q.To != "" {
		add("upper(aa.airport_code) = upper($%d)", q.To)
	}
	if q.Date != nil {
		day := time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 0, 0, 0, 0, time.UTC)
		add("f.departure_time >= $%d", day)
		add("f.departure_time < $%d", day.AddDate(0, 0, 1))
	}
	add("f.available_seats >= $%d", max(q.Passengers, 1))

	sql := flightSelect + " WHERE " + strings.Join(where, " AND ") + " ORDER BY f.departure_time"
	flights, err := r.queryFlights(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search flights: %w", err)
	}
	return flights, nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, flightSelect+` WHERE f.id=$1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrFlightNotFound)
	}
	return f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flights (airline, flight_number, departure_airport_id, arrival_airport_id,
			departure_time, arrival_time, price_cents, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		flight.Airline, flight.FlightNumber, flight.DepartureAirportID, flight.ArrivalAirportID,
		flight.DepartureTime, flight.ArrivalTime, flight.PriceCents, flight.AvailableSeats).
		Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert flight: %w", err)
	}
	return nil
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	err := r.db.QueryRow(ctx, `UPDATE flights SET airline=$2, flight_number=$3, departure_airport_id=$4, arrival_airport_id=$5,
			departure_time=$6, arrival_time=$7, price_cents=$8, available_seats=$9, updated_at=now()
		WHERE id=$1
		RETURNING created_at, updated_at`,
		flight.ID, flight.Airline, flight.FlightNumber, flight.DepartureAirportID, flight.ArrivalAirportID,
		flight.DepartureTime, flight.ArrivalTime, flight.PriceCents, flight.AvailableSeats).
		Scan(&flight.CreatedAt, &flight.UpdatedAt)
	if err != nil {
		return notFound(err, domain.ErrFlightNotFound)
	}
	return nil
}

// Delete refuses to remove a flight that any booking references.
func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var bookings int
	err = tx.QueryRow(ctx, `SELECT (SELECT count(*) FROM bookings b WHERE b.flight_id=f.id) FROM flights f WHERE f.id=$1 FOR UPDATE`, id).Scan(&bookings)
	if err != nil {
		return notFound(err, domain.ErrFlightNotFound)
	}
	if bookings > 0 {
		return domain.ErrFlightHasBookings
	}

	if _, err := tx.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete flight: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *PGFlightRepository) Count(ctx context.Context) (int, error) {
	n, err := count(ctx, r.db, `SELECT count(*) FROM flights`)
	if err != nil {
		return 0, fmt.Errorf("count flights: %w", err)
	}
	return n, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
