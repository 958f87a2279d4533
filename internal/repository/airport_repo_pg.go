package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirportRepository interface {
	List(ctx context.Context) ([]domain.Airport, error)
	GetByID(ctx context.Context, id int64) (*domain.Airport, error)
	Create(ctx context.Context, airport *domain.Airport) error
	Update(ctx context.Context, airport *domain.Airport) error
	Delete(ctx context.Context, id int64) error
}

type PGAirportRepository struct {
	db *pgxpool.Pool
}

func NewAirportRepository(db *pgxpool.Pool) AirportRepository {
	return &PGAirportRepository{db: db}
}

func (r *PGAirportRepository) List(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT a.id, a.airport_code, a.airport_name, a.city, a.country,
			(SELECT count(*) FROM flights f WHERE f.departure_airport_id = a.id),
			(SELECT count(*) FROM flights f WHERE f.arrival_airport_id = a.id)
		FROM airports a ORDER BY a.airport_code`)
	if err != nil {
		return nil, fmt.Errorf("list airports: %w", err)
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.AirportCode, &a.AirportName, &a.City, &a.Country, &a.DepartureFlights, &a.ArrivalFlights); err != nil {
			return nil, fmt.Errorf("scan airport: %w", err)
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (r *PGAirportRepository) GetByID(ctx context.Context, id int64) (*domain.Airport, error) {
	var a domain.Airport
	err := r.db.QueryRow(ctx, `SELECT id, airport_code, airport_name, city, country FROM airports WHERE id=$1`, id).
		Scan(&a.ID, &a.AirportCode, &a.AirportName, &a.City, &a.Country)
	if err != nil {
		return nil, notFound(err, domain.ErrAirportNotFound)
	}
	return &a, nil
}

func (r *PGAirportRepository) Create(ctx context.Context, airport *domain.Airport) error {
	err := r.db.QueryRow(ctx, `INSERT INTO airports (airport_code, airport_name, city, country)
		VALUES ($1, $2, $3, $4) RETURNING id`, airport.AirportCode, airport.AirportName, airport.City, airport.Country).
		Scan(&airport.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAirportCodeTaken
		}
		return fmt.Errorf("insert airport: %w", err)
	}
	return nil
}

func (r *PGAirportRepository) Update(ctx context.Context, airport *domain.Airport) error {
	tag, err := r.db.Exec(ctx, `UPDATE airports SET airport_code=$2, airport_name=$3, city=$4, country=$5 WHERE id=$1`,
		airport.ID, airport.AirportCode, airport.AirportName, airport.City, airport.Country)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAirportCodeTaken
		}
		return fmt.Errorf("update airport: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAirportNotFound
	}
	return nil
}

// Delete refuses to remove an airport referenced by any flight.
func (r *PGAirportRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var flights int
	err = tx.QueryRow(ctx, `SELECT (SELECT count(*) FROM flights f WHERE f.departure_airport_id=a.id OR f.arrival_airport_id=a.id)
		FROM airports a WHERE a.id=$1 FOR UPDATE`, id).Scan(&flights)
	if err != nil {
		return notFound(err, domain.ErrAirportNotFound)
	}
	if flights > 0 {
		return domain.ErrAirportHasFlights
	}

	if _, err := tx.Exec(ctx, `DELETE FROM airports WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete airport: %w", err)
	}
	return tx.Commit(ctx)
}

var _ AirportRepository = (*PGAirportRepository)(nil)
