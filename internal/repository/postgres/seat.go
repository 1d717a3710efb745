package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/repository"
)

// SeatRepository is a PostgreSQL implementation of repository.SeatRepository.
type SeatRepository struct {
	q Querier
}

// NewSeatRepository creates a new PostgreSQL seat repository.
func NewSeatRepository(db *sql.DB) *SeatRepository {
	return &SeatRepository{q: db}
}

// NewSeatRepositoryWithTx creates a seat repository using a transaction.
func NewSeatRepositoryWithTx(tx *sql.Tx) *SeatRepository {
	return &SeatRepository{q: tx}
}

const seatColumns = `id, route_id, seat_number, booking_id, passenger_name, passenger_document`

// GetByRoute retrieves all seats in a route's bus configuration.
func (r *SeatRepository) GetByRoute(ctx context.Context, routeID string) ([]*domain.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE route_id = $1 ORDER BY seat_number ASC`

	rows, err := r.q.QueryContext(ctx, query, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeats(rows)
}

// GetByRouteAndNumbers resolves seat identifiers within a route.
func (r *SeatRepository) GetByRouteAndNumbers(ctx context.Context, routeID string, seatNumbers []string) ([]*domain.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE route_id = $1 AND seat_number = ANY($2)
		ORDER BY seat_number ASC
	`

	rows, err := r.q.QueryContext(ctx, query, routeID, pq.Array(seatNumbers))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeats(rows)
}

// Reserve links the given seats to a booking along with passenger metadata.
// The conditional update claims only free seats; when a concurrent booking
// already holds any requested seat the claimed subset is released again and
// ErrSeatConflict is returned.
func (r *SeatRepository) Reserve(ctx context.Context, routeID, bookingID string, passengers []domain.Passenger) error {
	query := `
		UPDATE seats
		SET booking_id = $1, passenger_name = $2, passenger_document = $3
		WHERE route_id = $4 AND seat_number = $5 AND booking_id IS NULL
	`

	claimed := 0
	for _, p := range passengers {
		result, err := r.q.ExecContext(ctx, query,
			bookingID,
			nullString(p.Name),
			nullString(p.Document),
			routeID,
			p.SeatNumber,
		)
		if err != nil {
			_ = r.Release(ctx, bookingID)
			return err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			_ = r.Release(ctx, bookingID)
			return err
		}

		if rowsAffected == 0 {
			// Seat missing or taken between the availability check and now.
			_ = r.Release(ctx, bookingID)
			return repository.ErrSeatConflict
		}
		claimed++
	}

	if claimed != len(passengers) {
		_ = r.Release(ctx, bookingID)
		return repository.ErrSeatConflict
	}

	return nil
}

// Release frees all seats held by a booking.
func (r *SeatRepository) Release(ctx context.Context, bookingID string) error {
	query := `
		UPDATE seats
		SET booking_id = NULL, passenger_name = NULL, passenger_document = NULL
		WHERE booking_id = $1
	`

	_, err := r.q.ExecContext(ctx, query, bookingID)
	return err
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func scanSeats(rows *sql.Rows) ([]*domain.Seat, error) {
	var seats []*domain.Seat
	for rows.Next() {
		var seat domain.Seat
		var bookingID, passengerName, passengerDocument sql.NullString
		if err := rows.Scan(
			&seat.ID,
			&seat.RouteID,
			&seat.SeatNumber,
			&bookingID,
			&passengerName,
			&passengerDocument,
		); err != nil {
			return nil, err
		}
		if bookingID.Valid {
			seat.BookingID = bookingID.String
		}
		if passengerName.Valid {
			seat.PassengerName = passengerName.String
		}
		if passengerDocument.Valid {
			seat.PassengerDocument = passengerDocument.String
		}
		seats = append(seats, &seat)
	}
	return seats, rows.Err()
}
