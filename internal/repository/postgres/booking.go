package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, user_id, route_id, seat_numbers, total_price, payment_method, payment_status, status, qr_code, created_at, updated_at`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, route_id, seat_numbers, total_price, payment_method, payment_status, status, qr_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var qrCode sql.NullString
	if booking.QRCode != "" {
		qrCode = sql.NullString{String: booking.QRCode, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.UserID,
		booking.RouteID,
		pq.Array(booking.SeatNumbers),
		booking.TotalPrice,
		booking.PaymentMethod,
		booking.PaymentStatus,
		booking.Status,
		qrCode,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// GetByUser retrieves a user's bookings, newest first.
func (r *BookingRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetAll retrieves all bookings, newest first.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC LIMIT 500`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus updates the lifecycle status of a booking.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePaymentStatus updates the payment status of a booking and, when
// non-empty, stores the issued QR code.
func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.BookingPaymentStatus, qrCode string) error {
	var (
		result sql.Result
		err    error
	)

	if qrCode != "" {
		query := `UPDATE bookings SET payment_status = $1, qr_code = $2, updated_at = NOW() WHERE id = $3`
		result, err = r.q.ExecContext(ctx, query, status, qrCode, id)
	} else {
		query := `UPDATE bookings SET payment_status = $1, updated_at = NOW() WHERE id = $2`
		result, err = r.q.ExecContext(ctx, query, status, id)
	}
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a booking.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Stats aggregates booking counts and completed revenue.
func (r *BookingRepository) Stats(ctx context.Context) (*domain.BookingStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE payment_status = 'paid'),
			COALESCE(SUM(total_price) FILTER (WHERE payment_status = 'paid'), 0)
		FROM bookings
	`

	var stats domain.BookingStats
	err := r.q.QueryRowContext(ctx, query).Scan(
		&stats.TotalBookings,
		&stats.CompletedBookings,
		&stats.TotalRevenue,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var seatNumbers pq.StringArray
	var qrCode sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.RouteID,
		&seatNumbers,
		&booking.TotalPrice,
		&booking.PaymentMethod,
		&booking.PaymentStatus,
		&booking.Status,
		&qrCode,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.SeatNumbers = seatNumbers
	if qrCode.Valid {
		booking.QRCode = qrCode.String
	}
	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
