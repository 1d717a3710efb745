package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/repository"
)

// BusRepository is a PostgreSQL implementation of repository.BusRepository.
type BusRepository struct {
	q Querier
}

// NewBusRepository creates a new PostgreSQL bus repository.
func NewBusRepository(db *sql.DB) *BusRepository {
	return &BusRepository{q: db}
}

const busColumns = `id, plate, model, brand, year, seats, type, status, amenities, created_at, updated_at`

// Create persists a new bus.
func (r *BusRepository) Create(ctx context.Context, bus *domain.Bus) error {
	query := `
		INSERT INTO buses (id, plate, model, brand, year, seats, type, status, amenities, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		bus.ID,
		bus.Plate,
		bus.Model,
		bus.Brand,
		bus.Year,
		bus.Seats,
		bus.Type,
		bus.Status,
		pq.Array(bus.Amenities),
		bus.CreatedAt,
		bus.UpdatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return repository.ErrDuplicate
	}

	return err
}

// GetByID retrieves a bus by ID.
func (r *BusRepository) GetByID(ctx context.Context, id string) (*domain.Bus, error) {
	query := `SELECT ` + busColumns + ` FROM buses WHERE id = $1`

	bus, err := scanBus(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return bus, nil
}

// GetAll retrieves the full fleet.
func (r *BusRepository) GetAll(ctx context.Context) ([]*domain.Bus, error) {
	query := `SELECT ` + busColumns + ` FROM buses ORDER BY plate ASC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buses []*domain.Bus
	for rows.Next() {
		bus, err := scanBus(rows)
		if err != nil {
			return nil, err
		}
		buses = append(buses, bus)
	}
	return buses, rows.Err()
}

// Update updates an existing bus.
func (r *BusRepository) Update(ctx context.Context, bus *domain.Bus) error {
	query := `
		UPDATE buses
		SET plate = $1, model = $2, brand = $3, year = $4, seats = $5, type = $6, status = $7, amenities = $8, updated_at = NOW()
		WHERE id = $9
	`

	result, err := r.q.ExecContext(ctx, query,
		bus.Plate,
		bus.Model,
		bus.Brand,
		bus.Year,
		bus.Seats,
		bus.Type,
		bus.Status,
		pq.Array(bus.Amenities),
		bus.ID,
	)
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

// Delete removes a bus.
func (r *BusRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM buses WHERE id = $1`, id)
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

func scanBus(row rowScanner) (*domain.Bus, error) {
	var bus domain.Bus
	var amenities pq.StringArray

	err := row.Scan(
		&bus.ID,
		&bus.Plate,
		&bus.Model,
		&bus.Brand,
		&bus.Year,
		&bus.Seats,
		&bus.Type,
		&bus.Status,
		&amenities,
		&bus.CreatedAt,
		&bus.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	bus.Amenities = amenities
	return &bus, nil
}
