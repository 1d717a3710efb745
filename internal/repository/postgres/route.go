package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/repository"
)

// RouteRepository is a PostgreSQL implementation of repository.RouteRepository.
type RouteRepository struct {
	q Querier
}

// NewRouteRepository creates a new PostgreSQL route repository.
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{q: db}
}

// NewRouteRepositoryWithTx creates a route repository using a transaction.
func NewRouteRepositoryWithTx(tx *sql.Tx) *RouteRepository {
	return &RouteRepository{q: tx}
}

const routeColumns = `id, origin, destination, departure, arrival, price, bus_company, bus_type, amenities, total_seats, available_seats, status, created_at`

// Create persists a new route.
func (r *RouteRepository) Create(ctx context.Context, route *domain.Route) error {
	query := `
		INSERT INTO routes (id, origin, destination, departure, arrival, price, bus_company, bus_type, amenities, total_seats, available_seats, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	status := route.Status
	if status == "" {
		status = domain.RouteStatusActive
	}

	_, err := r.q.ExecContext(ctx, query,
		route.ID,
		route.Origin,
		route.Destination,
		route.Departure,
		route.Arrival,
		route.Price,
		route.BusCompany,
		route.BusType,
		pq.Array(route.Amenities),
		route.TotalSeats,
		route.AvailableSeats,
		status,
		route.CreatedAt,
	)

	return err
}

// GetByID retrieves a route by ID.
func (r *RouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`

	route, err := scanRoute(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return route, nil
}

// Search retrieves routes matching origin and destination departing on or
// after the given date, ordered by departure time.
func (r *RouteRepository) Search(ctx context.Context, origin, destination string, date time.Time) ([]*domain.Route, error) {
	query := `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE origin = $1 AND destination = $2 AND departure >= $3 AND status = $4
		ORDER BY departure ASC
	`

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	rows, err := r.q.QueryContext(ctx, query, origin, destination, day, domain.RouteStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRoutes(rows)
}

// GetAll retrieves all routes ordered by departure time.
func (r *RouteRepository) GetAll(ctx context.Context) ([]*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes ORDER BY departure ASC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRoutes(rows)
}

// GetPopular retrieves the next departing active routes.
func (r *RouteRepository) GetPopular(ctx context.Context, limit int) ([]*domain.Route, error) {
	query := `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE status = $1
		ORDER BY departure ASC
		LIMIT $2
	`

	rows, err := r.q.QueryContext(ctx, query, domain.RouteStatusActive, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRoutes(rows)
}

// Update updates an existing route.
func (r *RouteRepository) Update(ctx context.Context, route *domain.Route) error {
	query := `
		UPDATE routes
		SET origin = $1, destination = $2, departure = $3, arrival = $4, price = $5, bus_company = $6, bus_type = $7, amenities = $8, total_seats = $9, available_seats = $10, status = $11
		WHERE id = $12
	`

	result, err := r.q.ExecContext(ctx, query,
		route.Origin,
		route.Destination,
		route.Departure,
		route.Arrival,
		route.Price,
		route.BusCompany,
		route.BusType,
		pq.Array(route.Amenities),
		route.TotalSeats,
		route.AvailableSeats,
		route.Status,
		route.ID,
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

// Delete removes a route.
func (r *RouteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM routes WHERE id = $1`, id)
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

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoute(row rowScanner) (*domain.Route, error) {
	var route domain.Route
	var amenities pq.StringArray

	err := row.Scan(
		&route.ID,
		&route.Origin,
		&route.Destination,
		&route.Departure,
		&route.Arrival,
		&route.Price,
		&route.BusCompany,
		&route.BusType,
		&amenities,
		&route.TotalSeats,
		&route.AvailableSeats,
		&route.Status,
		&route.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	route.Amenities = amenities
	return &route, nil
}

func scanRoutes(rows *sql.Rows) ([]*domain.Route, error) {
	var routes []*domain.Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}
