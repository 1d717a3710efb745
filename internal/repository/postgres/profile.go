package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/repository"
)

// ProfileRepository is a PostgreSQL implementation of repository.ProfileRepository.
type ProfileRepository struct {
	q Querier
}

// NewProfileRepository creates a new PostgreSQL profile repository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{q: db}
}

// GetByID retrieves a profile by user ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT id, email, name, phone, role, created_at, updated_at FROM profiles WHERE id = $1`

	var profile domain.Profile
	var name, phone, role sql.NullString

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&profile.ID,
		&profile.Email,
		&name,
		&phone,
		&role,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	profile.Name = name.String
	profile.Phone = phone.String
	profile.Role = domain.RoleUser
	if role.Valid && role.String != "" {
		profile.Role = domain.Role(role.String)
	}

	return &profile, nil
}

// Update updates the mutable fields of a profile.
func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `UPDATE profiles SET name = $1, phone = $2, updated_at = NOW() WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, profile.Name, profile.Phone, profile.ID)
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

// StripeCustomerRepository is a PostgreSQL implementation of
// repository.StripeCustomerRepository.
type StripeCustomerRepository struct {
	q Querier
}

// NewStripeCustomerRepository creates a new PostgreSQL Stripe customer repository.
func NewStripeCustomerRepository(db *sql.DB) *StripeCustomerRepository {
	return &StripeCustomerRepository{q: db}
}

// GetCustomerID retrieves the provider customer for a user.
func (r *StripeCustomerRepository) GetCustomerID(ctx context.Context, userID string) (string, error) {
	query := `SELECT customer_id FROM stripe_customers WHERE user_id = $1`

	var customerID string
	err := r.q.QueryRowContext(ctx, query, userID).Scan(&customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", err
	}

	return customerID, nil
}

// SaveCustomerID stores or replaces the mapping for a user.
func (r *StripeCustomerRepository) SaveCustomerID(ctx context.Context, userID, customerID string) error {
	query := `
		INSERT INTO stripe_customers (user_id, customer_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET customer_id = EXCLUDED.customer_id
	`

	_, err := r.q.ExecContext(ctx, query, userID, customerID)
	return err
}
