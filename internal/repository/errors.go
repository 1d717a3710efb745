package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrSeatConflict is returned when a seat reservation loses the race
	// against a concurrent booking for the same seat.
	ErrSeatConflict = errors.New("seat already reserved")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint, e.g. registering a bus plate twice.
	ErrDuplicate = errors.New("entity already exists")

	// ErrRelationMissing is returned when the backing table does not exist
	// in the current deployment. The booking flow treats a missing payments
	// relation as a degraded-mode signal rather than a hard failure.
	ErrRelationMissing = errors.New("relation does not exist")
)
