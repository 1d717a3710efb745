package redis

import (
	"context"
	"time"
)

// SeatLockStoreInterface defines the interface for seat hold operations.
type SeatLockStoreInterface interface {
	AcquireSeats(ctx context.Context, routeID string, seatNumbers []string, ttl time.Duration) (bool, error)
	ReleaseSeats(ctx context.Context, routeID string, seatNumbers []string) error
}

// Ensure concrete types implement interfaces.
var _ SeatLockStoreInterface = (*SeatLockStore)(nil)
