package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeatLockStore handles best-effort seat holds in Redis. A hold narrows the
// window between the availability check and the ledger write; the database
// remains the arbiter of seat occupancy.
type SeatLockStore struct {
	client *redis.Client
}

// NewSeatLockStore creates a new SeatLockStore.
func NewSeatLockStore(client *redis.Client) *SeatLockStore {
	return &SeatLockStore{client: client}
}

func seatHoldKey(routeID, seatNumber string) string {
	return fmt.Sprintf("hold:route:%s:seat:%s", routeID, seatNumber)
}

// AcquireSeats attempts to hold every requested seat on a route. If any seat
// is already held, the holds taken so far are released and false is returned.
func (s *SeatLockStore) AcquireSeats(ctx context.Context, routeID string, seatNumbers []string, ttl time.Duration) (bool, error) {
	var held []string
	for _, seat := range seatNumbers {
		ok, err := s.client.SetNX(ctx, seatHoldKey(routeID, seat), "1", ttl).Result()
		if err != nil {
			s.release(ctx, routeID, held)
			return false, err
		}
		if !ok {
			s.release(ctx, routeID, held)
			return false, nil
		}
		held = append(held, seat)
	}
	return true, nil
}

// ReleaseSeats releases holds taken by AcquireSeats.
func (s *SeatLockStore) ReleaseSeats(ctx context.Context, routeID string, seatNumbers []string) error {
	s.release(ctx, routeID, seatNumbers)
	return nil
}

func (s *SeatLockStore) release(ctx context.Context, routeID string, seatNumbers []string) {
	for _, seat := range seatNumbers {
		_ = s.client.Del(ctx, seatHoldKey(routeID, seat)).Err()
	}
}
