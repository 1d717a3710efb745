package domain

import "time"

// BusStatus represents the operational status of a fleet vehicle.
type BusStatus string

const (
	BusStatusActive      BusStatus = "active"
	BusStatusMaintenance BusStatus = "maintenance"
	BusStatusInactive    BusStatus = "inactive"
)

// Bus represents a vehicle in the carrier's fleet registry.
type Bus struct {
	ID        string
	Plate     string
	Model     string
	Brand     string
	Year      int
	Seats     int
	Type      BusType
	Status    BusStatus
	Amenities []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
