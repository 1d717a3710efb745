package domain

import "time"

// RouteStatus represents the current status of a route.
type RouteStatus string

const (
	RouteStatusActive    RouteStatus = "active"
	RouteStatusCancelled RouteStatus = "cancelled"
)

// BusType represents the cabin class of the bus serving a route.
type BusType string

const (
	BusTypeConventional BusType = "convencional"
	BusTypeExecutive    BusType = "executivo"
	BusTypeSemiSleeper  BusType = "semi-leito"
	BusTypeSleeper      BusType = "leito"
)

// Route represents a scheduled origin→destination bus trip.
type Route struct {
	ID             string
	Origin         string
	Destination    string
	Departure      time.Time
	Arrival        time.Time
	Price          float64
	BusCompany     string
	BusType        BusType
	Amenities      []string
	TotalSeats     int
	AvailableSeats int
	Status         RouteStatus
	CreatedAt      time.Time
}
