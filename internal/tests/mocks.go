package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK ROUTE REPOSITORY
// ──────────────────────────────────────────────

// MockRouteRepository is a mock implementation of RouteRepository.
type MockRouteRepository struct {
	mu     sync.RWMutex
	routes map[string]*domain.Route

	// Error injection
	GetByIDError error
}

// NewMockRouteRepository creates a new mock route repository.
func NewMockRouteRepository() *MockRouteRepository {
	return &MockRouteRepository{
		routes: make(map[string]*domain.Route),
	}
}

// AddRoute adds a route to the mock repository.
func (m *MockRouteRepository) AddRoute(route *domain.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = route
}

func (m *MockRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = route
	return nil
}

func (m *MockRouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	route, ok := m.routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *route
	return &copy, nil
}

func (m *MockRouteRepository) Search(ctx context.Context, origin, destination string, date time.Time) ([]*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Route
	for _, r := range m.routes {
		if r.Origin == origin && r.Destination == destination && !r.Departure.Before(date) {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRouteRepository) GetAll(ctx context.Context) ([]*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Route, 0, len(m.routes))
	for _, r := range m.routes {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRouteRepository) GetPopular(ctx context.Context, limit int) ([]*domain.Route, error) {
	routes, _ := m.GetAll(ctx)
	if len(routes) > limit {
		routes = routes[:limit]
	}
	return routes, nil
}

func (m *MockRouteRepository) Update(ctx context.Context, route *domain.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[route.ID]; !ok {
		return repository.ErrNotFound
	}
	m.routes[route.ID] = route
	return nil
}

func (m *MockRouteRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.routes, id)
	return nil
}

// ──────────────────────────────────────────────
// MOCK SEAT REPOSITORY
// ──────────────────────────────────────────────

// MockSeatRepository is a mock implementation of SeatRepository. Reserve is
// atomic under the mutex so concurrent booking tests observe the same
// all-or-nothing behavior as the conditional ledger write.
type MockSeatRepository struct {
	mu    sync.Mutex
	seats map[string]map[string]*domain.Seat // routeID -> seatNumber -> seat

	// Counters for verification
	ReserveCallCount int32
	ReleaseCallCount int32

	// Error injection
	ReserveError error
	ReleaseError error
}

// NewMockSeatRepository creates a new mock seat repository.
func NewMockSeatRepository() *MockSeatRepository {
	return &MockSeatRepository{
		seats: make(map[string]map[string]*domain.Seat),
	}
}

// AddSeats registers free seats on a route.
func (m *MockSeatRepository) AddSeats(routeID string, seatNumbers ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seats[routeID] == nil {
		m.seats[routeID] = make(map[string]*domain.Seat)
	}
	for _, n := range seatNumbers {
		m.seats[routeID][n] = &domain.Seat{
			ID:         routeID + "-" + n,
			RouteID:    routeID,
			SeatNumber: n,
		}
	}
}

func (m *MockSeatRepository) GetByRoute(ctx context.Context, routeID string) ([]*domain.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Seat, 0, len(m.seats[routeID]))
	for _, s := range m.seats[routeID] {
		copy := *s
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockSeatRepository) GetByRouteAndNumbers(ctx context.Context, routeID string, seatNumbers []string) ([]*domain.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Seat
	for _, n := range seatNumbers {
		if s, ok := m.seats[routeID][n]; ok {
			copy := *s
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockSeatRepository) Reserve(ctx context.Context, routeID, bookingID string, passengers []domain.Passenger) error {
	atomic.AddInt32(&m.ReserveCallCount, 1)
	if m.ReserveError != nil {
		return m.ReserveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range passengers {
		seat, ok := m.seats[routeID][p.SeatNumber]
		if !ok || seat.BookingID != "" {
			return repository.ErrSeatConflict
		}
	}
	for _, p := range passengers {
		seat := m.seats[routeID][p.SeatNumber]
		seat.BookingID = bookingID
		seat.PassengerName = p.Name
		seat.PassengerDocument = p.Document
	}
	return nil
}

func (m *MockSeatRepository) Release(ctx context.Context, bookingID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	if m.ReleaseError != nil {
		return m.ReleaseError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, route := range m.seats {
		for _, seat := range route {
			if seat.BookingID == bookingID {
				seat.BookingID = ""
				seat.PassengerName = ""
				seat.PassengerDocument = ""
			}
		}
	}
	return nil
}

// GetSeat returns a seat for test assertions.
func (m *MockSeatRepository) GetSeat(routeID, seatNumber string) *domain.Seat {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seats[routeID][seatNumber]
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount int32
	DeleteCallCount int32

	// Error injection
	CreateError              error
	DeleteError              error
	UpdateStatusError        error
	UpdatePaymentStatusError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockBookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		copy := *b
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.Status = status
	booking.UpdatedAt = time.Now()
	return nil
}

func (m *MockBookingRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.BookingPaymentStatus, qrCode string) error {
	if m.UpdatePaymentStatusError != nil {
		return m.UpdatePaymentStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.PaymentStatus = status
	if qrCode != "" {
		booking.QRCode = qrCode
	}
	booking.UpdatedAt = time.Now()
	return nil
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *MockBookingRepository) Stats(ctx context.Context) (*domain.BookingStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &domain.BookingStats{}
	for _, b := range m.bookings {
		stats.TotalBookings++
		if b.PaymentStatus == domain.BookingPaymentPaid {
			stats.CompletedBookings++
			stats.TotalRevenue += b.TotalPrice
		}
	}
	return stats, nil
}

// GetBooking returns a booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// Count returns the number of stored bookings.
func (m *MockBookingRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment // keyed by payment ID

	// Counters for verification
	CreateCallCount int32
	UpsertCallCount int32

	// Error injection
	CreateError error
	UpsertError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepository) UpsertByTransaction(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.TransactionID == payment.TransactionID {
			p.Status = payment.Status
			p.Amount = payment.Amount
			p.Method = payment.Method
			if p.BookingID == "" {
				p.BookingID = payment.BookingID
			}
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	if transactionID != "" {
		payment.TransactionID = transactionID
	}
	payment.UpdatedAt = time.Now()
	return nil
}

// GetByTransaction returns a payment for test assertions.
func (m *MockPaymentRepository) GetByTransaction(transactionID string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.TransactionID == transactionID {
			return p
		}
	}
	return nil
}

// Count returns the number of stored payments.
func (m *MockPaymentRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// ──────────────────────────────────────────────
// MOCK SEAT LOCK STORE
// ──────────────────────────────────────────────

// MockSeatLockStore is a mock implementation of SeatLockStoreInterface.
type MockSeatLockStore struct {
	mu    sync.Mutex
	holds map[string]struct{}

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockSeatLockStore creates a new mock seat lock store.
func NewMockSeatLockStore() *MockSeatLockStore {
	return &MockSeatLockStore{
		holds: make(map[string]struct{}),
	}
}

func (m *MockSeatLockStore) AcquireSeats(ctx context.Context, routeID string, seatNumbers []string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range seatNumbers {
		if _, held := m.holds[routeID+":"+n]; held {
			return false, nil
		}
	}
	for _, n := range seatNumbers {
		m.holds[routeID+":"+n] = struct{}{}
	}
	return true, nil
}

func (m *MockSeatLockStore) ReleaseSeats(ctx context.Context, routeID string, seatNumbers []string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range seatNumbers {
		delete(m.holds, routeID+":"+n)
	}
	return nil
}
