package tests

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"summit/internal/domain"
	"summit/internal/gateway"
	"summit/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount              int32
	UpdatePaymentStatusCallCount int32
	SetExternalRefCallCount      int32

	// Error injection
	CreateError              error
	UpdatePaymentStatusError error
	SetExternalRefError      error
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
	// Return a copy to avoid mutation issues.
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.BookingCode != "" && b.BookingCode == code {
			copy := *b
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockBookingRepository) GetByExternalRef(ctx context.Context, ref string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.PaymentExternalID != "" && b.PaymentExternalID == ref {
			copy := *b
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
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

func (m *MockBookingRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	atomic.AddInt32(&m.UpdatePaymentStatusCallCount, 1)
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
	return nil
}

func (m *MockBookingRepository) SetExternalRef(ctx context.Context, id string, status domain.PaymentStatus, ref string) error {
	atomic.AddInt32(&m.SetExternalRefCallCount, 1)
	if m.SetExternalRefError != nil {
		return m.SetExternalRefError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.PaymentStatus = status
	booking.PaymentExternalID = ref
	return nil
}

// GetBooking returns a booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment adds a ledger entry to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
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

func (m *MockPaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.BookingID != "" && p.BookingID == bookingID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.ExternalID == externalID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepository) Update(ctx context.Context, id string, status domain.PaymentStatus, metadata json.RawMessage) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	payment.Metadata = metadata
	return nil
}

func (m *MockPaymentRepository) AttachBooking(ctx context.Context, id, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.BookingID = bookingID
	return nil
}

// Count returns the number of stored ledger entries.
func (m *MockPaymentRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// GetPayment returns a ledger entry for test assertions.
func (m *MockPaymentRepository) GetPayment(id string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[id]
}

// First returns an arbitrary stored ledger entry, or nil when empty.
func (m *MockPaymentRepository) First() *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		return p
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a scripted implementation of the payment gateway.
type MockGateway struct {
	mu sync.Mutex

	CreateResponse *gateway.Transaction
	CreateError    error
	StatusResponse *gateway.TransactionStatus
	StatusError    error
	VerifyError    error

	CreateCallCount int32
	StatusCallCount int32

	LastCreateInput gateway.CreateTransactionInput
	LastStatusID    string
}

// NewMockGateway creates a mock gateway that succeeds by default.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		CreateResponse: &gateway.Transaction{
			Token:       "snap-token-1",
			RedirectURL: "https://app.sandbox.example/pay/snap-token-1",
		},
	}
}

func (m *MockGateway) CreateTransaction(ctx context.Context, in gateway.CreateTransactionInput) (*gateway.Transaction, error) {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	m.LastCreateInput = in
	m.mu.Unlock()
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	return m.CreateResponse, nil
}

func (m *MockGateway) GetTransactionStatus(ctx context.Context, transactionID string) (*gateway.TransactionStatus, error) {
	atomic.AddInt32(&m.StatusCallCount, 1)
	m.mu.Lock()
	m.LastStatusID = transactionID
	m.mu.Unlock()
	if m.StatusError != nil {
		return nil, m.StatusError
	}
	return m.StatusResponse, nil
}

func (m *MockGateway) VerifyNotification(n *gateway.Notification) error {
	return m.VerifyError
}

// ──────────────────────────────────────────────
// MOCK BOOKING CACHE
// ──────────────────────────────────────────────

// MockBookingCache is an in-memory stand-in for the Redis booking cache.
type MockBookingCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.Booking

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	// Error injection
	GetError error
	SetError error
}

// NewMockBookingCache creates a new mock booking cache.
func NewMockBookingCache() *MockBookingCache {
	return &MockBookingCache{entries: make(map[string]*domain.Booking)}
}

func (m *MockBookingCache) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingCache) SetBooking(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *booking
	m.entries[booking.ID] = &copy
	return nil
}

func (m *MockBookingCache) InvalidateBooking(ctx context.Context, id string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Cached returns a cached booking for test assertions.
func (m *MockBookingCache) Cached(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[id]
}

// ──────────────────────────────────────────────
// MOCK DEDUP STORE
// ──────────────────────────────────────────────

// MockDedupStore is an in-memory dedup lock.
type MockDedupStore struct {
	mu   sync.Mutex
	seen map[string]bool

	// Counters for verification
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockDedupStore creates a new mock dedup store.
func NewMockDedupStore() *MockDedupStore {
	return &MockDedupStore{seen: make(map[string]bool)}
}

func (m *MockDedupStore) AcquireNotificationLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func (m *MockDedupStore) ReleaseNotificationLock(ctx context.Context, key string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, key)
	return nil
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// MockNotifier records customer notices.
type MockNotifier struct {
	SettledCallCount int32
	FailedCallCount  int32
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) NotifyPaymentSettled(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	atomic.AddInt32(&m.SettledCallCount, 1)
	return nil
}

func (m *MockNotifier) NotifyPaymentFailed(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	atomic.AddInt32(&m.FailedCallCount, 1)
	return nil
}
