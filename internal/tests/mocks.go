package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"lnmbpay/internal/domain"
	"lnmbpay/internal/repository"
	"lnmbpay/internal/signature"
)

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout    = errors.New("mock: operation timeout")
)

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository,
// keyed by order reference like the real store.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters for verification
	CreateCallCount int32
	PatchCallCount  int32

	// Error injection
	CreateError error
	GetError    error
	PatchError  error
	ListError   error

	// Force ListByStatus to report ErrNotSupported (no status index).
	ListByStatusUnsupported bool
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.OrderReference] = payment
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	m.payments[payment.OrderReference] = payment
	return nil
}

func (m *MockPaymentRepository) GetByReference(ctx context.Context, ref string) (*domain.Payment, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[ref]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) Patch(ctx context.Context, ref string, patch repository.PaymentPatch) error {
	atomic.AddInt32(&m.PatchCallCount, 1)
	if m.PatchError != nil {
		return m.PatchError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[ref]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.Status != nil {
		payment.Status = *patch.Status
	}
	if patch.TransactionID != nil {
		payment.TransactionID = *patch.TransactionID
	}
	if patch.PaymentChannel != nil {
		payment.PaymentChannel = *patch.PaymentChannel
	}
	payment.UpdatedAt = time.Now()
	return nil
}

func (m *MockPaymentRepository) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Payment, error) {
	if m.ListByStatusUnsupported {
		return nil, repository.ErrNotSupported
	}
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if p.Status == status {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockPaymentRepository) List(ctx context.Context) ([]*domain.Payment, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		copy := *p
		result = append(result, &copy)
	}
	return result, nil
}

// GetPayment returns the stored payment for test assertions.
func (m *MockPaymentRepository) GetPayment(ref string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[ref]
}

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// Counters for verification
	PatchCallCount int32

	// Error injection
	GetError   error
	PatchError error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

// AddOrder adds an order to the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.OrderReference] = order
}

func (m *MockOrderRepository) GetByReference(ctx context.Context, ref string) (*domain.Order, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[ref]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *order
	return &copy, nil
}

func (m *MockOrderRepository) Patch(ctx context.Context, ref string, patch repository.OrderPatch) error {
	atomic.AddInt32(&m.PatchCallCount, 1)
	if m.PatchError != nil {
		return m.PatchError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[ref]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.Paid != nil {
		order.Paid = *patch.Paid
	}
	order.UpdatedAt = time.Now()
	return nil
}

// GetOrder returns the stored order for test assertions.
func (m *MockOrderRepository) GetOrder(ref string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[ref]
}

// ──────────────────────────────────────────────
// MOCK IDEMPOTENCY GUARD
// ──────────────────────────────────────────────

// MockGuard is a mock idempotency guard with the same claim semantics as the
// Redis-backed one.
type MockGuard struct {
	mu     sync.Mutex
	claims map[string]time.Time

	// Counters
	ClaimCallCount int32

	// Error injection
	ClaimError error
}

// NewMockGuard creates a new mock guard.
func NewMockGuard() *MockGuard {
	return &MockGuard{claims: make(map[string]time.Time)}
}

func (m *MockGuard) TryClaim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.ClaimCallCount, 1)
	if m.ClaimError != nil {
		return false, m.ClaimError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if expiry, ok := m.claims[key]; ok && time.Now().Before(expiry) {
		return false, nil
	}
	m.claims[key] = time.Now().Add(ttl)
	return true, nil
}

// ──────────────────────────────────────────────
// MOCK GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock payment gateway.
type MockGateway struct {
	mu sync.Mutex

	// Control behavior
	FailError     error
	TransactionID string

	// Counters
	InitiateCallCount int32

	// Last request for assertions
	LastParams signature.Params
}

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{TransactionID: "TXN-MOCK"}
}

func (m *MockGateway) Initiate(ctx context.Context, p signature.Params, channel string) (string, error) {
	atomic.AddInt32(&m.InitiateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastParams = p
	if m.FailError != nil {
		return "", m.FailError
	}
	return m.TransactionID, nil
}
