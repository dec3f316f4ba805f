package repository

import (
	"context"

	"lnmbpay/internal/domain"
)

// PaymentPatch carries the fields a callback may update on a payment. Nil
// fields are left untouched; every applied patch bumps UpdatedAt.
type PaymentPatch struct {
	Status         *domain.PaymentStatus
	TransactionID  *string
	PaymentChannel *string
}

// PaymentRepository defines the persistence operations for payments.
// Payments are addressed by their orderReference business key, not by row id.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByReference retrieves a payment by its order reference.
	// Returns ErrNotFound if no payment exists for the reference.
	GetByReference(ctx context.Context, ref string) (*domain.Payment, error)

	// Patch applies a partial update to the payment with the given reference.
	Patch(ctx context.Context, ref string, patch PaymentPatch) error

	// ListByStatus returns all payments in the given status. Backends without
	// a status index may return ErrNotSupported; callers then fall back to
	// List and filter.
	ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Payment, error)

	// List returns all payments.
	List(ctx context.Context) ([]*domain.Payment, error)
}
