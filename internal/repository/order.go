package repository

import (
	"context"

	"lnmbpay/internal/domain"
)

// OrderPatch carries the fields this subsystem may update on an order.
type OrderPatch struct {
	Paid *bool
}

// OrderRepository defines the persistence operations for orders. Order
// creation belongs to the customer-facing flow; this subsystem only reads
// orders and flips their paid flag.
type OrderRepository interface {
	// GetByReference retrieves an order by its order reference.
	// Returns ErrNotFound if no order exists for the reference.
	GetByReference(ctx context.Context, ref string) (*domain.Order, error)

	// Patch applies a partial update to the order with the given reference.
	Patch(ctx context.Context, ref string, patch OrderPatch) error
}
