package domain

import (
	"strings"
	"time"
)

// Payment represents one attempted money movement for one order.
//
// OrderReference is the business key linking a payment to its order. Lookups
// go through it, never through the row ID; under normal operation at most one
// non-deleted payment exists per reference.
type Payment struct {
	ID             string
	OrderReference string
	Status         PaymentStatus
	TransactionID  string
	PaymentChannel string
	Amount         string
	Currency       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Order represents the customer's purchase intent, created before payment is
// attempted. Paid is the single authoritative "is this order settled" flag.
type Order struct {
	ID             string
	OrderReference string
	Paid           bool
	TotalAmount    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NormalizeReference uppercases a reference and strips everything that is not
// alphanumeric, so "lnmb-123" and "LNMB123" resolve to the same key.
func NormalizeReference(ref string) string {
	var b strings.Builder
	b.Grow(len(ref))
	for _, r := range strings.ToUpper(ref) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
