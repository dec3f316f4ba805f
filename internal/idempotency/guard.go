// Package idempotency collapses duplicate gateway deliveries of the same
// logical payment event into a single effect.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Guard tracks which notification keys have already produced a durable
// status change. TryClaim must be atomic with respect to concurrent callers:
// a separate read followed by a separate write admits a race where two
// duplicate deliveries both observe "not present".
type Guard interface {
	// TryClaim records the key if it is not already present. It returns true
	// if the caller won the claim and should proceed, false if the key was
	// already claimed within its TTL.
	TryClaim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Key derives a stable idempotency key from an order reference and an
// optional gateway transaction id. An absent transaction id still yields a
// stable key from the reference alone.
func Key(orderReference, transactionID string) string {
	sum := sha256.Sum256([]byte(orderReference + "|" + transactionID))
	return hex.EncodeToString(sum[:])
}
