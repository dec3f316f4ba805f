package idempotency

import (
	"context"
	"sync"
	"time"
)

// MemoryGuard is an in-process Guard. It is only correct for a
// single-instance deployment; scaled deployments need RedisGuard.
type MemoryGuard struct {
	mu     sync.Mutex
	claims map[string]time.Time
}

// NewMemoryGuard creates a new MemoryGuard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{claims: make(map[string]time.Time)}
}

// TryClaim claims the key for ttl. Expired entries are evicted lazily on the
// next claim attempt for the same key.
func (g *MemoryGuard) TryClaim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if expiry, ok := g.claims[key]; ok && now.Before(expiry) {
		return false, nil
	}

	g.claims[key] = now.Add(ttl)
	return true, nil
}

var _ Guard = (*MemoryGuard)(nil)
