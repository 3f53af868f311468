package entrytoken

import (
	"context"
	"sync"
	"time"
)

// ReplayGuard remembers consumed token signatures until the tokens expire.
type ReplayGuard interface {
	// Contains reports whether signature has already been consumed.
	Contains(ctx context.Context, signature string) (bool, error)
	// MarkConsumed records signature until expiresAt. It returns false when the
	// signature was already recorded, so concurrent verifiers agree on one winner.
	MarkConsumed(ctx context.Context, signature string, expiresAt time.Time) (bool, error)
}

// MemoryReplayGuard is a single-process ReplayGuard. Expired entries are
// swept lazily on every call, which keeps the map bounded by issuance rate × TTL.
type MemoryReplayGuard struct {
	mu       sync.Mutex
	now      func() time.Time
	consumed map[string]time.Time
}

// NewMemoryReplayGuard builds an empty guard. A nil clock defaults to time.Now.
func NewMemoryReplayGuard(now func() time.Time) *MemoryReplayGuard {
	if now == nil {
		now = time.Now
	}
	return &MemoryReplayGuard{
		now:      now,
		consumed: make(map[string]time.Time),
	}
}

// Contains implements ReplayGuard.
func (g *MemoryReplayGuard) Contains(_ context.Context, signature string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.sweepLocked(g.now())
	_, ok := g.consumed[signature]
	return ok, nil
}

// MarkConsumed implements ReplayGuard.
func (g *MemoryReplayGuard) MarkConsumed(_ context.Context, signature string, expiresAt time.Time) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.sweepLocked(g.now())
	if _, ok := g.consumed[signature]; ok {
		return false, nil
	}
	g.consumed[signature] = expiresAt
	return true, nil
}

// Sweep drops entries whose expiry is at or before now.
func (g *MemoryReplayGuard) Sweep(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sweepLocked(now)
}

// Len returns the number of tracked signatures.
func (g *MemoryReplayGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.consumed)
}

func (g *MemoryReplayGuard) sweepLocked(now time.Time) {
	for signature, expiresAt := range g.consumed {
		if !expiresAt.After(now) {
			delete(g.consumed, signature)
		}
	}
}
