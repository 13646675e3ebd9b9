package quota

import (
	"context"
	"sync"
	"time"
)

// MemoryGate is the in-process backend for dev setups without redis or a
// shared database. Not suitable for multi-instance deployments.
type MemoryGate struct {
	Limit int
	Loc   *time.Location

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time

	mu     sync.Mutex
	counts map[string]int
}

func (g *MemoryGate) Allow(ctx context.Context, origin string) error {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	key := origin + ":" + DayKey(now(), g.Loc)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.counts == nil {
		g.counts = make(map[string]int)
	}
	g.counts[key]++
	if g.counts[key] > g.Limit {
		return ErrDailyLimit
	}
	return nil
}
