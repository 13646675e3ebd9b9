package quota

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryGate_LimitEnforced(t *testing.T) {
	gate := &MemoryGate{Limit: 3}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := gate.Allow(ctx, "1.2.3.4"); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i+1, err)
		}
	}
	if err := gate.Allow(ctx, "1.2.3.4"); !errors.Is(err, ErrDailyLimit) {
		t.Fatalf("err=%v want ErrDailyLimit", err)
	}
}

func TestMemoryGate_DistinctOrigins(t *testing.T) {
	gate := &MemoryGate{Limit: 1}
	ctx := context.Background()

	if err := gate.Allow(ctx, "1.1.1.1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gate.Allow(ctx, "2.2.2.2"); err != nil {
		t.Fatalf("other origin should not be counted: %v", err)
	}
	if err := gate.Allow(ctx, "1.1.1.1"); !errors.Is(err, ErrDailyLimit) {
		t.Fatalf("err=%v want ErrDailyLimit", err)
	}
}

func TestMemoryGate_DayRollover(t *testing.T) {
	now := time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC)
	gate := &MemoryGate{Limit: 1, Now: func() time.Time { return now }}
	ctx := context.Background()

	if err := gate.Allow(ctx, "1.2.3.4"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gate.Allow(ctx, "1.2.3.4"); !errors.Is(err, ErrDailyLimit) {
		t.Fatalf("err=%v want ErrDailyLimit", err)
	}

	now = now.Add(2 * time.Hour)
	if err := gate.Allow(ctx, "1.2.3.4"); err != nil {
		t.Fatalf("quota should reset on the new day: %v", err)
	}
}

func TestMemoryGate_ConcurrentRequestsAdmitExactlyLimit(t *testing.T) {
	const limit = 5
	gate := &MemoryGate{Limit: limit}
	ctx := context.Background()

	var wg sync.WaitGroup
	var admitted int64
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := gate.Allow(ctx, "1.2.3.4"); err == nil {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	if admitted != limit {
		t.Fatalf("admitted=%d want=%d", admitted, limit)
	}
}

func TestDayKey_Timezone(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 20:00 UTC on March 1 is already March 2 in Seoul.
	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	if got := DayKey(now, seoul); got != "2025-03-02" {
		t.Fatalf("day=%s want=2025-03-02", got)
	}
	if got := DayKey(now, time.UTC); got != "2025-03-01" {
		t.Fatalf("day=%s want=2025-03-01", got)
	}
	if got := DayKey(now, nil); got != "2025-03-01" {
		t.Fatalf("nil location should fall back to UTC, got %s", got)
	}
}
