package memory

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.clock = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if ok, _ := limiter.Allow(ctx, "u1"); !ok {
			t.Fatalf("call %d should be allowed", i)
		}
	}
	if ok, _ := limiter.Allow(ctx, "u1"); ok {
		t.Fatalf("third call should be limited")
	}
	if ok, _ := limiter.Allow(ctx, "u2"); !ok {
		t.Fatalf("other keys are independent")
	}

	now = now.Add(time.Minute)
	if ok, _ := limiter.Allow(ctx, "u1"); !ok {
		t.Fatalf("new window should allow again")
	}
}

func TestRateLimiterDropsExpiredBuckets(t *testing.T) {
	limiter := NewRateLimiter(5, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.clock = func() time.Time { return now }
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		_, _ = limiter.Allow(ctx, key)
	}
	if n := limiter.Len(); n != 3 {
		t.Fatalf("expected 3 buckets, got %d", n)
	}

	now = now.Add(2 * time.Minute)
	_, _ = limiter.Allow(ctx, "d")
	if n := limiter.Len(); n != 1 {
		t.Fatalf("expected expired buckets to be dropped, got %d", n)
	}
}
