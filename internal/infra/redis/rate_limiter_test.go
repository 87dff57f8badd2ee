package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestRateLimiterFixedWindow(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	limiter := NewRateLimiter(newClient(mr), 5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ok, err := limiter.Allow(ctx, "quiz:u1")
		if err != nil || !ok {
			t.Fatalf("call %d should be allowed (%v)", i, err)
		}
	}
	if ok, _ := limiter.Allow(ctx, "quiz:u1"); ok {
		t.Fatalf("sixth call should be limited")
	}
	if ttl := mr.TTL("ratelimit:quiz:u1"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected window ttl, got %v", ttl)
	}

	mr.FastForward(time.Minute)
	if ok, _ := limiter.Allow(ctx, "quiz:u1"); !ok {
		t.Fatalf("expected a fresh window")
	}
}

func TestRateLimiterRecoversKeyWithoutTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	// a counter left behind without a window, e.g. after a failed EXPIRE
	if err := mr.Set("ratelimit:quiz:u1", "5"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	limiter := NewRateLimiter(newClient(mr), 5, time.Minute)
	ctx := context.Background()
	if ok, _ := limiter.Allow(ctx, "quiz:u1"); ok {
		t.Fatalf("expected the stale counter to still limit")
	}
	if ttl := mr.TTL("ratelimit:quiz:u1"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected the key to regain a window, got %v", ttl)
	}

	mr.FastForward(time.Minute)
	if ok, err := limiter.Allow(ctx, "quiz:u1"); err != nil || !ok {
		t.Fatalf("expected a fresh window after expiry (%v)", err)
	}
}

func TestRateLimiterKeepsWindowStart(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	limiter := NewRateLimiter(newClient(mr), 5, time.Minute)
	ctx := context.Background()
	_, _ = limiter.Allow(ctx, "quiz:u1")
	mr.FastForward(40 * time.Second)
	_, _ = limiter.Allow(ctx, "quiz:u1")
	if ttl := mr.TTL("ratelimit:quiz:u1"); ttl != 20*time.Second {
		t.Fatalf("later hits must not extend the window, got %v", ttl)
	}
}
