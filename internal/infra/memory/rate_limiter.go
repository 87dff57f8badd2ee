package memory

import (
	"context"
	"sync"
	"time"
)

// RateLimiter allows up to limit actions per key in fixed windows.
type RateLimiter struct {
	limit  int
	window time.Duration
	clock  func() time.Time

	mu        sync.Mutex
	buckets   map[string]bucket
	nextSweep time.Time
}

type bucket struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		clock:   time.Now,
		buckets: make(map[string]bucket),
	}
}

func (l *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}
	now := l.clock()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked(now)

	b := l.buckets[key]
	if !now.Before(b.resetAt) {
		b = bucket{resetAt: now.Add(l.window)}
	}
	if b.count >= l.limit {
		l.buckets[key] = b
		return false, nil
	}
	b.count++
	l.buckets[key] = b
	return true, nil
}

// sweepLocked drops expired buckets at most once per window.
func (l *RateLimiter) sweepLocked(now time.Time) {
	if now.Before(l.nextSweep) {
		return
	}
	for key, b := range l.buckets {
		if !now.Before(b.resetAt) {
			delete(l.buckets, key)
		}
	}
	l.nextSweep = now.Add(l.window)
}

// Len reports how many keys hold a bucket.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
