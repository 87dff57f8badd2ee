package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingTranslator struct {
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (c *countingTranslator) Translate(_ context.Context, text, _, target string) (string, error) {
	c.calls.Add(1)
	time.Sleep(c.delay)
	if c.err != nil {
		return "", c.err
	}
	return target + ":" + text, nil
}

func TestTranslationCacheCaches(t *testing.T) {
	upstream := &countingTranslator{}
	cache := NewTranslationCache(upstream, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := cache.Translate(context.Background(), "cat", "en", "es")
		if err != nil {
			t.Fatalf("translate: %v", err)
		}
		if got != "es:cat" {
			t.Fatalf("unexpected translation %q", got)
		}
	}
	if upstream.calls.Load() != 1 {
		t.Fatalf("expected upstream once, got %d", upstream.calls.Load())
	}

	if _, err := cache.Translate(context.Background(), "cat", "en", "ko"); err != nil {
		t.Fatalf("translate: %v", err)
	}
	if upstream.calls.Load() != 2 {
		t.Fatalf("expected a miss for a new target, got %d calls", upstream.calls.Load())
	}
}

func TestTranslationCacheExpires(t *testing.T) {
	upstream := &countingTranslator{}
	cache := NewTranslationCache(upstream, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	_, _ = cache.Translate(context.Background(), "cat", "en", "es")
	now = now.Add(2 * time.Minute)
	_, _ = cache.Translate(context.Background(), "cat", "en", "es")
	if upstream.calls.Load() != 2 {
		t.Fatalf("expected refetch after ttl, got %d calls", upstream.calls.Load())
	}
}

func TestTranslationCacheCoalescesMisses(t *testing.T) {
	upstream := &countingTranslator{delay: 50 * time.Millisecond}
	cache := NewTranslationCache(upstream, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cache.Translate(context.Background(), "dog", "en", "de")
		}()
	}
	wg.Wait()
	if upstream.calls.Load() != 1 {
		t.Fatalf("expected a single upstream call, got %d", upstream.calls.Load())
	}
}

func TestTranslationCacheDoesNotCacheErrors(t *testing.T) {
	upstream := &countingTranslator{err: errors.New("down")}
	cache := NewTranslationCache(upstream, time.Minute)

	if _, err := cache.Translate(context.Background(), "cat", "en", "es"); err == nil {
		t.Fatalf("expected error")
	}
	upstream.err = nil
	if got, err := cache.Translate(context.Background(), "cat", "en", "es"); err != nil || got != "es:cat" {
		t.Fatalf("expected recovery, got %q %v", got, err)
	}
}
