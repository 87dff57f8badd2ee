package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"lingo-quiz-service/internal/app"
	"lingo-quiz-service/internal/domain"
)

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewSessionStore(newClient(mr), 5*time.Second)
	store.now = func() time.Time { return now }

	store.Put(app.NewSession("s1", domain.ModeSolo, now, 30*time.Second))
	if !mr.Exists("quiz:session:s1") {
		t.Fatalf("expected redis key to be set")
	}
	if got := mr.HGet("quiz:session:s1", "mode"); got != "solo" {
		t.Fatalf("expected mode solo, got %q", got)
	}
	if ttl := mr.TTL("quiz:session:s1"); ttl != 35*time.Second {
		t.Fatalf("expected ttl deadline+grace, got %v", ttl)
	}
	if _, ok := store.Get("s1"); !ok {
		t.Fatalf("expected local session")
	}

	store.Delete("s1")
	if mr.Exists("quiz:session:s1") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestSessionStoreDrainClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Second)
	store.Put(app.NewSession("a", domain.ModeSolo, time.Now(), time.Minute))
	store.Put(app.NewSession("b", domain.ModeMultiplayer, time.Now(), time.Minute))

	if got := len(store.Drain()); got != 2 {
		t.Fatalf("expected 2 sessions, got %d", got)
	}
	if mr.Exists("quiz:session:a") || mr.Exists("quiz:session:b") {
		t.Fatalf("expected liveness keys removed")
	}
}
