package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"lingo-quiz-service/internal/domain"
	"lingo-quiz-service/internal/progression"
)

func fixedAward(xp int) func(domain.UserStats, int) int {
	return func(domain.UserStats, int) int { return xp }
}

func TestStoreCreatesUsersLazily(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	stats, err := store.GetOrCreateUser(ctx, "u1", "Alice")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if stats.Level != 1 || stats.XP != 0 || stats.Username != "Alice" {
		t.Fatalf("unexpected defaults %+v", stats)
	}

	again, _ := store.GetOrCreateUser(ctx, "u1", "Renamed")
	if again.Username != "Alice" {
		t.Fatalf("existing user should be returned unchanged, got %+v", again)
	}
}

func TestStoreRecordAnswerUpdatesStatsAndHistory(t *testing.T) {
	ctx := context.Background()
	store := NewStore(progression.DefaultLevelTable())

	var seenStreak int
	update, err := store.RecordAnswer(ctx, domain.HistoryRecord{UserID: "u1", SessionID: "s1", IsCorrect: true},
		func(_ domain.UserStats, streak int) int {
			seenStreak = streak
			return 120
		})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if seenStreak != 1 {
		t.Fatalf("expected prospective streak 1, got %d", seenStreak)
	}
	if update.After.XP != 120 || update.After.Level != 2 || !update.LevelUp() {
		t.Fatalf("unexpected update %+v", update)
	}

	update, _ = store.RecordAnswer(ctx, domain.HistoryRecord{UserID: "u1", SessionID: "s2"}, fixedAward(0))
	after := update.After
	if after.CurrentStreak != 0 || after.BestStreak != 1 {
		t.Fatalf("streak not reset: %+v", after)
	}
	if after.TotalQuestions != 2 || after.CorrectAnswers+after.WrongAnswers != after.TotalQuestions {
		t.Fatalf("counters inconsistent: %+v", after)
	}

	history, _ := store.RecentHistory(ctx, "u1", 10)
	if len(history) != 2 || history[0].SessionID != "s2" || history[1].XPGained != 120 {
		t.Fatalf("unexpected history %+v", history)
	}
	if limited, _ := store.RecentHistory(ctx, "u1", 1); len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestStoreRecordAnswerIsAtomicPerUser(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.RecordAnswer(ctx, domain.HistoryRecord{UserID: "u1", IsCorrect: true}, fixedAward(1))
		}()
	}
	wg.Wait()

	stats, _ := store.GetOrCreateUser(ctx, "u1", "")
	if stats.CurrentStreak != n || stats.XP != n || stats.BestStreak != n {
		t.Fatalf("lost update: %+v", stats)
	}
}

func TestStoreUnlockIsIdempotent(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	store := NewStoreWithClock(nil, func() time.Time { return now })

	if created, _ := store.TryUnlockAchievement(ctx, "u1", "first_quiz"); !created {
		t.Fatalf("expected first unlock to be new")
	}
	if created, _ := store.TryUnlockAchievement(ctx, "u1", "first_quiz"); created {
		t.Fatalf("expected repeat unlock to be a no-op")
	}
	now = start.Add(time.Minute)
	_, _ = store.TryUnlockAchievement(ctx, "u1", "streak_5")

	list, _ := store.Achievements(ctx, "u1")
	if len(list) != 2 || list[0].AchievementID != "streak_5" {
		t.Fatalf("expected newest first, got %+v", list)
	}
}

func TestStoreLeaderboardAndRank(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	_, _ = store.GetOrCreateUser(ctx, "a", "A")
	_, _ = store.GetOrCreateUser(ctx, "b", "B")
	_, _ = store.GetOrCreateUser(ctx, "c", "C")
	_, _ = store.RecordAnswer(ctx, domain.HistoryRecord{UserID: "b", IsCorrect: true}, fixedAward(50))
	_, _ = store.RecordAnswer(ctx, domain.HistoryRecord{UserID: "c", IsCorrect: true}, fixedAward(50))
	_, _ = store.RecordAnswer(ctx, domain.HistoryRecord{UserID: "c", IsCorrect: true}, fixedAward(0))

	board, _ := store.Leaderboard(ctx, domain.SortByXP, 10)
	if len(board) != 3 || board[0].UserID != "b" || board[1].UserID != "c" || board[2].UserID != "a" {
		t.Fatalf("unexpected xp order %+v", board)
	}

	board, _ = store.Leaderboard(ctx, domain.SortByStreak, 2)
	if len(board) != 2 || board[0].UserID != "c" {
		t.Fatalf("unexpected streak order %+v", board)
	}

	for user, want := range map[string]int{"b": 1, "c": 1, "a": 3, "ghost": 3} {
		if got, _ := store.Rank(ctx, user, domain.SortByXP); got != want {
			t.Fatalf("rank(%s) = %d, want %d", user, got, want)
		}
	}
}

func TestGetOrCreateUserNamesUserFirstSeenByAnswer(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	if _, err := store.RecordAnswer(ctx, domain.HistoryRecord{UserID: "u1", IsCorrect: true}, fixedAward(10)); err != nil {
		t.Fatalf("record: %v", err)
	}
	stats, _ := store.GetOrCreateUser(ctx, "u1", "Alice")
	if stats.Username != "Alice" || stats.XP != 10 {
		t.Fatalf("expected name filled in and xp kept, got %+v", stats)
	}

	board, _ := store.Leaderboard(ctx, domain.SortByXP, 10)
	if len(board) != 1 || board[0].Username != "Alice" {
		t.Fatalf("unexpected leaderboard %+v", board)
	}

	again, _ := store.GetOrCreateUser(ctx, "u1", "Renamed")
	if again.Username != "Alice" {
		t.Fatalf("a set name must not change, got %q", again.Username)
	}
}
