package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"lingo-quiz-service/internal/app"
	"lingo-quiz-service/internal/domain"
	"lingo-quiz-service/internal/progression"
)

// Store is an in-memory app.Store. Each user has its own mutex so that
// RecordAnswer is atomic per user while different users proceed in parallel.
type Store struct {
	levels *progression.LevelTable
	clock  func() time.Time

	mu       sync.RWMutex
	seq      int64
	users    map[string]*userRow
	history  map[string][]domain.HistoryRecord
	unlocks  map[string][]domain.AchievementUnlock
	unlocked map[string]struct{}
}

type userRow struct {
	mu    sync.Mutex // held across a record-answer read-modify-write
	seq   int64
	stats domain.UserStats
}

func NewStore(levels *progression.LevelTable) *Store {
	if levels == nil {
		levels = progression.DefaultLevelTable()
	}
	return &Store{
		levels:   levels,
		clock:    time.Now,
		users:    make(map[string]*userRow),
		history:  make(map[string][]domain.HistoryRecord),
		unlocks:  make(map[string][]domain.AchievementUnlock),
		unlocked: make(map[string]struct{}),
	}
}

// NewStoreWithClock is used by tests that need deterministic timestamps.
func NewStoreWithClock(levels *progression.LevelTable, now func() time.Time) *Store {
	s := NewStore(levels)
	s.clock = now
	return s
}

func (s *Store) row(userID, username string) *userRow {
	s.mu.RLock()
	r, ok := s.users[userID]
	s.mu.RUnlock()
	if ok {
		return r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.users[userID]; ok {
		return r
	}
	s.seq++
	r = &userRow{
		seq: s.seq,
		stats: domain.UserStats{
			UserID:    userID,
			Username:  username,
			Level:     1,
			CreatedAt: s.clock(),
		},
	}
	s.users[userID] = r
	return r
}

func (s *Store) GetOrCreateUser(ctx context.Context, userID, username string) (domain.UserStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserStats{}, err
	}
	r := s.row(userID, username)
	s.mu.Lock()
	defer s.mu.Unlock()
	// users first seen through RecordAnswer have no name yet
	if r.stats.Username == "" && username != "" {
		r.stats.Username = username
	}
	return r.stats, nil
}

func (s *Store) RecordAnswer(ctx context.Context, rec domain.HistoryRecord, award app.AwardFunc) (domain.StatsUpdate, error) {
	if err := ctx.Err(); err != nil {
		return domain.StatsUpdate{}, err
	}
	r := s.row(rec.UserID, "")
	r.mu.Lock()
	defer r.mu.Unlock()

	s.mu.RLock()
	before := r.stats
	s.mu.RUnlock()

	streak := progression.NextStreak(before.CurrentStreak, rec.IsCorrect)
	xp := award(before, streak)

	after := before
	after.XP += xp
	after.Level = s.levels.LevelFor(after.XP)
	after.CurrentStreak = streak
	if streak > after.BestStreak {
		after.BestStreak = streak
	}
	after.TotalQuestions++
	if rec.IsCorrect {
		after.CorrectAnswers++
	} else {
		after.WrongAnswers++
	}
	after.LastQuizAt = rec.AnsweredAt
	rec.XPGained = xp

	s.mu.Lock()
	after.Username = r.stats.Username
	r.stats = after
	s.history[rec.UserID] = append(s.history[rec.UserID], rec)
	s.mu.Unlock()

	return domain.StatsUpdate{Before: before, After: after, XPAwarded: xp}, nil
}

func (s *Store) TryUnlockAchievement(ctx context.Context, userID, achievementID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key := userID + "\x00" + achievementID
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.unlocked[key]; ok {
		return false, nil
	}
	s.unlocked[key] = struct{}{}
	s.unlocks[userID] = append(s.unlocks[userID], domain.AchievementUnlock{
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    s.clock(),
	})
	return true, nil
}

func (s *Store) Achievements(ctx context.Context, userID string) ([]domain.AchievementUnlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.unlocks[userID]
	out := make([]domain.AchievementUnlock, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

func score(stats domain.UserStats, key domain.SortKey) int {
	if key == domain.SortByStreak {
		return stats.BestStreak
	}
	return stats.XP
}

func (s *Store) Leaderboard(ctx context.Context, key domain.SortKey, limit int) ([]domain.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	type ranked struct {
		seq   int64
		stats domain.UserStats
	}
	rows := make([]ranked, 0, len(s.users))
	for _, r := range s.users {
		rows = append(rows, ranked{seq: r.seq, stats: r.stats})
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		si, sj := score(rows[i].stats, key), score(rows[j].stats, key)
		if si != sj {
			return si > sj
		}
		return rows[i].seq < rows[j].seq
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]domain.LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		out = append(out, domain.LeaderboardEntry{
			Rank:           i + 1,
			UserID:         r.stats.UserID,
			Username:       r.stats.Username,
			XP:             r.stats.XP,
			Level:          r.stats.Level,
			BestStreak:     r.stats.BestStreak,
			CorrectAnswers: r.stats.CorrectAnswers,
			TotalQuestions: r.stats.TotalQuestions,
		})
	}
	return out, nil
}

func (s *Store) Rank(ctx context.Context, userID string, key domain.SortKey) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	mine := 0
	if r, ok := s.users[userID]; ok {
		mine = score(r.stats, key)
	}
	rank := 1
	for id, r := range s.users {
		if id != userID && score(r.stats, key) > mine {
			rank++
		}
	}
	return rank, nil
}

func (s *Store) RecentHistory(ctx context.Context, userID string, limit int) ([]domain.HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.history[userID]
	out := make([]domain.HistoryRecord, 0, len(list))
	for i := len(list) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, list[i])
	}
	return out, nil
}
