package app

import (
	"context"
	"time"

	"lingo-quiz-service/internal/domain"
)

// AwardFunc computes the XP for an answer. It runs inside the store's per-user
// atomic section and receives the stats read there plus the streak this answer
// produces; that same streak is what the store persists.
type AwardFunc func(current domain.UserStats, newStreak int) int

// Store is the persistence contract. Implementations must make RecordAnswer
// atomic per user: concurrent calls for one user never both observe the
// pre-update streak.
type Store interface {
	GetOrCreateUser(ctx context.Context, userID, username string) (domain.UserStats, error)
	// RecordAnswer updates stats and appends rec to the history as one unit.
	// rec.XPGained is filled from award.
	RecordAnswer(ctx context.Context, rec domain.HistoryRecord, award AwardFunc) (domain.StatsUpdate, error)
	// TryUnlockAchievement reports true only when the unlock was newly created.
	TryUnlockAchievement(ctx context.Context, userID, achievementID string) (bool, error)
	// Achievements returns a user's unlocks, newest first.
	Achievements(ctx context.Context, userID string) ([]domain.AchievementUnlock, error)
	// Leaderboard orders by the sort key descending with stable insertion-order ties.
	Leaderboard(ctx context.Context, key domain.SortKey, limit int) ([]domain.LeaderboardEntry, error)
	// Rank is 1 + the number of users with a strictly greater score.
	Rank(ctx context.Context, userID string, key domain.SortKey) (int, error)
	RecentHistory(ctx context.Context, userID string, limit int) ([]domain.HistoryRecord, error)
}

// SessionRepository abstracts where live sessions are registered (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
	// Drain removes and returns every registered session.
	Drain() []*Session
}

// Translator is the external translation provider.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// RateLimiter throttles actions per key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Event types published after an answer is committed.
const (
	EventAnswerRecorded      = "quiz.answer.recorded"
	EventLevelUp             = "quiz.level.up"
	EventAchievementUnlocked = "quiz.achievement.unlocked"
)

// Event is a progression notification for downstream consumers.
type Event struct {
	Type      string         `json:"type"`
	UserID    string         `json:"userId"`
	SessionID string         `json:"sessionId"`
	Payload   map[string]any `json:"payload"`
	At        time.Time      `json:"at"`
}

// EventPublisher ships events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Observer receives metric hooks.
type Observer interface {
	SessionStarted(mode domain.Mode)
	AnswerRecorded(mode domain.Mode, correct bool, xp int)
	SessionClosed(mode domain.Mode, state domain.SessionState)
}

type nopObserver struct{}

func (nopObserver) SessionStarted(domain.Mode)                    {}
func (nopObserver) AnswerRecorded(domain.Mode, bool, int)         {}
func (nopObserver) SessionClosed(domain.Mode, domain.SessionState) {}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
