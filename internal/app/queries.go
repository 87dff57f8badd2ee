package app

import (
	"context"
	"errors"
	"fmt"

	"lingo-quiz-service/internal/domain"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// RegisterUser makes sure a user row exists before they start playing.
func (m *SessionManager) RegisterUser(ctx context.Context, userID, username string) (domain.UserStats, error) {
	stats, err := m.store.GetOrCreateUser(ctx, userID, username)
	if err != nil {
		return domain.UserStats{}, persistenceError(err)
	}
	return stats, nil
}

// Leaderboard returns the top users by key. Limit defaults to 10 and is capped at 100.
func (m *SessionManager) Leaderboard(ctx context.Context, key domain.SortKey, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	entries, err := m.store.Leaderboard(ctx, key, limit)
	if err != nil {
		return nil, persistenceError(err)
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// Rank is the user's 1-based position for key.
func (m *SessionManager) Rank(ctx context.Context, userID string, key domain.SortKey) (int, error) {
	rank, err := m.store.Rank(ctx, userID, key)
	if err != nil {
		return 0, persistenceError(err)
	}
	return rank, nil
}

// Profile loads (creating if needed) the user and everything shown on their card.
func (m *SessionManager) Profile(ctx context.Context, userID, username string) (domain.Profile, error) {
	stats, err := m.store.GetOrCreateUser(ctx, userID, username)
	if err != nil {
		return domain.Profile{}, persistenceError(err)
	}
	rank, err := m.store.Rank(ctx, userID, domain.SortByXP)
	if err != nil {
		return domain.Profile{}, persistenceError(err)
	}
	unlocks, err := m.store.Achievements(ctx, userID)
	if err != nil {
		return domain.Profile{}, persistenceError(err)
	}
	history, err := m.store.RecentHistory(ctx, userID, m.cfg.HistoryLimit)
	if err != nil {
		return domain.Profile{}, persistenceError(err)
	}

	achievements := make([]domain.Achievement, 0, len(unlocks))
	for _, u := range unlocks {
		achievements = append(achievements, m.evaluator.Lookup(u.AchievementID))
	}
	return domain.Profile{
		Stats:         stats,
		Rank:          rank,
		Accuracy:      stats.Accuracy(),
		Achievements:  achievements,
		Progress:      m.levels.NextLevelInfo(stats.XP),
		RecentHistory: history,
	}, nil
}

func persistenceError(err error) error {
	if errors.Is(err, domain.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
}
