package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"lingo-quiz-service/internal/app"
	"lingo-quiz-service/internal/domain"
	"lingo-quiz-service/internal/progression"
)

// Store is the Postgres implementation of app.Store, built on bun.
// RecordAnswer locks the user row with SELECT ... FOR UPDATE so concurrent
// answers of one user serialize while other users proceed.
type Store struct {
	db     *bun.DB
	levels *progression.LevelTable
	now    func() time.Time
}

func NewStore(db *bun.DB, levels *progression.LevelTable) *Store {
	if levels == nil {
		levels = progression.DefaultLevelTable()
	}
	return &Store{db: db, levels: levels, now: time.Now}
}

func (s *Store) ensureUser(ctx context.Context, db bun.IDB, userID, username string) error {
	_, err := db.NewInsert().
		Model(&userModel{UserID: userID, Username: username, Level: 1, CreatedAt: s.now()}).
		On("CONFLICT (user_id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Where("u.username = '' AND EXCLUDED.username <> ''").
		Returning("NULL").
		Exec(ctx)
	return err
}

func (s *Store) GetOrCreateUser(ctx context.Context, userID, username string) (domain.UserStats, error) {
	if err := s.ensureUser(ctx, s.db, userID, username); err != nil {
		return domain.UserStats{}, fmt.Errorf("create user %s: %w", userID, err)
	}
	var row userModel
	if err := s.db.NewSelect().Model(&row).Where("user_id = ?", userID).Scan(ctx); err != nil {
		return domain.UserStats{}, fmt.Errorf("load user %s: %w", userID, err)
	}
	return row.toDomain(), nil
}

func (s *Store) RecordAnswer(ctx context.Context, rec domain.HistoryRecord, award app.AwardFunc) (domain.StatsUpdate, error) {
	var update domain.StatsUpdate
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := s.ensureUser(ctx, tx, rec.UserID, ""); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		var row userModel
		if err := tx.NewSelect().Model(&row).Where("user_id = ?", rec.UserID).For("UPDATE").Scan(ctx); err != nil {
			return fmt.Errorf("lock user: %w", err)
		}
		before := row.toDomain()

		streak := progression.NextStreak(row.CurrentStreak, rec.IsCorrect)
		xp := award(before, streak)

		row.XP += xp
		row.Level = s.levels.LevelFor(row.XP)
		row.CurrentStreak = streak
		if streak > row.BestStreak {
			row.BestStreak = streak
		}
		row.TotalQuestions++
		if rec.IsCorrect {
			row.CorrectAnswers++
		} else {
			row.WrongAnswers++
		}
		row.LastQuizAt = bun.NullTime{Time: rec.AnsweredAt}

		_, err := tx.NewUpdate().
			Model(&row).
			Column("xp", "level", "current_streak", "best_streak",
				"total_questions", "correct_answers", "wrong_answers", "last_quiz_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update stats: %w", err)
		}

		rec.XPGained = xp
		if _, err := tx.NewInsert().Model(historyFromDomain(rec)).Returning("NULL").Exec(ctx); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		update = domain.StatsUpdate{Before: before, After: row.toDomain(), XPAwarded: xp}
		return nil
	})
	if err != nil {
		return domain.StatsUpdate{}, fmt.Errorf("record answer for %s: %w", rec.UserID, err)
	}
	return update, nil
}

func (s *Store) TryUnlockAchievement(ctx context.Context, userID, achievementID string) (bool, error) {
	res, err := s.db.NewInsert().
		Model(&achievementModel{UserID: userID, AchievementID: achievementID, UnlockedAt: s.now()}).
		On("CONFLICT (user_id, achievement_id) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("unlock %s for %s: %w", achievementID, userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unlock %s for %s: %w", achievementID, userID, err)
	}
	return n == 1, nil
}

func (s *Store) Achievements(ctx context.Context, userID string) ([]domain.AchievementUnlock, error) {
	var rows []achievementModel
	err := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("unlocked_at DESC", "id DESC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load achievements for %s: %w", userID, err)
	}
	out := make([]domain.AchievementUnlock, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.AchievementUnlock{UserID: r.UserID, AchievementID: r.AchievementID, UnlockedAt: r.UnlockedAt})
	}
	return out, nil
}

func scoreColumn(key domain.SortKey) bun.Ident {
	if key == domain.SortByStreak {
		return bun.Ident("best_streak")
	}
	return bun.Ident("xp")
}

func (s *Store) Leaderboard(ctx context.Context, key domain.SortKey, limit int) ([]domain.LeaderboardEntry, error) {
	var rows []userModel
	q := s.db.NewSelect().
		Model(&rows).
		OrderExpr("? DESC", scoreColumn(key)).
		Order("created_at ASC", "id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	out := make([]domain.LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		out = append(out, domain.LeaderboardEntry{
			Rank:           i + 1,
			UserID:         r.UserID,
			Username:       r.Username,
			XP:             r.XP,
			Level:          r.Level,
			BestStreak:     r.BestStreak,
			CorrectAnswers: r.CorrectAnswers,
			TotalQuestions: r.TotalQuestions,
		})
	}
	return out, nil
}

func (s *Store) Rank(ctx context.Context, userID string, key domain.SortKey) (int, error) {
	col := scoreColumn(key)
	ahead, err := s.db.NewSelect().
		Model((*userModel)(nil)).
		Where("? > COALESCE((SELECT ? FROM quiz_users WHERE user_id = ?), 0)", col, col, userID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("rank %s: %w", userID, err)
	}
	return ahead + 1, nil
}

func (s *Store) RecentHistory(ctx context.Context, userID string, limit int) ([]domain.HistoryRecord, error) {
	var rows []historyModel
	q := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("answered_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load history for %s: %w", userID, err)
	}
	out := make([]domain.HistoryRecord, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}
