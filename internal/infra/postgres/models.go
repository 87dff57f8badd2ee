package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"lingo-quiz-service/internal/domain"
)

type userModel struct {
	bun.BaseModel `bun:"table:quiz_users,alias:u"`

	ID             int64        `bun:"id,pk,autoincrement"`
	UserID         string       `bun:"user_id,notnull,unique"`
	Username       string       `bun:"username,notnull"`
	XP             int          `bun:"xp,notnull"`
	Level          int          `bun:"level,notnull"`
	CurrentStreak  int          `bun:"current_streak,notnull"`
	BestStreak     int          `bun:"best_streak,notnull"`
	TotalQuestions int          `bun:"total_questions,notnull"`
	CorrectAnswers int          `bun:"correct_answers,notnull"`
	WrongAnswers   int          `bun:"wrong_answers,notnull"`
	CreatedAt      time.Time    `bun:"created_at,notnull"`
	LastQuizAt     bun.NullTime `bun:"last_quiz_at"`
}

func (m *userModel) toDomain() domain.UserStats {
	return domain.UserStats{
		UserID:         m.UserID,
		Username:       m.Username,
		XP:             m.XP,
		Level:          m.Level,
		CurrentStreak:  m.CurrentStreak,
		BestStreak:     m.BestStreak,
		TotalQuestions: m.TotalQuestions,
		CorrectAnswers: m.CorrectAnswers,
		WrongAnswers:   m.WrongAnswers,
		CreatedAt:      m.CreatedAt,
		LastQuizAt:     m.LastQuizAt.Time,
	}
}

type historyModel struct {
	bun.BaseModel `bun:"table:quiz_history,alias:h"`

	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        string    `bun:"user_id,notnull"`
	SessionID     string    `bun:"session_id,notnull"`
	Language      string    `bun:"language,notnull"`
	Difficulty    string    `bun:"difficulty,notnull"`
	Question      string    `bun:"question,notnull"`
	CorrectAnswer string    `bun:"correct_answer,notnull"`
	UserAnswer    string    `bun:"user_answer,notnull"`
	IsCorrect     bool      `bun:"is_correct,notnull"`
	XPGained      int       `bun:"xp_gained,notnull"`
	AnsweredAt    time.Time `bun:"answered_at,notnull"`
}

func historyFromDomain(r domain.HistoryRecord) *historyModel {
	return &historyModel{
		UserID:        r.UserID,
		SessionID:     r.SessionID,
		Language:      r.Language,
		Difficulty:    r.Difficulty,
		Question:      r.Question,
		CorrectAnswer: r.CorrectAnswer,
		UserAnswer:    r.UserAnswer,
		IsCorrect:     r.IsCorrect,
		XPGained:      r.XPGained,
		AnsweredAt:    r.AnsweredAt,
	}
}

func (m *historyModel) toDomain() domain.HistoryRecord {
	return domain.HistoryRecord{
		UserID:        m.UserID,
		SessionID:     m.SessionID,
		Language:      m.Language,
		Difficulty:    m.Difficulty,
		Question:      m.Question,
		CorrectAnswer: m.CorrectAnswer,
		UserAnswer:    m.UserAnswer,
		IsCorrect:     m.IsCorrect,
		XPGained:      m.XPGained,
		AnsweredAt:    m.AnsweredAt,
	}
}

type achievementModel struct {
	bun.BaseModel `bun:"table:quiz_achievements,alias:a"`

	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        string    `bun:"user_id,notnull"`
	AchievementID string    `bun:"achievement_id,notnull"`
	UnlockedAt    time.Time `bun:"unlocked_at,notnull"`
}
