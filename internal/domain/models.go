package domain

import "time"

// Mode selects who may answer a quiz session.
type Mode string

const (
	ModeSolo        Mode = "solo"
	ModeMultiplayer Mode = "multiplayer"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeSolo || m == ModeMultiplayer
}

// SessionState is the lifecycle state of a quiz session.
type SessionState string

const (
	StateOpen     SessionState = "open"
	StateResolved SessionState = "resolved"
	StateExpired  SessionState = "expired"
	// StateClosed is used when the manager shuts down with the session still open.
	StateClosed SessionState = "closed"
)

// SortKey selects the leaderboard ordering column.
type SortKey string

const (
	SortByXP     SortKey = "xp"
	SortByStreak SortKey = "streak"
)

// ParseSortKey maps free-form input onto a sort key, defaulting to XP.
func ParseSortKey(raw string) SortKey {
	if SortKey(raw) == SortByStreak {
		return SortByStreak
	}
	return SortByXP
}

// UserStats is the persisted progression state of a single user.
type UserStats struct {
	UserID         string    `json:"userId"`
	Username       string    `json:"username"`
	XP             int       `json:"xp"`
	Level          int       `json:"level"`
	CurrentStreak  int       `json:"currentStreak"`
	BestStreak     int       `json:"bestStreak"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	WrongAnswers   int       `json:"wrongAnswers"`
	CreatedAt      time.Time `json:"createdAt"`
	LastQuizAt     time.Time `json:"lastQuizAt,omitempty"`
}

// Accuracy returns the percentage of correct answers rounded to one decimal.
func (s UserStats) Accuracy() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	pct := float64(s.CorrectAnswers) / float64(s.TotalQuestions) * 100
	return float64(int(pct*10+0.5)) / 10
}

// StatsUpdate is the result of one atomic record-answer operation.
type StatsUpdate struct {
	Before    UserStats
	After     UserStats
	XPAwarded int
}

// LevelUp reports whether the update crossed a level threshold.
func (u StatsUpdate) LevelUp() bool {
	return u.After.Level > u.Before.Level
}

// HistoryRecord is one appended quiz attempt.
type HistoryRecord struct {
	UserID        string    `json:"userId"`
	SessionID     string    `json:"sessionId"`
	Language      string    `json:"language"`
	Difficulty    string    `json:"difficulty"`
	Question      string    `json:"question"`
	CorrectAnswer string    `json:"correctAnswer"`
	UserAnswer    string    `json:"userAnswer"`
	IsCorrect     bool      `json:"isCorrect"`
	XPGained      int       `json:"xpGained"`
	AnsweredAt    time.Time `json:"answeredAt"`
}

// AnswerRecord is the in-session record of a user's answer. Immutable once written.
type AnswerRecord struct {
	UserID         string    `json:"userId"`
	SelectedIndex  int       `json:"selectedIndex"`
	IsCorrect      bool      `json:"isCorrect"`
	ElapsedSeconds float64   `json:"elapsedSeconds"`
	XPAwarded      int       `json:"xpAwarded"`
	AnsweredAt     time.Time `json:"answeredAt"`
}

// AchievementUnlock records that a user earned an achievement.
type AchievementUnlock struct {
	UserID        string    `json:"userId"`
	AchievementID string    `json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
}

// Achievement is a presentation-facing achievement (id plus display name).
type Achievement struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LevelProgress describes the distance to the next level.
type LevelProgress struct {
	Level         int  `json:"level"`
	NextThreshold int  `json:"nextThreshold,omitempty"`
	XPNeeded      int  `json:"xpNeeded,omitempty"`
	HasNext       bool `json:"hasNext"`
}

// SessionHandle is what the presentation layer sees of a started session.
// The correct option index is deliberately absent.
type SessionHandle struct {
	SessionID  string    `json:"sessionId"`
	Mode       Mode      `json:"mode"`
	Difficulty string    `json:"difficulty"`
	Language   string    `json:"language"`
	Word       string    `json:"word"`
	Category   string    `json:"category"`
	Options    []string  `json:"options"`
	BaseXP     int       `json:"baseXp"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// AnswerOutcome summarizes a successful submission for rendering.
type AnswerOutcome struct {
	SessionID       string        `json:"sessionId"`
	IsCorrect       bool          `json:"isCorrect"`
	CorrectIndex    int           `json:"correctIndex"`
	CorrectAnswer   string        `json:"correctAnswer"`
	XPAwarded       int           `json:"xpAwarded"`
	TimeBonus       int           `json:"timeBonus"`
	StreakBonus     int           `json:"streakBonus"`
	PreviousStreak  int           `json:"previousStreak"`
	NewStreak       int           `json:"newStreak"`
	NewXP           int           `json:"newXp"`
	OldLevel        int           `json:"oldLevel"`
	NewLevel        int           `json:"newLevel"`
	LevelUp         bool          `json:"levelUp"`
	NewAchievements []Achievement `json:"newAchievements"`
	Progress        LevelProgress `json:"progress"`
}

// LeaderboardEntry is one ranked row of the global leaderboard.
type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	XP             int    `json:"xp"`
	Level          int    `json:"level"`
	BestStreak     int    `json:"bestStreak"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
}

// Profile aggregates everything shown on a user's profile card.
type Profile struct {
	Stats         UserStats       `json:"stats"`
	Rank          int             `json:"rank"`
	Accuracy      float64         `json:"accuracy"`
	Achievements  []Achievement   `json:"achievements"`
	Progress      LevelProgress   `json:"progress"`
	RecentHistory []HistoryRecord `json:"recentHistory"`
}

// SessionEventType distinguishes session notifications.
type SessionEventType string

const (
	EventAnswered SessionEventType = "answered"
	EventClosed   SessionEventType = "closed"
)

// SessionEvent is pushed to session watchers.
type SessionEvent struct {
	Type          SessionEventType `json:"type"`
	SessionID     string           `json:"sessionId"`
	State         SessionState     `json:"state"`
	Answer        *AnswerRecord    `json:"answer,omitempty"`
	CorrectAnswer string           `json:"correctAnswer,omitempty"`
	Participants  []AnswerRecord   `json:"participants,omitempty"`
	At            time.Time        `json:"at"`
}
