package progression

import (
	"context"
	"log/slog"

	"lingo-quiz-service/internal/domain"
)

// AchievementRule unlocks an achievement once Predicate holds for a user's stats.
type AchievementRule struct {
	ID        string
	Name      string
	Predicate func(domain.UserStats) bool
}

func totalAtLeast(n int) func(domain.UserStats) bool {
	return func(s domain.UserStats) bool { return s.TotalQuestions >= n }
}

func bestStreakAtLeast(n int) func(domain.UserStats) bool {
	return func(s domain.UserStats) bool { return s.BestStreak >= n }
}

func levelAtLeast(n int) func(domain.UserStats) bool {
	return func(s domain.UserStats) bool { return s.Level >= n }
}

// DefaultRules is evaluated in declaration order.
func DefaultRules() []AchievementRule {
	return []AchievementRule{
		{ID: "first_quiz", Name: "🎯 First Steps", Predicate: totalAtLeast(1)},
		{ID: "10_quizzes", Name: "📚 Dedicated Learner", Predicate: totalAtLeast(10)},
		{ID: "50_quizzes", Name: "🎓 Quiz Master", Predicate: totalAtLeast(50)},
		{ID: "100_quizzes", Name: "🏆 Century Club", Predicate: totalAtLeast(100)},
		{ID: "streak_5", Name: "🔥 Hot Streak", Predicate: bestStreakAtLeast(5)},
		{ID: "streak_10", Name: "⚡ Lightning Round", Predicate: bestStreakAtLeast(10)},
		{ID: "streak_20", Name: "💫 Unstoppable", Predicate: bestStreakAtLeast(20)},
		{ID: "level_5", Name: "⭐ Rising Star", Predicate: levelAtLeast(5)},
		{ID: "level_10", Name: "🌟 Expert", Predicate: levelAtLeast(10)},
		{ID: "level_20", Name: "👑 Legend", Predicate: levelAtLeast(20)},
		{ID: "perfect_10", Name: "💯 Perfectionist", Predicate: func(s domain.UserStats) bool {
			return s.CorrectAnswers >= 10 && s.CorrectAnswers == s.TotalQuestions
		}},
	}
}

// Unlocker records unlocks. TryUnlock reports true only for a newly created unlock.
type Unlocker interface {
	TryUnlockAchievement(ctx context.Context, userID, achievementID string) (bool, error)
}

// Evaluator runs the rule table against fresh stats.
type Evaluator struct {
	rules    []AchievementRule
	byID     map[string]AchievementRule
	unlocker Unlocker
	log      *slog.Logger
}

func NewEvaluator(rules []AchievementRule, unlocker Unlocker, log *slog.Logger) *Evaluator {
	if log == nil {
		log = slog.Default()
	}
	byID := make(map[string]AchievementRule, len(rules))
	for _, r := range rules {
		byID[r.ID] = r
	}
	return &Evaluator{rules: rules, byID: byID, unlocker: unlocker, log: log}
}

// Evaluate unlocks every satisfied rule and returns the newly unlocked ones in rule order.
// Unlock failures are logged and skipped; the remaining rules are still attempted.
func (e *Evaluator) Evaluate(ctx context.Context, userID string, stats domain.UserStats) []domain.Achievement {
	var unlocked []domain.Achievement
	for _, rule := range e.rules {
		if !rule.Predicate(stats) {
			continue
		}
		created, err := e.unlocker.TryUnlockAchievement(ctx, userID, rule.ID)
		if err != nil {
			e.log.Warn("achievement unlock failed", "user_id", userID, "achievement", rule.ID, "error", err)
			continue
		}
		if created {
			unlocked = append(unlocked, domain.Achievement{ID: rule.ID, Name: rule.Name})
		}
	}
	return unlocked
}

// Lookup maps a stored achievement id to its display form.
func (e *Evaluator) Lookup(id string) domain.Achievement {
	if r, ok := e.byID[id]; ok {
		return domain.Achievement{ID: r.ID, Name: r.Name}
	}
	return domain.Achievement{ID: id, Name: id}
}
