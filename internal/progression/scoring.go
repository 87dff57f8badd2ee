package progression

import (
	"math"
	"time"
)

// StreakTier grants Bonus XP once a streak reaches Threshold.
type StreakTier struct {
	Threshold int
	Bonus     int
}

// Policy is the XP reward policy.
type Policy struct {
	BaseXP            map[string]int
	DefaultDifficulty string
	MaxTimeBonus      int
	// TimeBonusStep is how long it takes to lose one point of time bonus.
	TimeBonusStep time.Duration
	StreakTiers   []StreakTier
}

// DefaultPolicy mirrors the reward table players are used to.
func DefaultPolicy() Policy {
	return Policy{
		BaseXP:            map[string]int{"easy": 10, "medium": 20, "hard": 30},
		DefaultDifficulty: "medium",
		MaxTimeBonus:      5,
		TimeBonusStep:     6 * time.Second,
		StreakTiers: []StreakTier{
			{Threshold: 3, Bonus: 5},
			{Threshold: 5, Bonus: 15},
			{Threshold: 10, Bonus: 50},
			{Threshold: 20, Bonus: 100},
		},
	}
}

// Award is the XP breakdown for one answer.
type Award struct {
	Base   int
	Time   int
	Streak int
}

// Total is the XP granted.
func (a Award) Total() int { return a.Base + a.Time + a.Streak }

// Scorer computes answer rewards. It is stateless.
type Scorer struct {
	policy Policy
}

func NewScorer(policy Policy) *Scorer {
	return &Scorer{policy: policy}
}

// BaseXP returns the per-difficulty reward; unknown tiers score as the default tier.
func (s *Scorer) BaseXP(difficulty string) int {
	if xp, ok := s.policy.BaseXP[difficulty]; ok {
		return xp
	}
	return s.policy.BaseXP[s.policy.DefaultDifficulty]
}

// TimeBonus decays linearly from MaxTimeBonus to 0 and never goes negative.
func (s *Scorer) TimeBonus(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	steps := float64(elapsed) / float64(s.policy.TimeBonusStep)
	bonus := int(math.Floor(float64(s.policy.MaxTimeBonus) - steps))
	if bonus < 0 {
		return 0
	}
	return bonus
}

// StreakBonus returns the bonus of the largest tier threshold not exceeding streak.
func (s *Scorer) StreakBonus(streak int) int {
	best := -1
	bonus := 0
	for _, tier := range s.policy.StreakTiers {
		if streak >= tier.Threshold && tier.Threshold > best {
			best = tier.Threshold
			bonus = tier.Bonus
		}
	}
	return bonus
}

// Score returns the reward for an answer. streakAfter is the streak including this answer.
func (s *Scorer) Score(difficulty string, elapsed time.Duration, streakAfter int, correct bool) Award {
	if !correct {
		return Award{}
	}
	return Award{
		Base:   s.BaseXP(difficulty),
		Time:   s.TimeBonus(elapsed),
		Streak: s.StreakBonus(streakAfter),
	}
}

// NextStreak is the streak after an answer.
func NextStreak(current int, correct bool) int {
	if correct {
		return current + 1
	}
	return 0
}
