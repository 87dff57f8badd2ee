// Package progression holds the XP, level and achievement policy.
package progression

import (
	"fmt"
	"sort"

	"lingo-quiz-service/internal/domain"
)

// DefaultThresholds is the XP required for levels 1..20.
var DefaultThresholds = []int{
	0, 100, 250, 500, 1000, 2000, 3500, 5500, 8000, 11000,
	15000, 20000, 26000, 33000, 41000, 50000, 60000, 71000, 83000, 100000,
}

// LevelTable converts XP to levels. Index i holds the threshold of level i+1.
type LevelTable struct {
	thresholds []int
}

// NewLevelTable validates that thresholds start at 0 and strictly increase.
func NewLevelTable(thresholds []int) (*LevelTable, error) {
	if len(thresholds) == 0 || thresholds[0] != 0 {
		return nil, fmt.Errorf("level table: level 1 threshold must be 0")
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] <= thresholds[i-1] {
			return nil, fmt.Errorf("level table: threshold for level %d must exceed level %d", i+1, i)
		}
	}
	return &LevelTable{thresholds: append([]int(nil), thresholds...)}, nil
}

// DefaultLevelTable returns the built-in 20 level table.
func DefaultLevelTable() *LevelTable {
	t, err := NewLevelTable(DefaultThresholds)
	if err != nil {
		panic(err)
	}
	return t
}

// MaxLevel is the highest defined level.
func (t *LevelTable) MaxLevel() int { return len(t.thresholds) }

// Threshold returns the XP needed for level, or false if level is undefined.
func (t *LevelTable) Threshold(level int) (int, bool) {
	if level < 1 || level > len(t.thresholds) {
		return 0, false
	}
	return t.thresholds[level-1], true
}

// LevelFor returns the highest level whose threshold is at most xp.
func (t *LevelTable) LevelFor(xp int) int {
	// first index with threshold > xp; that count of thresholds <= xp is the level
	n := sort.Search(len(t.thresholds), func(i int) bool { return t.thresholds[i] > xp })
	if n < 1 {
		return 1
	}
	return n
}

// NextLevelInfo reports the current level and the XP left to reach the next one.
func (t *LevelTable) NextLevelInfo(xp int) domain.LevelProgress {
	level := t.LevelFor(xp)
	next, ok := t.Threshold(level + 1)
	if !ok {
		return domain.LevelProgress{Level: level}
	}
	return domain.LevelProgress{
		Level:         level,
		NextThreshold: next,
		XPNeeded:      next - xp,
		HasNext:       true,
	}
}
