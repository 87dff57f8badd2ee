// Package vocab holds the quiz word corpus and draws questions from it.
package vocab

import (
	"math/rand"
	"sort"
	"sync"
	"time"
)

// DefaultDifficulty is used for any difficulty the corpus does not know.
const DefaultDifficulty = "medium"

// Corpus maps difficulty -> category -> words.
type Corpus map[string]map[string][]string

type tier struct {
	categories []string
	words      map[string][]string
	pool       []string // distinct words across all categories, first-seen order
}

// Bank draws target words and distractors. Safe for concurrent use.
type Bank struct {
	tiers map[string]tier

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewBank builds a bank over corpus with a time-seeded source.
func NewBank(corpus Corpus) *Bank {
	return NewBankWithSource(corpus, rand.NewSource(time.Now().UnixNano()))
}

// NewBankWithSource is used by tests that need deterministic draws.
func NewBankWithSource(corpus Corpus, src rand.Source) *Bank {
	b := &Bank{
		tiers: make(map[string]tier, len(corpus)),
		rnd:   rand.New(src),
	}
	for difficulty, categories := range corpus {
		t := tier{words: make(map[string][]string, len(categories))}
		seen := make(map[string]struct{})
		for category, words := range categories {
			if len(words) == 0 {
				continue
			}
			t.categories = append(t.categories, category)
			t.words[category] = append([]string(nil), words...)
		}
		sort.Strings(t.categories)
		for _, category := range t.categories {
			for _, w := range t.words[category] {
				if _, dup := seen[w]; dup {
					continue
				}
				seen[w] = struct{}{}
				t.pool = append(t.pool, w)
			}
		}
		if len(t.categories) > 0 {
			b.tiers[difficulty] = t
		}
	}
	return b
}

// Normalize maps an unknown difficulty onto DefaultDifficulty.
func (b *Bank) Normalize(difficulty string) string {
	if _, ok := b.tiers[difficulty]; ok {
		return difficulty
	}
	return DefaultDifficulty
}

// Difficulties lists the known tiers in sorted order.
func (b *Bank) Difficulties() []string {
	out := make([]string, 0, len(b.tiers))
	for d := range b.tiers {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// RandomWord picks a category uniformly, then a word uniformly within it.
func (b *Bank) RandomWord(difficulty string) (word, category string) {
	t, ok := b.tiers[b.Normalize(difficulty)]
	if !ok {
		return "", ""
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	category = t.categories[b.rnd.Intn(len(t.categories))]
	words := t.words[category]
	return words[b.rnd.Intn(len(words))], category
}

// Distractors samples up to count distinct words of the tier, never returning exclude.
// A short pool yields every available word instead of an error.
func (b *Bank) Distractors(difficulty, exclude string, count int) []string {
	t, ok := b.tiers[b.Normalize(difficulty)]
	if !ok || count <= 0 {
		return nil
	}
	pool := make([]string, 0, len(t.pool))
	for _, w := range t.pool {
		if w != exclude {
			pool = append(pool, w)
		}
	}
	if count > len(pool) {
		count = len(pool)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	// partial Fisher-Yates: the first count slots are a uniform sample
	for i := 0; i < count; i++ {
		j := i + b.rnd.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:count]
}

// Shuffle permutes n items uniformly using the bank's source.
func (b *Bank) Shuffle(n int, swap func(i, j int)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rnd.Shuffle(n, swap)
}
