package vocab

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomWordUnknownDifficultyMatchesMedium(t *testing.T) {
	expert := NewBankWithSource(DefaultCorpus(), rand.NewSource(42))
	medium := NewBankWithSource(DefaultCorpus(), rand.NewSource(42))

	for i := 0; i < 50; i++ {
		w1, c1 := expert.RandomWord("expert")
		w2, c2 := medium.RandomWord("medium")
		require.Equal(t, w2, w1)
		require.Equal(t, c2, c1)
	}
}

func TestRandomWordBelongsToCategory(t *testing.T) {
	corpus := DefaultCorpus()
	bank := NewBankWithSource(corpus, rand.NewSource(7))

	for _, difficulty := range bank.Difficulties() {
		for i := 0; i < 20; i++ {
			word, category := bank.RandomWord(difficulty)
			assert.Contains(t, corpus[difficulty][category], word)
		}
	}
}

func TestDistractorsExcludeTargetAndAreDistinct(t *testing.T) {
	corpus := DefaultCorpus()
	bank := NewBankWithSource(corpus, rand.NewSource(1))

	easy := map[string]bool{}
	for _, words := range corpus["easy"] {
		for _, w := range words {
			easy[w] = true
		}
	}

	for i := 0; i < 200; i++ {
		got := bank.Distractors("easy", "Hello", 3)
		require.Len(t, got, 3)
		seen := map[string]bool{}
		for _, w := range got {
			assert.NotEqual(t, "Hello", w)
			assert.True(t, easy[w], "word %q not in easy tier", w)
			assert.False(t, seen[w], "duplicate distractor %q", w)
			seen[w] = true
		}
	}
}

func TestDistractorsShortPoolReturnsAll(t *testing.T) {
	bank := NewBankWithSource(Corpus{
		"medium": {"a": {"One", "Two"}, "b": {"Two", "Three"}},
	}, rand.NewSource(3))

	got := bank.Distractors("medium", "One", 5)
	assert.ElementsMatch(t, []string{"Two", "Three"}, got)
	assert.Empty(t, bank.Distractors("medium", "One", 0))
}

func TestNormalize(t *testing.T) {
	bank := NewBank(DefaultCorpus())
	assert.Equal(t, "hard", bank.Normalize("hard"))
	assert.Equal(t, "medium", bank.Normalize("expert"))
	assert.Equal(t, []string{"easy", "hard", "medium"}, bank.Difficulties())
}
