package migrations

import (
	"context"
	"database/sql"
	"sort"

	"github.com/uptrace/bun"

	"lingo-quiz-service/internal/vocab"
)

type vocabularyWord struct {
	bun.BaseModel `bun:"table:vocabulary_words,alias:v"`

	ID         int64  `bun:"id,pk,autoincrement"`
	Difficulty string `bun:"difficulty,notnull"`
	Category   string `bun:"category,notnull"`
	Word       string `bun:"word,notnull"`
	Position   int    `bun:"position,notnull"`
}

func defaultWords() []vocabularyWord {
	corpus := vocab.DefaultCorpus()
	difficulties := make([]string, 0, len(corpus))
	for d := range corpus {
		difficulties = append(difficulties, d)
	}
	sort.Strings(difficulties)

	var words []vocabularyWord
	for _, d := range difficulties {
		categories := make([]string, 0, len(corpus[d]))
		for c := range corpus[d] {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			for i, w := range corpus[d][c] {
				words = append(words, vocabularyWord{Difficulty: d, Category: c, Word: w, Position: i})
			}
		}
	}
	return words
}

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			words := defaultWords()
			return db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
				_, err := tx.NewInsert().
					Model(&words).
					On("CONFLICT (difficulty, category, word) DO NOTHING").
					Returning("NULL").
					Exec(ctx)
				return err
			})
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewTruncateTable().Model((*vocabularyWord)(nil)).Exec(ctx)
			return err
		},
	)
}
