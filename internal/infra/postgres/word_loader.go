package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"lingo-quiz-service/internal/vocab"
)

// WordLoader reads the quiz vocabulary from the vocabulary_words table.
type WordLoader struct {
	pool *pgxpool.Pool
}

func NewWordLoader(pool *pgxpool.Pool) *WordLoader {
	return &WordLoader{pool: pool}
}

// LoadCorpus returns the stored vocabulary, or the built-in corpus when the
// table is empty.
func (l *WordLoader) LoadCorpus(ctx context.Context) (vocab.Corpus, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT difficulty, category, word FROM vocabulary_words ORDER BY difficulty, category, position, id`)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	defer rows.Close()

	corpus := make(vocab.Corpus)
	for rows.Next() {
		var difficulty, category, word string
		if err := rows.Scan(&difficulty, &category, &word); err != nil {
			return nil, fmt.Errorf("scan vocabulary: %w", err)
		}
		if corpus[difficulty] == nil {
			corpus[difficulty] = make(map[string][]string)
		}
		corpus[difficulty][category] = append(corpus[difficulty][category], word)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vocabulary: %w", err)
	}
	if len(corpus) == 0 {
		return vocab.DefaultCorpus(), nil
	}
	return corpus, nil
}
