package redis

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"lingo-quiz-service/internal/app"
	"lingo-quiz-service/internal/infra/translate"
)

// TranslationCache memoizes translations in Redis under
// translate:{md5(text)[:16]}:{source}:{target} and falls back to the upstream
// provider on a miss. Cache failures degrade to upstream calls.
type TranslationCache struct {
	client   *redis.Client
	upstream app.Translator
	ttl      time.Duration
	sf       singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewTranslationCache(client *redis.Client, upstream app.Translator, ttl time.Duration) *TranslationCache {
	return &TranslationCache{
		client:   client,
		upstream: upstream,
		ttl:      ttl,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *TranslationCache) Translate(ctx context.Context, text, source, target string) (string, error) {
	key := translate.CacheKey(text, source, target)
	if out, err := c.client.Get(ctx, key).Result(); err == nil {
		return out, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another instance filled it.
		if out, err := c.client.Get(ctx, key).Result(); err == nil {
			return out, nil
		}

		out, err := c.upstream.Translate(ctx, text, source, target)
		if err != nil {
			return "", err
		}
		_ = c.client.Set(ctx, key, out, c.ttlWithJitter()).Err()
		return out, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *TranslationCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
