package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"lingo-quiz-service/internal/app"
	"lingo-quiz-service/internal/infra/translate"
)

// TranslationCache memoizes a Translator with a TTL. Concurrent misses for
// the same key share one upstream call.
type TranslationCache struct {
	upstream app.Translator
	ttl      time.Duration
	clock    func() time.Time
	sf       singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedTranslation
}

type cachedTranslation struct {
	text      string
	expiresAt time.Time
}

func NewTranslationCache(upstream app.Translator, ttl time.Duration) *TranslationCache {
	return &TranslationCache{
		upstream: upstream,
		ttl:      ttl,
		clock:    time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:    make(map[string]cachedTranslation),
	}
}

func (c *TranslationCache) lookup(key string, now time.Time) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[key]
	if !ok || !entry.expiresAt.After(now) {
		return "", false
	}
	return entry.text, true
}

func (c *TranslationCache) Translate(ctx context.Context, text, source, target string) (string, error) {
	key := translate.CacheKey(text, source, target)
	if out, ok := c.lookup(key, c.clock()); ok {
		return out, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		if out, ok := c.lookup(key, now); ok {
			return out, nil
		}

		out, err := c.upstream.Translate(ctx, text, source, target)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.cache[key] = cachedTranslation{
			text:      out,
			expiresAt: now.Add(c.ttlWithJitterLocked()),
		}
		c.mu.Unlock()
		return out, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *TranslationCache) ttlWithJitterLocked() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
