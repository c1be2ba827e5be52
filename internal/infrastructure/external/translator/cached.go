package translator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/cache"
)

// cacheTTL bounds how long a translated string is reused. Agenda titles
// repeat verbatim across summaries and meetings, so hits are common.
const cacheTTL = 24 * time.Hour

type cachedClient struct {
	inner Client
	store *cache.MemoryStore
}

// NewCachedClient wraps a translator client with an in-memory cache keyed
// by text and language pair.
func NewCachedClient(inner Client, store *cache.MemoryStore) Client {
	return &cachedClient{
		inner: inner,
		store: store,
	}
}

func (c *cachedClient) Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	key := cacheKey(text, sourceLanguage, targetLanguage)
	if translated, ok := c.store.Get(key); ok {
		return translated, nil
	}

	translated, err := c.inner.Translate(ctx, text, sourceLanguage, targetLanguage)
	if err != nil {
		return "", err
	}

	c.store.Set(key, translated, cacheTTL)
	return translated, nil
}

func cacheKey(text, sourceLanguage, targetLanguage string) string {
	sum := sha256.Sum256([]byte(sourceLanguage + "\x00" + targetLanguage + "\x00" + text))
	return "translate:" + hex.EncodeToString(sum[:])
}
