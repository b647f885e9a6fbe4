package ufa

import (
	"sync"
	"time"

	"github.com/okian/passnet/pkg/metrics"
)

type cacheEntry struct {
	body []byte
	at   time.Time
}

// responseCache keeps raw response bodies per request URL.
type responseCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func newResponseCache() *responseCache {
	return &responseCache{entries: make(map[string]cacheEntry), now: time.Now}
}

func (c *responseCache) get(key string, ttl time.Duration) ([]byte, bool) {
	if ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		metrics.RecordCacheMiss()
		return nil, false
	}
	if c.now().Sub(ent.at) >= ttl {
		delete(c.entries, key)
		metrics.RecordCacheMiss()
		return nil, false
	}
	metrics.RecordCacheHit()
	return ent.body, true
}

func (c *responseCache) put(key string, body []byte) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{body: body, at: c.now()}
	c.mu.Unlock()
}

func (c *responseCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
