package feed

import (
	"sync"
	"time"
)

// responseCache keeps fetched feed bodies for a short freshness window so
// repeated pipeline runs inside the window do not hit the network again.
// Entries are keyed by the configured feed URL, before the cache-defeat
// parameter is appended.
type responseCache struct {
	mu      sync.Mutex
	entries map[string]cachedResponse
	now     func() time.Time
}

type cachedResponse struct {
	body      []byte
	fetchedAt time.Time
}

func newResponseCache(now func() time.Time) *responseCache {
	if now == nil {
		now = time.Now
	}
	return &responseCache{
		entries: make(map[string]cachedResponse),
		now:     now,
	}
}

func (c *responseCache) Get(url string, ttl time.Duration) ([]byte, bool) {
	if ttl <= 0 {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[url]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) > ttl {
		delete(c.entries, url)
		return nil, false
	}
	return entry.body, true
}

func (c *responseCache) Set(url string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = cachedResponse{body: body, fetchedAt: c.now()}
}

func (c *responseCache) Invalidate(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
}
