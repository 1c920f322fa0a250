package catalog

import (
	"sync"
	"time"
)

type cacheEntry struct {
	body    []byte
	expires time.Time
}

// ResponseCache keeps raw upstream bodies for a short revalidation window so
// that the layout, home page and proxy do not hit the upstream repeatedly.
type ResponseCache struct {
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	data       map[string]cacheEntry
	now        func() time.Time
}

// NewResponseCache creates a cache; a non-positive ttl returns nil, which
// disables caching.
func NewResponseCache(ttl time.Duration, maxEntries int) *ResponseCache {
	if ttl <= 0 {
		return nil
	}
	if maxEntries <= 0 {
		maxEntries = 512
	}
	return &ResponseCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		data:       make(map[string]cacheEntry),
		now:        time.Now,
	}
}

// Get retrieves a fresh cached body
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.data[key]
	if !ok || c.now().After(entry.expires) {
		return nil, false
	}
	return entry.body, true
}

// Set stores a body
func (c *ResponseCache) Set(key string, body []byte) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if len(c.data) >= c.maxEntries {
		for k, entry := range c.data {
			if now.After(entry.expires) {
				delete(c.data, k)
			}
		}
		// still full: drop an arbitrary entry
		if len(c.data) >= c.maxEntries {
			for k := range c.data {
				delete(c.data, k)
				break
			}
		}
	}
	c.data[key] = cacheEntry{body: body, expires: now.Add(c.ttl)}
}

// Len returns the number of stored entries, fresh or not
func (c *ResponseCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
