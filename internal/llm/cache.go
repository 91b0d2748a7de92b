package llm

import (
	"sync"
	"time"
)

// cacheEntry represents a cached classification.
type cacheEntry struct {
	expiry   time.Time
	category string
}

// resultCache provides thread-safe caching of remote classifications.
// Expired entries are dropped on read and swept on write.
type resultCache struct {
	entries   map[string]cacheEntry
	now       func() time.Time
	ttl       time.Duration
	lastSweep time.Time
	mu        sync.RWMutex
}

// newResultCache creates a new cache with the specified TTL.
func newResultCache(ttl time.Duration) *resultCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	return &resultCache{
		entries:   make(map[string]cacheEntry),
		ttl:       ttl,
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

// get retrieves a category from the cache if it exists and hasn't expired.
func (c *resultCache) get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || c.now().After(entry.expiry) {
		return "", false
	}

	return entry.category, true
}

// set stores a category in the cache.
func (c *resultCache) set(key, category string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) > c.ttl {
		for k, entry := range c.entries {
			if now.After(entry.expiry) {
				delete(c.entries, k)
			}
		}
		c.lastSweep = now
	}

	c.entries[key] = cacheEntry{
		category: category,
		expiry:   now.Add(c.ttl),
	}
}

// size returns the number of entries in the cache.
func (c *resultCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
