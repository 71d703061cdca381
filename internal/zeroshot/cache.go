package zeroshot

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// cacheEntry represents a cached classification result.
type cacheEntry struct {
	expiry time.Time
	result Classification
}

// responseCache provides thread-safe caching for classification results.
type responseCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
}

// newResponseCache creates a new cache with the specified TTL.
func newResponseCache(ttl time.Duration) *responseCache {
	if ttl == 0 {
		ttl = 15 * time.Minute // Default TTL
	}

	cache := &responseCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	// Start cleanup goroutine
	go cache.cleanup()

	return cache
}

// cacheKey builds a stable key from the text and candidate labels.
func cacheKey(text string, labels []string) string {
	h := sha256.New()
	h.Write([]byte(text))
	for _, label := range labels {
		h.Write([]byte{0})
		h.Write([]byte(label))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// get retrieves a result from the cache if it exists and hasn't expired.
func (c *responseCache) get(key string) (Classification, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return Classification{}, false
	}

	if time.Now().After(entry.expiry) {
		return Classification{}, false
	}

	return entry.result, true
}

// set stores a result in the cache.
func (c *responseCache) set(key string, result Classification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		result: result,
		expiry: time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *responseCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// clear removes all entries from the cache.
func (c *responseCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// size returns the number of entries in the cache.
func (c *responseCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *responseCache) Close() {
	close(c.stopCh)
}
