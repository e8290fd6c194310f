package scanner

import (
	"sync"
	"time"
)

// minCleanupInterval is the smallest allowed TTL to prevent degenerate
// ticker intervals.
const minCleanupInterval = time.Millisecond

// cacheEntry pairs a scan result with its last-use time.
type cacheEntry struct {
	result   *Result
	lastUsed time.Time
}

// Cache is a thread-safe scan-result cache with TTL eviction. The MCP
// server uses it so back-to-back tool calls against the same repository
// don't re-walk the tree on every request.
type Cache struct {
	mu      sync.RWMutex
	results map[string]*cacheEntry
	ttl     time.Duration
	done    chan struct{} // closed by Close() to stop the cleanup goroutine
}

// NewCache creates a Cache evicting results untouched for ttl. A background
// goroutine prunes expired entries; call Close() to stop it.
func NewCache(ttl time.Duration) *Cache {
	if ttl < minCleanupInterval {
		ttl = minCleanupInterval
	}
	c := &Cache{
		results: make(map[string]*cacheEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get returns the cached result for root, refreshing its last-use time.
func (c *Cache) Get(root string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.results[root]
	if !ok {
		return nil, false
	}
	entry.lastUsed = time.Now()
	return entry.result, true
}

// Put stores a scan result for root.
func (c *Cache) Put(root string, result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[root] = &cacheEntry{result: result, lastUsed: time.Now()}
}

// Invalidate removes any cached result for root.
func (c *Cache) Invalidate(root string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, root)
}

// Count returns the number of cached results.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

// Close stops the background cleanup goroutine. Safe to call multiple times.
func (c *Cache) Close() {
	select {
	case <-c.done:
		// already closed
	default:
		close(c.done)
	}
}

// cleanupLoop periodically removes entries that have exceeded the TTL.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			cutoff := time.Now().Add(-c.ttl)
			for root, entry := range c.results {
				if entry.lastUsed.Before(cutoff) {
					delete(c.results, root)
				}
			}
			c.mu.Unlock()
		}
	}
}
