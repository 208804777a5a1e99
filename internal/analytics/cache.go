// Package analytics derives statistics, rankings and chart-ready transforms
// from simulator snapshots. Results are cached for a short TTL keyed by the
// computation name plus a digest of its arguments.
package analytics

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// DefaultTTL is the cache window used when a service is built with no TTL.
const DefaultTTL = 5 * time.Second

type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// Cache is a thread-safe in-memory result cache with TTL expiry. Entries are
// evicted lazily on read and wholesale via Clear; there is no background
// sweeper since the working set is a handful of computation keys.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache. A non-positive ttl falls back to DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and unexpired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.data, true
}

// Set stores a value under key for the cache's TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{data: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Delete evicts a single key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear evicts everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cacheKey builds a stable key from the computation name and its arguments.
// Arguments are serialized to JSON and digested so large slices do not bloat
// the key space.
func cacheKey(method string, args ...interface{}) string {
	h := sha256.New()
	for _, arg := range args {
		b, err := json.Marshal(arg)
		if err != nil {
			b = []byte(fmt.Sprintf("%v", arg))
		}
		h.Write(b)
	}
	return fmt.Sprintf("%s:%x", method, h.Sum(nil)[:16])
}
