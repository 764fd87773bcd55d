// Package cache implements the TTL response cache fronting provider calls.
//
// Two deployment scopes share one engine: a process-scoped instance the
// hosting application constructs once and threads through calls, and a
// session-scoped instance acquired idempotently from a session object and
// cleared when that session ends. There is no package-level default cache;
// callers that want caching create an instance and pass it.
//
// Expiry is lazy: a Get whose entry has outlived the TTL behaves exactly
// like a missing key, but the stale entry stays in the map until the next
// Set overwrites it or Clear removes everything.
package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Entry is one cached value with its creation timestamp. Entries are owned
// by their cache; external code only ever sees the value string.
type Entry struct {
	Value     string
	CreatedAt time.Time
}

// Stats is an observability snapshot. Oldest is the zero time when the
// cache holds no entries. Hit/miss counters inform statistics only, never
// correctness.
type Stats struct {
	Entries int
	TTL     time.Duration
	Hits    uint64
	Misses  uint64
	Oldest  time.Time
}

// Cache is a mutex-guarded key/value store with TTL expiry. Keys are the
// opaque fixed-width strings produced by GenerateKey.
type Cache struct {
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration
	hits    uint64
	misses  uint64
}

// New creates a cache with the given TTL. A non-positive TTL falls back to
// one hour.
func New(ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		logger:  logger,
		entries: make(map[string]Entry),
		ttl:     ttl,
	}
}

// Get returns the value stored under key if its age is within the TTL. A
// stale entry counts as a miss and is left in place (lazy expiry).
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || time.Since(entry.CreatedAt) > c.ttl {
		c.misses++
		return "", false
	}
	c.hits++
	return entry.Value, true
}

// Set stores value under key, unconditionally overwriting any existing
// entry with a fresh timestamp.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{Value: value, CreatedAt: time.Now()}
	c.logger.Debug("cache set", zap.String("key", key))
}

// Clear removes every entry and returns the number removed.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]Entry)
	if n > 0 {
		c.logger.Debug("cache cleared", zap.Int("removed", n))
	}
	return n
}

// Stats returns a snapshot of the cache contents and counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Stats{
		Entries: len(c.entries),
		TTL:     c.ttl,
		Hits:    c.hits,
		Misses:  c.misses,
	}
	for _, entry := range c.entries {
		if st.Oldest.IsZero() || entry.CreatedAt.Before(st.Oldest) {
			st.Oldest = entry.CreatedAt
		}
	}
	return st
}
