// Package cache is a small in-process key/value store with per-entry expiry.
// Construct one per process and hand it to whoever needs it.
package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL applies when New is given a non-positive ttl.
const DefaultTTL = 30 * time.Second

// Clock abstracts time for expiry checks.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is safe for concurrent use. Expired entries are invisible to Get
// and are dropped lazily or by Purge.
type Cache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   Clock
	entries map[string]entry[V]
}

func New[V any](ttl time.Duration, clock Clock) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Cache[V]{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]entry[V]),
	}
}

// TTL returns the default lifetime of new entries.
func (c *Cache[V]) TTL() time.Duration { return c.ttl }

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value for ttl; a non-positive ttl uses the cache default.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.clock.Now().Add(ttl)}
}

// Invalidate removes key and reports whether it was present and live.
func (c *Cache[V]) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	delete(c.entries, key)
	return c.clock.Now().Before(e.expiresAt)
}

// InvalidatePrefix removes every key starting with prefix and returns how many were removed.
func (c *Cache[V]) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len counts live entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	n := 0
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// Purge drops expired entries and returns how many were dropped.
func (c *Cache[V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	n := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}
