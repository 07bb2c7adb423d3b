// Implements the short-lived response cache for the block source.

package source

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL keeps entries just long enough to absorb burst navigation
// while staying responsive to edits in Notion.
const DefaultTTL = 5 * time.Second

type cacheEntry[V any] struct {
	value    V
	storedAt time.Time
}

// ttlCache is a time-bounded response cache. The current time is passed
// in by the caller so tests can drive expiry without sleeping.
type ttlCache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry[V]
}

func newTTLCache[V any](ttl time.Duration) *ttlCache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ttlCache[V]{ttl: ttl, entries: make(map[string]cacheEntry[V])}
}

// get returns the cached value for key when it is younger than the TTL.
func (c *ttlCache[V]) get(key string, now time.Time) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || now.Sub(e.storedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// setTTL changes the expiry horizon. Existing entries age against the
// new value on the next get.
func (c *ttlCache[V]) setTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = ttl
}

// put stores value under key, overwriting any previous entry.
func (c *ttlCache[V]) put(key string, value V, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, storedAt: now}
}

// delete evicts one key.
func (c *ttlCache[V]) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// invalidateContaining evicts every key containing the given substring.
func (c *ttlCache[V]) invalidateContaining(sub string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.Contains(k, sub) {
			delete(c.entries, k)
		}
	}
}

// clear evicts everything.
func (c *ttlCache[V]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry[V])
}
