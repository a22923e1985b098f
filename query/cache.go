package query

import (
	"encoding/hex"
	"strings"
	"sync"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/bracee/core"
)

const defaultCacheCapacity = 1024

// InterpretationCache memoizes successful interpretations keyed by the
// normalized form of the raw query text. Entries are treated as immutable:
// callers get the cached pointer and must not mutate it.
type InterpretationCache struct {
	mu       sync.RWMutex
	entries  map[string]*core.Interpretation
	order    []string
	capacity int
}

// NewInterpretationCache creates a cache holding up to capacity entries.
// Non-positive capacities fall back to the default.
func NewInterpretationCache(capacity int) *InterpretationCache {
	if capacity < 1 {
		capacity = defaultCacheCapacity
	}
	return &InterpretationCache{
		entries:  make(map[string]*core.Interpretation),
		capacity: capacity,
	}
}

// cacheKey derives the lookup key for a raw query. Case and surrounding
// whitespace don't change what a query means, so they don't change its key.
func cacheKey(raw string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(strings.ToLower(strings.TrimSpace(raw))))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached interpretation for the query, if present.
func (c *InterpretationCache) Get(raw string) (*core.Interpretation, bool) {
	key := cacheKey(raw)
	c.mu.RLock()
	defer c.mu.RUnlock()
	in, ok := c.entries[key]
	return in, ok
}

// Put stores an interpretation. When the cache is full, the oldest half of
// the entries is evicted in one sweep; interpretations are cheap to rebuild
// and this keeps eviction bookkeeping trivial.
func (c *InterpretationCache) Put(raw string, in *core.Interpretation) {
	key := cacheKey(raw)
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = in
		return
	}

	if len(c.entries) >= c.capacity {
		half := len(c.order) / 2
		for _, k := range c.order[:half] {
			delete(c.entries, k)
		}
		c.order = append(c.order[:0], c.order[half:]...)
	}

	c.entries[key] = in
	c.order = append(c.order, key)
}

// Len returns the number of cached interpretations.
func (c *InterpretationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every cached interpretation.
func (c *InterpretationCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*core.Interpretation)
	c.order = nil
}
