// Package cache provides a bounded response cache keyed by normalized query
// text, avoiding redundant generation for repeated questions.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// DefaultMaxSize is the default entry bound.
const DefaultMaxSize = 50

// entry is a cached response with its insertion order. Entries are never
// mutated; eviction removes the smallest order value.
type entry struct {
	response string
	order    uint64
}

// ResponseCache is a FIFO-bounded cache: once full, the first-inserted entry
// is evicted regardless of how recently it was read. Insertion order is never
// refreshed on access — this is deliberately not an LRU.
type ResponseCache struct {
	mu      sync.Mutex
	entries map[string]entry
	maxSize int
	nextOrd uint64
}

// New creates a cache bounded to maxSize entries.
func New(maxSize int) *ResponseCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &ResponseCache{
		entries: make(map[string]entry),
		maxSize: maxSize,
	}
}

// Key derives the cache key from a query: lower-cased, surrounding whitespace
// stripped, then hashed. Queries differing only in case or surrounding
// whitespace map to the same key; paraphrases do not.
func Key(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Get looks up a prior response. It is a pure read: no eviction, no order
// refresh, no generation.
func (c *ResponseCache) Get(query string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[Key(query)]
	return e.response, ok
}

// Put stores a response under the normalized key, evicting the oldest entry
// when the cache is full. Re-putting an existing key overwrites in place and
// keeps its original insertion order.
func (c *ResponseCache) Put(query, response string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(query)
	if e, ok := c.entries[key]; ok {
		e.response = response
		c.entries[key] = e
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = entry{response: response, order: c.nextOrd}
	c.nextOrd++
}

// Clear removes all entries.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len returns the current number of entries.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldest removes the entry with the smallest insertion order.
// Caller holds the lock.
func (c *ResponseCache) evictOldest() {
	var oldestKey string
	first := true
	var oldest uint64
	for k, e := range c.entries {
		if first || e.order < oldest {
			oldest = e.order
			oldestKey = k
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
