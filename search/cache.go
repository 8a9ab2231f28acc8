package search

import (
	"sync"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
)

// DefaultCacheCapacity is the number of filter results kept.
const DefaultCacheCapacity = 50

// ResultCache is a fixed-capacity map that evicts in insertion order. A hit
// does not refresh an entry's position.
type ResultCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string][]entities.Condition
	order    []string
}

// NewResultCache creates a cache; a capacity below 1 falls back to the default.
func NewResultCache(capacity int) *ResultCache {
	if capacity < 1 {
		capacity = DefaultCacheCapacity
	}
	return &ResultCache{
		capacity: capacity,
		entries:  make(map[string][]entities.Condition, capacity),
		order:    make([]string, 0, capacity),
	}
}

// Get returns the cached result for key.
func (rc *ResultCache) Get(key string) ([]entities.Condition, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	v, ok := rc.entries[key]
	return v, ok
}

// Put stores value under key and evicts the single oldest entry once the
// cache holds more than its capacity. Re-putting a key replaces its value in
// place.
func (rc *ResultCache) Put(key string, value []entities.Condition) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if _, exists := rc.entries[key]; exists {
		rc.entries[key] = value
		return
	}
	rc.entries[key] = value
	rc.order = append(rc.order, key)
	if len(rc.order) > rc.capacity {
		oldest := rc.order[0]
		rc.order = rc.order[1:]
		delete(rc.entries, oldest)
	}
}

// Len returns the number of cached results.
func (rc *ResultCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.order)
}

// Keys returns the cached keys, oldest first.
func (rc *ResultCache) Keys() []string {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return append([]string{}, rc.order...)
}

// Purge drops every entry.
func (rc *ResultCache) Purge() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.entries = make(map[string][]entities.Condition, rc.capacity)
	rc.order = rc.order[:0]
}
