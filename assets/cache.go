// Package assets serves the static front end through a versioned,
// cache-first store so that previously fetched pages stay available when
// the origin cannot be read.
package assets

import (
	"net/http"
	"slices"
	"sync"
)

// Entry is a cached response.
type Entry struct {
	Status int
	Header http.Header
	Body   []byte
}

func (e *Entry) clone() *Entry {
	return &Entry{
		Status: e.Status,
		Header: e.Header.Clone(),
		Body:   slices.Clone(e.Body),
	}
}

// Cache is one named set of entries keyed by request URI.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func newCache() *Cache {
	return &Cache{entries: make(map[string]*Entry)}
}

// Get returns a copy of the entry stored under key.
func (c *Cache) Get(key string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.clone(), true
}

// Put stores a copy of e under key.
func (c *Cache) Put(key string, e *Entry) {
	c.mu.Lock()
	c.entries[key] = e.clone()
	c.mu.Unlock()
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Storage holds the named caches in creation order.
type Storage struct {
	mu     sync.Mutex
	names  []string
	caches map[string]*Cache
}

// NewStorage returns an empty cache storage.
func NewStorage() *Storage {
	return &Storage{caches: make(map[string]*Cache)}
}

// Open returns the cache called name, creating it if needed.
func (s *Storage) Open(name string) *Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.caches[name]; ok {
		return c
	}
	c := newCache()
	s.caches[name] = c
	s.names = append(s.names, name)
	return c
}

// Names lists the caches in creation order.
func (s *Storage) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.names)
}

// Delete drops the cache called name and reports whether it existed.
func (s *Storage) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.caches[name]; !ok {
		return false
	}
	delete(s.caches, name)
	s.names = slices.DeleteFunc(s.names, func(n string) bool { return n == name })
	return true
}

// Match looks key up in every cache, oldest cache first.
func (s *Storage) Match(key string) (*Entry, bool) {
	s.mu.Lock()
	caches := make([]*Cache, 0, len(s.names))
	for _, n := range s.names {
		caches = append(caches, s.caches[n])
	}
	s.mu.Unlock()

	for _, c := range caches {
		if e, ok := c.Get(key); ok {
			return e, true
		}
	}
	return nil, false
}
