package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value  T
	expiry time.Time
}

// Cache is a TTL map for reference data fetched from external APIs
// (countries, airports). The optional clone hook prevents callers from
// mutating shared slices.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	clone   func(T) T
}

func New[T any](clone func(T) T) *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]entry[T]),
		clone:   clone,
	}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	if time.Now().After(e.expiry) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		var zero T
		return zero, false
	}
	if c.clone != nil {
		return c.clone(e.value), true
	}
	return e.value, true
}

func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	if c.clone != nil {
		value = c.clone(value)
	}
	c.mu.Lock()
	c.entries[key] = entry[T]{value: value, expiry: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
