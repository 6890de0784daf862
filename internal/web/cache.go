package web

import (
	"sync"
	"time"
)

// Cache is a TTL cache for computed query results. Expired entries are
// dropped lazily on read and swept by a background loop.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[T]
	ttl     time.Duration
	done    chan struct{}
}

type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// NewCache creates a cache with the given entry lifetime.
func NewCache[T any](ttl time.Duration) *Cache[T] {
	c := &Cache[T]{
		entries: make(map[string]cacheEntry[T]),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.sweepLoop()
	return c
}

// Get returns the cached value for key if present and fresh.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		var zero T
		return zero, false
	}
	return entry.value, true
}

// Set stores a value under key.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[T]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete removes a single entry.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// DeletePrefix removes every entry whose key starts with prefix. Used to
// drop a pitcher's cached charts when a load job finishes.
func (c *Cache[T]) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of entries, expired ones included.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the sweep loop.
func (c *Cache[T]) Close() {
	close(c.done)
}

func (c *Cache[T]) sweepLoop() {
	interval := c.ttl
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache[T]) sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}
