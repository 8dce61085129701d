// Package cache provides a small in-process TTL cache used by the store to
// front hot per-user rows.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Config holds the cache settings.
type Config struct {
	// DefaultTTL is the lifetime of an entry. Zero disables expiration.
	DefaultTTL time.Duration
	// CleanupInterval is how often expired entries are swept. Zero disables the sweeper.
	CleanupInterval time.Duration
	// MaxItems bounds the cache size. Oldest entries are evicted first. Zero means unbounded.
	MaxItems int
	// OnEviction, if set, is called for each evicted or expired entry.
	OnEviction func(key string, value any)
}

type entry struct {
	key       string
	value     any
	expiresAt time.Time
	elem      *list.Element
}

// Cache is a TTL cache with LRU-style size eviction.
type Cache struct {
	mu      sync.Mutex
	config  Config
	items   map[string]*entry
	order   *list.List // front = most recently set
	done    chan struct{}
	closeMu sync.Once
}

// New creates a new cache and starts its cleanup goroutine if configured.
func New(config Config) *Cache {
	c := &Cache{
		config: config,
		items:  make(map[string]*entry),
		order:  list.New(),
		done:   make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go c.cleanupLoop()
	}
	return c
}

// Set stores a value under key with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.items[key]; ok {
		c.order.Remove(old.elem)
	}
	e := &entry{key: key, value: value}
	if c.config.DefaultTTL > 0 {
		e.expiresAt = time.Now().Add(c.config.DefaultTTL)
	}
	e.elem = c.order.PushFront(e)
	c.items[key] = e

	if c.config.MaxItems > 0 {
		for len(c.items) > c.config.MaxItems {
			oldest := c.order.Back()
			if oldest == nil {
				break
			}
			c.evictLocked(oldest.Value.(*entry))
		}
	}
}

// Get returns the value for key, or false if absent or expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.evictLocked(e)
		return nil, false
	}
	return e.value, true
}

// Delete removes the entry for key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.evictLocked(e)
	}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.items {
		c.evictLocked(e)
	}
}

// Len returns the number of entries, including not-yet-swept expired ones.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close stops the cleanup goroutine.
func (c *Cache) Close() {
	c.closeMu.Do(func() {
		close(c.done)
	})
}

func (c *Cache) evictLocked(e *entry) {
	c.order.Remove(e.elem)
	delete(c.items, e.key)
	if c.config.OnEviction != nil {
		c.config.OnEviction(e.key, e.value)
	}
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupInterval)
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

func (c *Cache) sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.items {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			c.evictLocked(e)
		}
	}
}
