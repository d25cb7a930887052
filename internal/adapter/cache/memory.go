package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process embedding cache with LRU eviction and TTL
// expiry. It serves a single process; deployments with several replicas
// use the Redis driver instead.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	order   []string
	maxSize int
	ttl     time.Duration
}

type memoryEntry struct {
	vector    []float32
	timestamp time.Time
}

// NewMemoryCache creates a cache holding at most maxSize vectors, each for
// at most ttl.
func NewMemoryCache(maxSize int, ttl time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryCache{
		entries: make(map[string]*memoryEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get implements port.EmbedCache. A miss returns (nil, nil).
func (c *MemoryCache) Get(_ context.Context, key string) ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if time.Since(entry.timestamp) > c.ttl {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return nil, nil
	}

	c.moveToEnd(key)
	return entry.vector, nil
}

// Put implements port.EmbedCache.
func (c *MemoryCache) Put(_ context.Context, key string, vector []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = &memoryEntry{vector: vector, timestamp: time.Now()}
		c.moveToEnd(key)
		return nil
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = &memoryEntry{vector: vector, timestamp: time.Now()}
	c.order = append(c.order, key)
	return nil
}

func (c *MemoryCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *MemoryCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *MemoryCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
