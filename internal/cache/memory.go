package cache

import (
	"context"
	"sync"
	"time"
)

// memoryEntry pairs a projection with its expiry deadline.
type memoryEntry struct {
	projection TaskProjection
	expiresAt  time.Time
}

// MemoryTaskCache is an in-process TaskCache backed by a map with per-entry
// TTLs. It backs tests and local development; production deployments use
// the Redis implementation under internal/platform/rediscache.
type MemoryTaskCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ TaskCache = (*MemoryTaskCache)(nil)

// NewMemoryTaskCache creates an empty in-memory task cache.
func NewMemoryTaskCache() *MemoryTaskCache {
	return &MemoryTaskCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements TaskCache.Get. Expired entries are removed lazily.
func (c *MemoryTaskCache) Get(ctx context.Context, key string) (*TaskProjection, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another goroutine may have
		// replaced the entry in the meantime.
		if current, ok := c.entries[key]; ok && c.now().After(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, nil
	}

	projection := entry.projection
	return &projection, nil
}

// Set implements TaskCache.Set.
func (c *MemoryTaskCache) Set(ctx context.Context, key string, projection *TaskProjection, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{
		projection: *projection,
		expiresAt:  c.now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

// Delete implements TaskCache.Delete.
func (c *MemoryTaskCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}
