// Package memory is the in-process availability cache.
package memory

import (
	"context"
	"sync"
	"time"

	"enablers/internal/app/policies"
)

type entry struct {
	value   []byte
	expires time.Time
}

// Cache keeps entries until their TTL passes. Expired entries are dropped
// lazily on read and on every write.
type Cache struct {
	mu        sync.Mutex
	now       func() time.Time
	entries   map[policies.CacheKey]entry
	byEnabler map[string]map[policies.CacheKey]struct{}
}

func New(now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		now:       now,
		entries:   make(map[policies.CacheKey]entry),
		byEnabler: make(map[string]map[policies.CacheKey]struct{}),
	}
}

func (c *Cache) Get(_ context.Context, key policies.CacheKey) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		c.drop(key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(_ context.Context, key policies.CacheKey, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.sweep(now)
	c.entries[key] = entry{value: append([]byte(nil), value...), expires: now.Add(ttl)}
	keys, ok := c.byEnabler[key.EnablerID]
	if !ok {
		keys = make(map[policies.CacheKey]struct{})
		c.byEnabler[key.EnablerID] = keys
	}
	keys[key] = struct{}{}
	return nil
}

func (c *Cache) Invalidate(_ context.Context, enablerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.byEnabler[enablerID] {
		delete(c.entries, key)
	}
	delete(c.byEnabler, enablerID)
	return nil
}

func (c *Cache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[policies.CacheKey]entry)
	c.byEnabler = make(map[string]map[policies.CacheKey]struct{})
	return nil
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep(c.now())
	return len(c.entries)
}

func (c *Cache) sweep(now time.Time) {
	for key, e := range c.entries {
		if now.After(e.expires) {
			c.drop(key)
		}
	}
}

func (c *Cache) drop(key policies.CacheKey) {
	delete(c.entries, key)
	if keys, ok := c.byEnabler[key.EnablerID]; ok {
		delete(keys, key)
		if len(keys) == 0 {
			delete(c.byEnabler, key.EnablerID)
		}
	}
}

var _ policies.AvailabilityCache = (*Cache)(nil)
