// In file: internal/cache/memory.go
package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dileep-u-k/decision-gateway/internal/decision"
)

type memoryEntry struct {
	analysis *decision.Analysis
	storedAt time.Time
}

// MemoryCache is a size-bounded LRU whose entries also expire after a fixed TTL.
type MemoryCache struct {
	lru *lru.Cache[string, memoryEntry]
	ttl time.Duration
	now func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache falls back to the package defaults for non-positive values.
func NewMemoryCache(maxEntries int, ttl time.Duration) (*MemoryCache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	l, err := lru.New[string, memoryEntry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &MemoryCache{lru: l, ttl: ttl, now: time.Now}, nil
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Entry, bool, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	age := c.now().Sub(e.storedAt)
	if age >= c.ttl {
		// Expired; evict so the LRU bookkeeping stays clean.
		c.lru.Remove(key)
		return nil, false, nil
	}
	return &Entry{Analysis: e.analysis, TTL: c.ttl - age}, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, analysis *decision.Analysis) error {
	c.lru.Add(key, memoryEntry{analysis: analysis, storedAt: c.now()})
	return nil
}

func (c *MemoryCache) Evict(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len reports the number of entries, expired ones included.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
