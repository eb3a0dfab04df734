// In file: internal/cache/cache.go

// Package cache stores finished analyses by their versioned key. The gateway
// owns the cache; the orchestrator never sees it.
package cache

import (
	"context"
	"time"

	"github.com/dileep-u-k/decision-gateway/internal/decision"
)

const (
	DefaultTTL        = 60 * time.Minute
	DefaultMaxEntries = 1000
)

// Entry is a cached analysis together with its remaining lifetime.
type Entry struct {
	Analysis *decision.Analysis
	TTL      time.Duration
}

// Cache is safe for concurrent use. Get reports a miss with ok == false and a
// nil error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (entry *Entry, ok bool, err error)
	Set(ctx context.Context, key string, analysis *decision.Analysis) error
	Evict(ctx context.Context, key string) error
}
