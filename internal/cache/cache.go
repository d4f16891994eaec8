// Package cache memoizes per-curve analysis results. A cache instance is
// owned by whoever owns the analysis session and is passed to the
// analyzer explicitly; there is no process-wide singleton.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/atomic"
)

// Key identifies one memoized analysis result.
type Key struct {
	CurveID string
	Op      string // operation kind, e.g. "movement_regions"
	Params  string // formatted parameter tuple
}

// Stats describes current cache usage.
type Stats struct {
	Entries      int
	ApproxMemory int64 // rough estimate in bytes
	Hits         int64
	Misses       int64
}

// Rough per-entry footprint for the memory estimate. Entries hold small
// slices of regions or phases, not raw curve data.
const entryMemoryEstimate = 1024

// AnalysisCache is a thread-safe key -> value store with explicit
// invalidation and no expiry. One coarse mutex guards lookup and insert;
// it is never held while a value is being computed, so concurrent misses
// on the same key may duplicate work. Analysis results are pure functions
// of their inputs, so duplicated computation is harmless.
type AnalysisCache struct {
	mu      sync.Mutex
	entries map[Key]interface{}
	bounded *lru.Cache[Key, interface{}]

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates an unbounded cache. Memory is reclaimed only by Clear.
func New() *AnalysisCache {
	return &AnalysisCache{
		entries: make(map[Key]interface{}),
	}
}

// NewBounded creates a cache that evicts least-recently-used entries
// beyond size. Size must be positive.
func NewBounded(size int) (*AnalysisCache, error) {
	bounded, err := lru.New[Key, interface{}](size)
	if err != nil {
		return nil, err
	}
	return &AnalysisCache{bounded: bounded}, nil
}

// GetOrCompute returns the cached value for key, calling compute on a
// miss. compute runs outside the lock.
func (c *AnalysisCache) GetOrCompute(key Key, compute func() interface{}) interface{} {
	if c == nil {
		// Caching disabled; always compute.
		return compute()
	}

	if value, ok := c.lookup(key); ok {
		c.hits.Inc()
		return value
	}

	c.misses.Inc()
	value := compute()
	c.store(key, value)
	return value
}

func (c *AnalysisCache) lookup(key Key) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bounded != nil {
		return c.bounded.Get(key)
	}
	value, ok := c.entries[key]
	return value, ok
}

func (c *AnalysisCache) store(key Key, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bounded != nil {
		c.bounded.Add(key, value)
		return
	}
	c.entries[key] = value
}

// Clear drops every entry. Invalidation is all-or-nothing; there is no
// per-curve purge.
func (c *AnalysisCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bounded != nil {
		c.bounded.Purge()
		return
	}
	c.entries = make(map[Key]interface{})
}

// Stats reports entry count, a rough memory estimate, and hit/miss
// counters accumulated since creation.
func (c *AnalysisCache) Stats() Stats {
	c.mu.Lock()
	count := len(c.entries)
	if c.bounded != nil {
		count = c.bounded.Len()
	}
	c.mu.Unlock()

	return Stats{
		Entries:      count,
		ApproxMemory: int64(count) * entryMemoryEstimate,
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
	}
}
