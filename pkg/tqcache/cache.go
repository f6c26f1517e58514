// Package tqcache is the bounded, process-local cache of compiled plans
// keyed by exact builder source text. The cache owns no external
// resource — eviction only ever drops an in-memory *tqir.Op plus its
// tqctx.Context snapshot.
//
// Follows an RWMutex-guarded read against an LRU and a locked insert
// (the caller compiles on a miss, outside any cache lock), using the same golang-lru library
// a distributed lock manager elsewhere in the corpus uses for its own
// bounded cache (see DESIGN.md's dropped-dependency list for the half
// of that usage — a distributed mutex — this package has no need for).
package tqcache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fj1981/tinqer/pkg/tqctx"
	"github.com/fj1981/tinqer/pkg/tqir"
)

// DefaultCapacity is used when a Cache is constructed with capacity <= 0.
const DefaultCapacity = 500

// Entry is one cached compile result: the normalized operation tree and
// the context snapshot (auto-param bindings, alias registry) the
// emitter needs alongside it.
type Entry struct {
	Op  tqir.Op
	Ctx *tqctx.Context
}

// Cache is a bounded LRU of compiled plans, safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	lru     *lru.Cache[string, *Entry]
	enabled bool
}

// New returns a Cache with room for capacity entries. capacity <= 0
// uses DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	backing, _ := lru.New[string, *Entry](capacity)
	return &Cache{lru: backing, enabled: true}
}

// Get returns the cached entry for source, if present.
func (c *Cache) Get(source string) (*Entry, bool) {
	if !c.Enabled() {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Get(source)
}

// Put inserts or replaces the cached entry for source.
func (c *Cache) Put(source string, entry *Entry) {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(source, entry)
}

// Clear empties the cache, forcing every subsequent compile to re-parse.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len()
}

// SetEnabled toggles caching; when disabled, Get always misses and Put
// is a no-op, supporting a "cache may be disabled" config knob without
// tearing down the underlying LRU.
func (c *Cache) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

// Enabled reports whether the cache is currently active.
func (c *Cache) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// Resize replaces the backing LRU with one of the given capacity,
// discarding all current entries.
func (c *Cache) Resize(capacity int) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru, _ = lru.New[string, *Entry](capacity)
}
