package cache

import (
	"sync"
	"time"

	"expiring-map-api/internal/expiringmap"
)

// SimpleCache is an expiringmap.Map with optional concurrency safety.
// There is no background janitor; expired entries are hidden on read and reclaimed by PurgeExpired.
type SimpleCache[K comparable, V any] struct {
	// If muPtr is nil, the cache is NOT goroutine-safe.
	// If muPtr is non-nil, it guards all operations.
	muPtr *sync.RWMutex

	items *expiringmap.Map[K, V]
}

// Options controls construction of a SimpleCache.
type Options struct {
	// ConcurrencySafe controls whether operations are guarded by a RWMutex.
	// If false, the cache is not safe for concurrent use and may be faster in single-threaded contexts.
	ConcurrencySafe bool

	// Clock overrides the system clock. Nil means time.Now.
	Clock expiringmap.Clock
}

// NewSimpleCache constructs a new SimpleCache whose entries expire ttl after insertion.
func NewSimpleCache[K comparable, V any](ttl time.Duration, opts Options) *SimpleCache[K, V] {
	var mu *sync.RWMutex
	if opts.ConcurrencySafe {
		mu = &sync.RWMutex{}
	}
	return &SimpleCache[K, V]{
		muPtr: mu,
		items: expiringmap.NewMap[K, V](ttl, expiringmap.WithClock(opts.Clock)),
	}
}

func (c *SimpleCache[K, V]) lockR() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.RLock()
	return c.muPtr.RUnlock
}

func (c *SimpleCache[K, V]) lockW() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.Lock()
	return c.muPtr.Unlock
}

// Get implements Cache.Get. Reads never mutate the map, so a read lock is enough.
func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	unlock := c.lockR()
	defer unlock()
	return c.items.Get(key)
}

// Set implements Cache.Set.
func (c *SimpleCache[K, V]) Set(key K, value V) (V, bool) {
	unlock := c.lockW()
	defer unlock()
	return c.items.Insert(key, value)
}

// Update implements Cache.Update. fn runs under the write lock and must not retain the pointer.
func (c *SimpleCache[K, V]) Update(key K, fn func(*V)) bool {
	unlock := c.lockW()
	defer unlock()
	p, ok := c.items.GetMut(key)
	if !ok {
		return false
	}
	fn(p)
	return true
}

// Delete implements Cache.Delete.
func (c *SimpleCache[K, V]) Delete(key K) {
	unlock := c.lockW()
	defer unlock()
	c.items.Remove(key)
}

// Has implements Cache.Has.
func (c *SimpleCache[K, V]) Has(key K) bool {
	unlock := c.lockR()
	defer unlock()
	_, ok := c.items.Get(key)
	return ok
}

// Len implements Cache.Len. It counts only non-expired entries.
func (c *SimpleCache[K, V]) Len() int {
	unlock := c.lockR()
	defer unlock()
	return c.items.LiveLen()
}

// Stored implements Cache.Stored.
func (c *SimpleCache[K, V]) Stored() int {
	unlock := c.lockR()
	defer unlock()
	return c.items.Len()
}

// Clear implements Cache.Clear.
func (c *SimpleCache[K, V]) Clear() {
	unlock := c.lockW()
	defer unlock()
	c.items.Clear()
}

// PurgeExpired implements Cache.PurgeExpired.
func (c *SimpleCache[K, V]) PurgeExpired() int {
	unlock := c.lockW()
	defer unlock()
	if c.items.Len() == 0 {
		return 0
	}
	return c.items.RemoveExpiredEntries()
}

// TTL implements Cache.TTL.
func (c *SimpleCache[K, V]) TTL() time.Duration {
	return c.items.TTL()
}

// Ensure SimpleCache implements Cache at compile time.
var _ Cache[any, any] = (*SimpleCache[any, any])(nil)
