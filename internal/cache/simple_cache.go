package cache

import (
	"sync"
	"time"
)

// entry stores a cached value and its absolute expiration timestamp.
type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

func (e entry[V]) expired(at time.Time) bool {
	return !e.expiresAt.IsZero() && at.After(e.expiresAt)
}

// SimpleCache is a map-backed cache with optional concurrency safety.
// Expired entries are dropped lazily on Set or in bulk by PurgeExpired.
type SimpleCache[K comparable, V any] struct {
	// If muPtr is nil, the cache is NOT goroutine-safe.
	muPtr *sync.RWMutex

	items   map[K]entry[V]
	onEvict func(key K, value V)
}

// Options controls construction of a SimpleCache.
type Options[K comparable, V any] struct {
	// ConcurrencySafe controls whether operations are guarded by a RWMutex.
	ConcurrencySafe bool

	// OnEvict, if set, is called for every entry that leaves the cache through
	// Delete, Clear, PurgeExpired or being replaced by Set after it expired.
	// It runs after the cache lock is released.
	OnEvict func(key K, value V)
}

// NewSimpleCache constructs a new SimpleCache with the given options.
func NewSimpleCache[K comparable, V any](opts Options[K, V]) *SimpleCache[K, V] {
	var mu *sync.RWMutex
	if opts.ConcurrencySafe {
		mu = &sync.RWMutex{}
	}
	return &SimpleCache[K, V]{
		muPtr:   mu,
		items:   make(map[K]entry[V]),
		onEvict: opts.OnEvict,
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

type evicted[K comparable, V any] struct {
	key   K
	value V
}

func (c *SimpleCache[K, V]) notify(items []evicted[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, it := range items {
		c.onEvict(it.key, it.value)
	}
}

// now is a small indirection to allow test stubbing.
var now = time.Now

// Get implements Cache.Get.
func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	unlock := c.lockR()
	defer unlock()

	var zero V
	e, ok := c.items[key]
	if !ok || e.expired(now()) {
		return zero, false
	}
	return e.value, true
}

// Set implements Cache.Set.
func (c *SimpleCache[K, V]) Set(key K, value V, ttl time.Duration) {
	var gone []evicted[K, V]

	unlock := c.lockW()
	nowTs := now()
	if old, ok := c.items[key]; ok && old.expired(nowTs) {
		gone = append(gone, evicted[K, V]{key, old.value})
	}
	var exp time.Time
	if ttl > 0 {
		exp = nowTs.Add(ttl)
	}
	c.items[key] = entry[V]{
		value:     value,
		expiresAt: exp,
	}
	unlock()

	c.notify(gone)
}

// Delete implements Cache.Delete.
func (c *SimpleCache[K, V]) Delete(key K) {
	var gone []evicted[K, V]

	unlock := c.lockW()
	if e, ok := c.items[key]; ok {
		gone = append(gone, evicted[K, V]{key, e.value})
		delete(c.items, key)
	}
	unlock()

	c.notify(gone)
}

// Has implements Cache.Has.
func (c *SimpleCache[K, V]) Has(key K) bool {
	_, ok := c.Get(key)
	return ok
}

// Len implements Cache.Len. It counts only non-expired entries.
func (c *SimpleCache[K, V]) Len() int {
	unlock := c.lockR()
	defer unlock()
	nowTs := now()
	count := 0
	for _, e := range c.items {
		if !e.expired(nowTs) {
			count++
		}
	}
	return count
}

// Clear implements Cache.Clear.
func (c *SimpleCache[K, V]) Clear() {
	var gone []evicted[K, V]

	unlock := c.lockW()
	for k, e := range c.items {
		gone = append(gone, evicted[K, V]{k, e.value})
	}
	c.items = make(map[K]entry[V])
	unlock()

	c.notify(gone)
}

// PurgeExpired implements Cache.PurgeExpired.
func (c *SimpleCache[K, V]) PurgeExpired() {
	var gone []evicted[K, V]

	unlock := c.lockW()
	nowTs := now()
	for k, e := range c.items {
		if e.expired(nowTs) {
			gone = append(gone, evicted[K, V]{k, e.value})
			delete(c.items, k)
		}
	}
	unlock()

	c.notify(gone)
}

// Ensure SimpleCache implements Cache at compile time.
var _ Cache[any, any] = (*SimpleCache[any, any])(nil)
