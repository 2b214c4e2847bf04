package cache

import "sync"

// Cache is a generic thread-safe LRU cache.
// When a Set pushes the cache over its capacity, least recently used entries
// are evicted until it fits again.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	items    map[K]*lruNode[K, V]
	order    lruList[K, V]
	capacity int
	onEvict  func(K, V)

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache holding at most capacity entries.
// A capacity of 0 means unlimited.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		items:    make(map[K]*lruNode[K, V]),
		capacity: capacity,
	}
}

// OnEvict sets a function called for every entry that leaves the cache,
// whether by eviction, Delete, DeleteFunc, Clear or replacement in Set.
// It runs after the cache lock is released, so it may call back into the
// cache.
func (c *Cache[K, V]) OnEvict(fn func(K, V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get retrieves a value and marks it as recently used.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.items[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.MoveToFront(node)
	return node.value, true
}

// Set stores a value, evicting the least recently used entries if the cache
// grows past its capacity.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	removed := c.setLocked(key, value)
	fn := c.onEvict
	c.mu.Unlock()

	c.notify(fn, removed)
}

// Delete removes an entry. Returns true if the entry was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	node, ok := c.items[key]
	if ok {
		c.removeLocked(node)
	}
	fn := c.onEvict
	c.mu.Unlock()

	if ok {
		c.notify(fn, []*lruNode[K, V]{node})
	}
	return ok
}

// DeleteFunc removes every entry for which match returns true and reports
// how many were removed. match is called under the lock and must not use the
// cache.
func (c *Cache[K, V]) DeleteFunc(match func(K, V) bool) int {
	c.mu.Lock()
	var removed []*lruNode[K, V]
	for _, node := range c.items {
		if match(node.key, node.value) {
			removed = append(removed, node)
		}
	}
	for _, node := range removed {
		c.removeLocked(node)
	}
	fn := c.onEvict
	c.mu.Unlock()

	c.notify(fn, removed)
	return len(removed)
}

// Clear removes all entries. Statistics are kept.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	removed := make([]*lruNode[K, V], 0, len(c.items))
	for node := c.order.head; node != nil; node = node.next {
		removed = append(removed, node)
	}
	c.items = make(map[K]*lruNode[K, V])
	c.order.Clear()
	fn := c.onEvict
	c.mu.Unlock()

	c.notify(fn, removed)
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// Capacity returns the maximum number of entries, 0 meaning unlimited.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.items),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// setLocked stores the value and returns the nodes that left the cache.
// Caller must hold c.mu.
func (c *Cache[K, V]) setLocked(key K, value V) []*lruNode[K, V] {
	if node, ok := c.items[key]; ok {
		old := &lruNode[K, V]{key: key, value: node.value}
		node.value = value
		c.order.MoveToFront(node)
		return []*lruNode[K, V]{old}
	}

	c.items[key] = c.order.PushFront(key, value)

	var removed []*lruNode[K, V]
	for c.capacity > 0 && c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.removeLocked(oldest)
		c.evictions++
		removed = append(removed, oldest)
	}
	return removed
}

// removeLocked drops node from both the map and the list.
// Caller must hold c.mu.
func (c *Cache[K, V]) removeLocked(node *lruNode[K, V]) {
	c.order.Remove(node)
	delete(c.items, node.key)
}

func (c *Cache[K, V]) notify(fn func(K, V), removed []*lruNode[K, V]) {
	if fn == nil {
		return
	}
	for _, node := range removed {
		fn(node.key, node.value)
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the maximum number of entries (0 = unlimited).
	Capacity int
	// Hits is the number of successful lookups.
	Hits uint64
	// Misses is the number of failed lookups.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), or 0 before any lookup.
	HitRate float64
	// Evictions is the number of entries dropped to respect Capacity.
	Evictions uint64
}
