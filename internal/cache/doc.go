// Package cache provides a generic LRU cache used to keep derived clip data,
// such as rasterized masks, keyed by clip generation.
//
//	c := cache.New[key, *image.Alpha](64)
//	c.OnEvict(func(k key, m *image.Alpha) { ... })
//	c.Set(k, m)
//	m, ok := c.Get(k)
//
// Entries are evicted strictly in least-recently-used order once the capacity
// is exceeded. DeleteFunc drops every entry matching a predicate, which is how
// all masks of a purged generation are removed at once.
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
