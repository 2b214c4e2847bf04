package mask

import (
	"image"
	"log/slog"

	"github.com/gogpu/clipstack"
	"github.com/gogpu/clipstack/internal/cache"
)

// DefaultCacheSize is the mask count used when NewCache is given 0.
const DefaultCacheSize = 64

type cacheKey struct {
	genID  clipstack.GenID
	bounds image.Rectangle
}

// Cache keeps rendered masks keyed by generation ID and device bounds.
// It implements clipstack.PurgeListener: once attached to a stack, entries
// for clip states that become unreachable are dropped immediately instead
// of waiting for LRU eviction.
//
// Cache is safe for concurrent use. Masks it returns are shared and must
// not be modified.
type Cache struct {
	masks *cache.Cache[cacheKey, *image.Alpha]
}

// NewCache creates a cache holding at most capacity masks.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	masks := cache.New[cacheKey, *image.Alpha](capacity)
	masks.OnEvict(func(k cacheKey, _ *image.Alpha) {
		clipstack.Logger().Debug("mask: released",
			slog.Uint64("gen_id", uint64(k.genID)),
			slog.String("bounds", k.bounds.String()))
	})
	return &Cache{masks: masks}
}

// Attach registers c as a purge listener on s.
func (c *Cache) Attach(s *clipstack.Stack) {
	s.AddPurgeListener(c)
}

// Detach removes c from the listeners of s. Entries already cached stay
// until evicted.
func (c *Cache) Detach(s *clipstack.Stack) {
	s.RemovePurgeListener(c)
}

// PurgeClip drops every mask rendered for genID.
func (c *Cache) PurgeClip(genID clipstack.GenID) {
	n := c.masks.DeleteFunc(func(k cacheKey, _ *image.Alpha) bool {
		return k.genID == genID
	})
	if n > 0 {
		clipstack.Logger().Debug("mask: purged",
			slog.Uint64("gen_id", uint64(genID)),
			slog.Int("masks", n))
	}
}

// Mask returns the mask of the current clip of s over bounds, rendering it
// on a miss. Wide-open and empty clips are answered without rendering or
// caching.
func (c *Cache) Mask(s *clipstack.Stack, bounds image.Rectangle) (*image.Alpha, error) {
	genID := s.TopmostGenID()
	switch genID {
	case clipstack.WideOpenGenID:
		return Uniform(bounds, 255)
	case clipstack.EmptyGenID:
		return Uniform(bounds, 0)
	}

	key := cacheKey{genID: genID, bounds: bounds}
	if m, ok := c.masks.Get(key); ok {
		return m, nil
	}

	m, err := Render(s, bounds)
	if err != nil {
		clipstack.Logger().Warn("mask: render failed",
			slog.Uint64("gen_id", uint64(genID)),
			slog.String("bounds", bounds.String()),
			slog.String("error", err.Error()))
		return nil, err
	}
	c.masks.Set(key, m)
	clipstack.Logger().Debug("mask: rendered",
		slog.Uint64("gen_id", uint64(genID)),
		slog.String("bounds", bounds.String()))
	return m, nil
}

// Len returns the number of cached masks.
func (c *Cache) Len() int {
	return c.masks.Len()
}

// Clear drops every cached mask.
func (c *Cache) Clear() {
	c.masks.Clear()
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	s := c.masks.Stats()
	return Stats{
		Masks:     s.Len,
		Capacity:  s.Capacity,
		Hits:      s.Hits,
		Misses:    s.Misses,
		HitRate:   s.HitRate,
		Evictions: s.Evictions,
	}
}

// Stats describes mask cache usage.
type Stats struct {
	Masks     int
	Capacity  int
	Hits      uint64
	Misses    uint64
	HitRate   float64
	Evictions uint64
}

// Uniform returns a mask over bounds with every pixel set to v.
func Uniform(bounds image.Rectangle, v uint8) (*image.Alpha, error) {
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 || bounds.Dx()*bounds.Dy() > MaxPixels {
		return nil, ErrInvalidSize
	}
	m := image.NewAlpha(bounds)
	if v != 0 {
		for i := range m.Pix {
			m.Pix[i] = v
		}
	}
	return m, nil
}
