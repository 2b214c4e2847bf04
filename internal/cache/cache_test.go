package cache

import (
	"strconv"
	"sync"
	"testing"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string, int](10)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) ok = true")
	}
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Get(a) after overwrite = %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, string](3)
	var evicted []int
	c.OnEvict(func(k int, _ string) { evicted = append(evicted, k) })

	c.Set(1, "one")
	c.Set(2, "two")
	c.Set(3, "three")
	c.Get(1) // 2 is now the oldest
	c.Set(4, "four")

	if _, ok := c.Get(2); ok {
		t.Error("least recently used key 2 was not evicted")
	}
	for _, k := range []int{1, 3, 4} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("key %d evicted, want kept", k)
		}
	}
	if len(evicted) != 1 || evicted[0] != 2 {
		t.Errorf("OnEvict keys = %v, want [2]", evicted)
	}
	if s := c.Stats(); s.Evictions != 1 || s.Len != 3 {
		t.Errorf("Stats() = %+v, want 1 eviction and 3 entries", s)
	}
}

func TestCache_Unlimited(t *testing.T) {
	c := New[int, int](0)
	for i := 0; i < 1000; i++ {
		c.Set(i, i)
	}
	if c.Len() != 1000 {
		t.Errorf("Len() = %d, want 1000", c.Len())
	}
}

func TestCache_DeleteAndDeleteFunc(t *testing.T) {
	c := New[string, int](0)
	var evicted []string
	c.OnEvict(func(k string, _ int) { evicted = append(evicted, k) })

	for i := 0; i < 10; i++ {
		c.Set(strconv.Itoa(i), i)
	}

	if !c.Delete("3") {
		t.Error("Delete(3) = false, want true")
	}
	if c.Delete("3") {
		t.Error("second Delete(3) = true, want false")
	}

	n := c.DeleteFunc(func(_ string, v int) bool { return v%2 == 0 })
	if n != 5 {
		t.Errorf("DeleteFunc() removed %d, want 5", n)
	}
	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
	if len(evicted) != 6 {
		t.Errorf("OnEvict called %d times, want 6", len(evicted))
	}
	// Deletions are not capacity evictions.
	if s := c.Stats(); s.Evictions != 0 {
		t.Errorf("Stats().Evictions = %d, want 0", s.Evictions)
	}
}

func TestCache_ClearNotifies(t *testing.T) {
	c := New[int, int](0)
	count := 0
	c.OnEvict(func(int, int) { count++ })
	c.Set(1, 1)
	c.Set(2, 2)
	c.Clear()
	if c.Len() != 0 || count != 2 {
		t.Errorf("after Clear: Len = %d, evicted = %d; want 0, 2", c.Len(), count)
	}
	c.Set(3, 3)
	if v, ok := c.Get(3); !ok || v != 3 {
		t.Error("cache unusable after Clear")
	}
}

func TestCache_OnEvictMayReenter(t *testing.T) {
	c := New[int, int](1)
	c.OnEvict(func(k, _ int) {
		// Must not deadlock.
		_ = c.Len()
	})
	c.Set(1, 1)
	c.Set(2, 2)
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int, int](64)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				k := (g*1000 + i) % 200
				c.Set(k, i)
				c.Get(k)
				if i%100 == 0 {
					c.DeleteFunc(func(key, _ int) bool { return key%7 == 0 })
				}
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 64 {
		t.Errorf("Len() = %d exceeds capacity 64", c.Len())
	}
}

func TestLRUList(t *testing.T) {
	var l lruList[string, int]
	a := l.PushFront("a", 1)
	b := l.PushFront("b", 2)
	l.PushFront("c", 3)

	if l.Back() != a || l.Len() != 3 {
		t.Fatalf("Back() = %v, Len() = %d", l.Back().key, l.Len())
	}
	l.MoveToFront(a)
	if l.Back() != b {
		t.Errorf("Back() after MoveToFront(a) = %v, want b", l.Back().key)
	}
	l.Remove(b)
	if l.Len() != 2 || l.Back().key != "c" {
		t.Errorf("after Remove(b): Len = %d, Back = %v", l.Len(), l.Back().key)
	}
	l.Clear()
	if l.Len() != 0 || l.Back() != nil {
		t.Error("Clear() left nodes behind")
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[string, int](1000)
	for i := 0; i < 100; i++ {
		c.Set(strconv.Itoa(i), i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("50")
	}
}

func BenchmarkCacheSetEvict(b *testing.B) {
	c := New[int, int](100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(i, i)
	}
}
