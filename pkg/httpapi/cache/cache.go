// Package cache provides a thread-safe LRU query-result cache for the
// HTTP search endpoint, adapted from the teacher's
// pkg/search.LRUCache/QueryCache.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/kestrelhq/semanticmap/internal/reduce/topk"
)

// Key identifies a cached search result.
type Key string

// LRUCache is a thread-safe, capacity-bounded, TTL-expiring cache.
type LRUCache struct {
	capacity int
	ttl      time.Duration

	mu    sync.RWMutex
	cache map[Key]*list.Element
	lru   *list.List

	hits   int64
	misses int64
}

type entry struct {
	key       Key
	value     []topk.Scored
	expiresAt time.Time
}

// NewLRUCache creates a cache holding at most capacity entries. ttl of
// 0 disables expiration.
func NewLRUCache(capacity int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		capacity: capacity,
		ttl:      ttl,
		cache:    make(map[Key]*list.Element, capacity),
		lru:      list.New(),
	}
}

// Get returns the cached results for key, or (nil, false) if absent or
// expired.
func (c *LRUCache) Get(key Key) ([]topk.Scored, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.cache[key]
	if !ok {
		c.misses++
		return nil, false
	}

	e := elem.Value.(*entry)
	if c.ttl > 0 && time.Now().After(e.expiresAt) {
		c.removeElement(elem)
		c.misses++
		return nil, false
	}

	c.lru.MoveToFront(elem)
	c.hits++
	return e.value, true
}

// Put stores results under key, evicting the least-recently-used entry
// if the cache is over capacity.
func (c *LRUCache) Put(key Key, results []topk.Scored) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		e := elem.Value.(*entry)
		e.value = results
		if c.ttl > 0 {
			e.expiresAt = time.Now().Add(c.ttl)
		}
		c.lru.MoveToFront(elem)
		return
	}

	e := &entry{key: key, value: results}
	if c.ttl > 0 {
		e.expiresAt = time.Now().Add(c.ttl)
	}
	elem := c.lru.PushFront(e)
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		c.evictOldest()
	}
}

// Invalidate removes key from the cache.
func (c *LRUCache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.cache[key]; ok {
		c.removeElement(elem)
	}
}

// Clear empties the cache and resets its statistics.
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[Key]*list.Element, c.capacity)
	c.lru.Init()
	c.hits = 0
	c.misses = 0
}

// Size returns the current number of cached entries.
func (c *LRUCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len()
}

// Stats reports cache hit/miss counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Size    int
	HitRate float64
}

// Stats returns current cache statistics.
func (c *LRUCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{Hits: c.hits, Misses: c.misses, Size: c.lru.Len(), HitRate: hitRate}
}

func (c *LRUCache) evictOldest() {
	if elem := c.lru.Back(); elem != nil {
		c.removeElement(elem)
	}
}

func (c *LRUCache) removeElement(elem *list.Element) {
	c.lru.Remove(elem)
	e := elem.Value.(*entry)
	delete(c.cache, e.key)
}

// QueryKey derives a cache key from a hashed-embedding query vector and
// the requested result count.
func QueryKey(query []float32, k int) Key {
	h := sha256.New()
	for _, v := range query {
		binary.Write(h, binary.LittleEndian, math.Float32bits(v))
	}
	binary.Write(h, binary.LittleEndian, int32(k))
	return Key(fmt.Sprintf("q:%x", h.Sum(nil)[:16]))
}
