package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is used when NewQueryCache is given a non-positive size.
const DefaultSize = 1024

// CachedQuery is the rendered SQL for one statement shape. Values are never
// cached; callers rebind them per statement.
type CachedQuery struct {
	SQL          string
	Placeholders int
}

type QueryCache interface {
	Get(fingerprint uint64) (*CachedQuery, bool)
	Set(fingerprint uint64, q *CachedQuery)
	Len() int
	Stats() Stats
	Purge()
}

type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

type lruQueryCache struct {
	cache     *lru.Cache[uint64, *CachedQuery]
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewQueryCache returns a size-bounded LRU cache. It is safe for concurrent use.
func NewQueryCache(size int) QueryCache {
	if size <= 0 {
		size = DefaultSize
	}

	c := &lruQueryCache{}
	c.cache, _ = lru.NewWithEvict(size, func(uint64, *CachedQuery) {
		c.evictions.Add(1)
	})
	return c
}

func (c *lruQueryCache) Get(f uint64) (*CachedQuery, bool) {
	q, ok := c.cache.Get(f)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	cp := *q
	return &cp, true
}

func (c *lruQueryCache) Set(f uint64, q *CachedQuery) {
	cp := *q
	c.cache.Add(f, &cp)
}

func (c *lruQueryCache) Len() int {
	return c.cache.Len()
}

func (c *lruQueryCache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

func (c *lruQueryCache) Purge() {
	c.cache.Purge()
}
