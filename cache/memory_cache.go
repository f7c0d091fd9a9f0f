package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const DEFAULT_CLEANUP_INTERVAL = 10 * time.Minute

// MemoryCache keeps entries in process through go-cache.
type MemoryCache struct {
	name  string
	items *gocache.Cache
	ttl   time.Duration
	stats statsCounter

	// keys currently being removed by Invalidate, so the eviction
	// callback does not count them
	invalidating sync.Map
}

// NewMemoryCache creates a cache whose entries expire after ttl (0 keeps
// them until cleared). The janitor runs every cleanupInterval.
func NewMemoryCache(name string, ttl, cleanupInterval time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DEFAULT_CLEANUP_INTERVAL
	}

	c := &MemoryCache{
		name:  name,
		items: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
	c.items.OnEvicted(func(key string, _ interface{}) {
		if _, ok := c.invalidating.Load(key); ok {
			return
		}
		c.stats.recordEviction()
	})
	return c
}

func (c *MemoryCache) Name() string {
	return c.name
}

func (c *MemoryCache) Get(key string) ([]byte, bool, error) {
	value, ok := c.items.Get(key)
	if !ok {
		c.stats.recordMiss()
		return nil, false, nil
	}
	c.stats.recordHit()
	return value.([]byte), true, nil
}

func (c *MemoryCache) Put(key string, value []byte) error {
	c.items.Set(key, value, gocache.DefaultExpiration)
	return nil
}

func (c *MemoryCache) GetOrLoad(key string, loader Loader) ([]byte, error) {
	return getOrLoad(c, &c.stats, key, loader)
}

func (c *MemoryCache) Invalidate(key string) error {
	c.invalidating.Store(key, struct{}{})
	defer c.invalidating.Delete(key)

	c.items.Delete(key)
	return nil
}

func (c *MemoryCache) InvalidateAll() error {
	c.items.Flush()
	return nil
}

// Size counts entries including expired ones the janitor has not yet
// removed.
func (c *MemoryCache) Size() (int64, error) {
	return int64(c.items.ItemCount()), nil
}

func (c *MemoryCache) Stats() Stats {
	return c.stats.snapshot()
}

