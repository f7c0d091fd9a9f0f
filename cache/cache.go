// Package cache holds the named caches and the administrative façade over
// them. Storage is delegated to go-cache (memory) or Redis.
package cache

import (
	"errors"
	"time"
)

var ErrCacheNotFound = errors.New("cache not found")

// Loader produces the value for a missing key.
type Loader func() ([]byte, error)

// Cache is a named cache of byte values.
type Cache interface {
	Name() string
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	GetOrLoad(key string, loader Loader) ([]byte, error)
	Invalidate(key string) error
	InvalidateAll() error
	Size() (int64, error)
	Stats() Stats
}

// getOrLoad is the read-through path shared by the backends.
func getOrLoad(c Cache, counter *statsCounter, key string, loader Loader) ([]byte, error) {
	if value, ok, err := c.Get(key); err != nil {
		return nil, err
	} else if ok {
		return value, nil
	}

	start := time.Now()
	value, err := loader()
	elapsed := time.Since(start)
	if err != nil {
		counter.recordLoadException(elapsed)
		return nil, err
	}
	counter.recordLoadSuccess(elapsed)

	if err := c.Put(key, value); err != nil {
		return nil, err
	}
	return value, nil
}
