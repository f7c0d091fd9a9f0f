package cache

import (
	"fmt"
	"time"

	"gopkg.in/redis.v5"
)

const REDIS_KEY_PREFIX = "bedrock:cache:"

// RedisCache stores one cache as a single Redis hash.
type RedisCache struct {
	name   string
	key    string
	ttl    time.Duration
	client *redis.Client
	stats  statsCounter
}

func NewRedisCache(client *redis.Client, name string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		name:   name,
		key:    REDIS_KEY_PREFIX + name,
		ttl:    ttl,
		client: client,
	}
}

func (c *RedisCache) Name() string {
	return c.name
}

func (c *RedisCache) Get(key string) ([]byte, bool, error) {
	value, err := c.client.HGet(c.key, key).Bytes()

	if err == redis.Nil {
		c.stats.recordMiss()
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("cache %s: get %s: %w", c.name, key, err)
	}

	c.stats.recordHit()
	return value, true, nil
}

// Put writes the entry and refreshes the hash TTL, so entries of a redis
// cache expire together.
func (c *RedisCache) Put(key string, value []byte) error {
	setCmd := c.client.HSet(c.key, key, value)

	if setCmd.Err() != nil {
		return fmt.Errorf("cache %s: put %s: %w", c.name, key, setCmd.Err())
	}

	if c.ttl <= 0 {
		return nil
	}

	expireCmd := c.client.Expire(c.key, c.ttl)

	if expireCmd.Err() != nil {
		return fmt.Errorf("cache %s: expire: %w", c.name, expireCmd.Err())
	}

	return nil
}

func (c *RedisCache) GetOrLoad(key string, loader Loader) ([]byte, error) {
	return getOrLoad(c, &c.stats, key, loader)
}

func (c *RedisCache) Invalidate(key string) error {
	if err := c.client.HDel(c.key, key).Err(); err != nil {
		return fmt.Errorf("cache %s: invalidate %s: %w", c.name, key, err)
	}
	return nil
}

func (c *RedisCache) InvalidateAll() error {
	if err := c.client.Del(c.key).Err(); err != nil {
		return fmt.Errorf("cache %s: clear: %w", c.name, err)
	}
	return nil
}

func (c *RedisCache) Size() (int64, error) {
	size, err := c.client.HLen(c.key).Result()
	if err != nil {
		return 0, fmt.Errorf("cache %s: size: %w", c.name, err)
	}
	return size, nil
}

func (c *RedisCache) Stats() Stats {
	return c.stats.snapshot()
}
