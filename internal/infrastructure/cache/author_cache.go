package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"slawn/pkg/logger"
)

// MemoryAuthorCache keeps author names for the life of the process.
type MemoryAuthorCache struct {
	names map[string]string
	mutex sync.RWMutex
}

func NewMemoryAuthorCache() *MemoryAuthorCache {
	return &MemoryAuthorCache{names: make(map[string]string)}
}

func (c *MemoryAuthorCache) Get(_ context.Context, userID string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	name, ok := c.names[userID]
	return name, ok
}

func (c *MemoryAuthorCache) Put(_ context.Context, userID, name string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.names[userID] = name
}

func (c *MemoryAuthorCache) Clear(_ context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.names = make(map[string]string)
	return nil
}

const authorsKey = "slawn:authors"

// RedisAuthorCache shares author names across instances in a single hash.
// Redis failures degrade to cache misses.
type RedisAuthorCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAuthorCache(client *redis.Client, ttl time.Duration) *RedisAuthorCache {
	return &RedisAuthorCache{client: client, ttl: ttl}
}

func (c *RedisAuthorCache) Get(ctx context.Context, userID string) (string, bool) {
	name, err := c.client.HGet(ctx, authorsKey, userID).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Author cache read failed for %s: %v", userID, err)
		}
		return "", false
	}
	return name, true
}

func (c *RedisAuthorCache) Put(ctx context.Context, userID, name string) {
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, authorsKey, userID, name)
	if c.ttl > 0 {
		pipe.Expire(ctx, authorsKey, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("Author cache write failed for %s: %v", userID, err)
	}
}

func (c *RedisAuthorCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, authorsKey).Err()
}
