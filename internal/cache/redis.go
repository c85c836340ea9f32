package cache

import (
	"context"
	"time"

	"task-manager-api/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisCache membungkus go-redis menjadi Cache.
// Error Redis hanya dicatat; cache yang gagal tidak boleh menggagalkan request.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.ErrorLogger.Error("Error caching value", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.ErrorLogger.Error("Error deleting cached value", zap.Error(err))
	}
}
