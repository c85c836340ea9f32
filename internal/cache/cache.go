package cache

import (
	"context"
	"time"
)

// Cache adalah penyimpanan key-value dengan TTL untuk meng-cache task.
// Cache miss bukan error, cukup ok=false.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Del(ctx context.Context, keys ...string)
}
