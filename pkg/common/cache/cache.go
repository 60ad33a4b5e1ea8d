package cache

import (
	"context"
	"time"
)

// CacheEngine defines the remote key-value operations the display board needs.
type CacheEngine interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetMulti(ctx context.Context, values map[string]any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Publish(ctx context.Context, channel string, message any) error
	Close()
}
