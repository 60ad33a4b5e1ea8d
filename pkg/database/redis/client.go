package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	redisV9 "github.com/redis/go-redis/v9"

	"github.com/huynhanx03/token-dispenser/pkg/common/cache"
	"github.com/huynhanx03/token-dispenser/pkg/settings"
	"github.com/huynhanx03/token-dispenser/pkg/utils"
)

const (
	defaultPort       = 6379
	defaultPoolSize   = 10
	defaultMaxRetries = 3
	pingTimeout       = 5 * time.Second
)

type RedisEngine struct {
	client *redisV9.Client
	config *settings.Redis
}

var _ cache.CacheEngine = (*RedisEngine)(nil)

// connect builds the client from config and pings it once.
func (r *RedisEngine) connect() error {
	r.setDefaultConfig()

	r.client = redisV9.NewClient(&redisV9.Options{
		Addr:            fmt.Sprintf("%s:%d", r.config.Host, r.config.Port),
		Password:        r.config.Password,
		DB:              r.config.Database,
		PoolSize:        r.config.PoolSize,
		MinIdleConns:    r.config.MinIdleConns,
		MaxRetries:      r.config.MaxRetries,
		DialTimeout:     utils.ToDuration(r.config.DialTimeout),
		ReadTimeout:     utils.ToDuration(r.config.ReadTimeout),
		WriteTimeout:    utils.ToDuration(r.config.WriteTimeout),
		PoolTimeout:     utils.ToDuration(r.config.PoolTimeout),
		MinRetryBackoff: utils.ToDurationMs(r.config.MinRetryBackoff),
		MaxRetryBackoff: utils.ToDurationMs(r.config.MaxRetryBackoff),
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := r.client.Ping(ctx).Err(); err != nil {
		_ = r.client.Close()
		return fmt.Errorf("%w: %v", ErrPingFailed, err)
	}

	return nil
}

// setDefaultConfig fills zero-valued pool, timeout and retry settings.
// Timeouts are seconds, backoffs milliseconds.
func (r *RedisEngine) setDefaultConfig() {
	c := r.config
	for _, d := range []struct {
		field *int
		value int
	}{
		{&c.Port, defaultPort},
		{&c.PoolSize, defaultPoolSize},
		{&c.MinIdleConns, 2},
		{&c.PoolTimeout, 5},
		{&c.DialTimeout, 5},
		{&c.ReadTimeout, 3},
		{&c.WriteTimeout, 3},
		{&c.MaxRetries, defaultMaxRetries},
		{&c.MinRetryBackoff, 300},
		{&c.MaxRetryBackoff, 500},
	} {
		if *d.field == 0 {
			*d.field = d.value
		}
	}
}

// Set stores value as JSON under key. A zero ttl keeps the key forever.
func (r *RedisEngine) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "redis: encode %s", key)
	}
	return r.client.Set(ctx, key, raw, ttl).Err()
}

// SetMulti stores every value as JSON inside one MULTI/EXEC, so readers see
// either all of the writes or none of them.
func (r *RedisEngine) SetMulti(ctx context.Context, values map[string]any, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}

	encoded := make(map[string][]byte, len(values))
	for key, value := range values {
		raw, err := json.Marshal(value)
		if err != nil {
			return errors.Wrapf(err, "redis: encode %s", key)
		}
		encoded[key] = raw
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redisV9.Pipeliner) error {
		for key, raw := range encoded {
			pipe.Set(ctx, key, raw, ttl)
		}
		return nil
	})
	return err
}

// Delete removes keys.
func (r *RedisEngine) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// Publish sends message as JSON on channel.
func (r *RedisEngine) Publish(ctx context.Context, channel string, message any) error {
	raw, err := json.Marshal(message)
	if err != nil {
		return errors.Wrapf(err, "redis: encode message for %s", channel)
	}
	return r.client.Publish(ctx, channel, raw).Err()
}

func (r *RedisEngine) Close() {
	if r.client != nil {
		_ = r.client.Close()
	}
}

// Client returns the underlying client.
func (r *RedisEngine) Client() *redisV9.Client {
	return r.client
}
