// ABOUTME: Redis-backed session store for shared or kiosk deployments
// ABOUTME: Namespaces keys per client and applies an optional TTL

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session values in redis
type RedisStore struct {
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisStore wraps an existing client. A zero ttl keeps keys until deleted.
func NewRedisStore(rdb *redis.Client, namespace string, ttl time.Duration) *RedisStore {
	if namespace == "" {
		namespace = "default"
	}
	return &RedisStore{rdb: rdb, namespace: namespace, ttl: ttl}
}

// NewRedisStoreFromURL dials redis from a redis:// URL
func NewRedisStoreFromURL(url, namespace string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return NewRedisStore(redis.NewClient(opts), namespace, ttl), nil
}

// key returns the redis key for a session entry
func (r *RedisStore) key(k string) string {
	return fmt.Sprintf("study-portal:session:%s:%s", r.namespace, k)
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
