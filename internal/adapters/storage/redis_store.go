package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists session keys in Redis so sessions survive restarts
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store. Keys are namespaced under the
// given prefix so multiple deployments can share one Redis.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "rentportal:session:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Get returns the value for key, or "" if absent
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set stores value under key with no expiry; lifetime is managed by the
// session service's logout path, not by TTL.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

// Remove deletes the given keys; missing keys are ignored
func (s *RedisStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefix + k
	}
	return s.client.Del(ctx, prefixed...).Err()
}
