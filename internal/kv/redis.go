package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "shopfront:"

// RedisStorage keeps keys in Redis so several terminals or machines can
// share one session. There is no expiry; the token lives until cleared.
type RedisStorage struct {
	client    *redis.Client
	namespace string
}

func NewRedisStorage(client *redis.Client, namespace string) *RedisStorage {
	if namespace == "" {
		namespace = "default"
	}
	return &RedisStorage{client: client, namespace: namespace}
}

func (r *RedisStorage) key(k string) string {
	return redisKeyPrefix + r.namespace + ":" + k
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kv.RedisStorage.Get: %w", err)
	}
	return v, true, nil
}

func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("kv.RedisStorage.Set: %w", err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("kv.RedisStorage.Delete: %w", err)
	}
	return nil
}
