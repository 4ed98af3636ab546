package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/naveenspark/shopfront/internal/config"
)

// Open builds the backend selected by cfg.Store. The returned close func
// is never nil.
func Open(ctx context.Context, cfg *config.Config) (Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreMemory:
		return NewMemoryStorage(), noop, nil

	case config.StoreKeyring:
		return NewKeyringStorage(cfg.APIURL), noop, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close() //nolint:errcheck
			return nil, noop, fmt.Errorf("kv.Open: ping redis %s: %w", cfg.RedisAddr, err)
		}
		log.Debugf("session store: redis %s ns=%s", cfg.RedisAddr, cfg.RedisNamespace)
		return NewRedisStorage(client, cfg.RedisNamespace), client.Close, nil

	case config.StoreFile, "":
		fs, err := NewFileStorage(cfg.StateDir)
		if err != nil {
			return nil, noop, err
		}
		log.Debugf("session store: file %s", fs.Path())
		return fs, noop, nil
	}
	return nil, noop, fmt.Errorf("kv.Open: unknown store %q", cfg.Store)
}
