package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/logger/adapter/redislogger"
)

const redisPingTimeout = 5 * time.Second

// NewCache builds the permission cache the configuration asks for.
// It returns nil for the "none" backend. The returned close func is never nil.
func NewCache(ctx context.Context, cfg config.Cache) (auth.Cache, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.CacheNone, "":
		log.Info().Msg("permission cache disabled")

		return nil, noop, nil
	case config.CacheMemory:
		log.Info().Int("size", cfg.Size).Dur("ttl", cfg.TTL).Msg("using in-memory permission cache")

		return auth.NewMemoryCache(cfg.Size, cfg.TTL), noop, nil
	case config.CacheRedis:
		redis.SetLogger(redislogger.New())

		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()

		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()

			return nil, noop, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}

		log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.TTL).Msg("using redis permission cache")

		return auth.NewRedisCache(client, cfg.KeyPrefix, cfg.TTL), client.Close, nil
	}

	return nil, noop, fmt.Errorf("%w: %s", config.ErrUnsupportedCacheBackend, cfg.Backend)
}
