package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// Cache keeps the resolved permission codes of a user for a short time.
// Implementations must be safe for concurrent use.
//
// Version returns a token that changes whenever the user's entry is invalidated or the cache is
// purged. Set stores codes only while version is still current, so a fill that raced with an
// invalidation is dropped.
type Cache interface {
	Get(ctx context.Context, userID uuid.UUID) ([]string, bool, error)
	Version(ctx context.Context, userID uuid.UUID) (string, error)
	Set(ctx context.Context, userID uuid.UUID, version string, codes []string) error
	Invalidate(ctx context.Context, userIDs ...uuid.UUID) error
	Purge(ctx context.Context) error
}

// MemoryCache is a per-process expiring LRU cache.
type MemoryCache struct {
	lru *expirable.LRU[uuid.UUID, []string]

	mu sync.Mutex
	// generation changes on every invalidation or purge.
	generation uint64
}

// NewMemoryCache creates a cache holding up to size users for ttl.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: expirable.NewLRU[uuid.UUID, []string](size, nil, ttl)}
}

// Get implements Cache.
func (m *MemoryCache) Get(_ context.Context, userID uuid.UUID) ([]string, bool, error) {
	codes, ok := m.lru.Get(userID)

	return codes, ok, nil
}

// Version implements Cache.
func (m *MemoryCache) Version(_ context.Context, _ uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return strconv.FormatUint(m.generation, 10), nil
}

// Set implements Cache.
func (m *MemoryCache) Set(_ context.Context, userID uuid.UUID, version string, codes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if version != strconv.FormatUint(m.generation, 10) {
		return nil
	}

	m.lru.Add(userID, codes)

	return nil
}

// Invalidate implements Cache.
func (m *MemoryCache) Invalidate(_ context.Context, userIDs ...uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++

	for _, id := range userIDs {
		m.lru.Remove(id)
	}

	return nil
}

// Purge implements Cache.
func (m *MemoryCache) Purge(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	m.lru.Purge()

	return nil
}

// RedisCache shares resolved permissions between instances.
// Keys carry a generation number, Purge bumps it so every old key becomes unreachable.
// Every user also has a version counter that Invalidate bumps. Set watches both counters
// and skips the write when either moved since Version was read.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a redis backed cache with keys below prefix.
func NewRedisCache(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisCache) generationKey() string {
	return r.prefix + ":gen"
}

func (r *RedisCache) versionKey(userID uuid.UUID) string {
	return r.prefix + ":ver:" + userID.String()
}

func (r *RedisCache) dataKey(gen int64, userID uuid.UUID) string {
	return fmt.Sprintf("%s:%d:%s", r.prefix, gen, userID)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readCounter(ctx context.Context, c stringGetter, key string) (int64, error) {
	n, err := c.Get(ctx, key).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}

	return n, nil
}

// counters returns the cache generation and the version of the user.
func (r *RedisCache) counters(ctx context.Context, c stringGetter, userID uuid.UUID) (int64, int64, error) {
	gen, err := readCounter(ctx, c, r.generationKey())
	if err != nil {
		return 0, 0, err
	}

	ver, err := readCounter(ctx, c, r.versionKey(userID))
	if err != nil {
		return 0, 0, err
	}

	return gen, ver, nil
}

// Get implements Cache.
func (r *RedisCache) Get(ctx context.Context, userID uuid.UUID) ([]string, bool, error) {
	gen, err := readCounter(ctx, r.client, r.generationKey())
	if err != nil {
		return nil, false, err
	}

	key := r.dataKey(gen, userID)

	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var codes []string
	if err := json.Unmarshal(raw, &codes); err != nil {
		return nil, false, fmt.Errorf("decode cached permissions: %w", err)
	}

	return codes, true, nil
}

// Version implements Cache.
func (r *RedisCache) Version(ctx context.Context, userID uuid.UUID) (string, error) {
	gen, ver, err := r.counters(ctx, r.client, userID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d:%d", gen, ver), nil
}

// Set implements Cache.
func (r *RedisCache) Set(ctx context.Context, userID uuid.UUID, version string, codes []string) error {
	raw, err := json.Marshal(codes)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		gen, ver, err := r.counters(ctx, tx, userID)
		if err != nil {
			return err
		}

		if fmt.Sprintf("%d:%d", gen, ver) != version {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.dataKey(gen, userID), raw, r.ttl)

			return nil
		})

		return err //nolint:wrapcheck
	}, r.generationKey(), r.versionKey(userID))

	// a counter moved between WATCH and EXEC, the fill is stale
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("redis set permissions of %s: %w", userID, err)
	}

	return nil
}

// Invalidate implements Cache.
func (r *RedisCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}

	gen, err := readCounter(ctx, r.client, r.generationKey())
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range userIDs {
			pipe.Incr(ctx, r.versionKey(id))
			pipe.Del(ctx, r.dataKey(gen, id))
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}

	return nil
}

// Purge implements Cache.
func (r *RedisCache) Purge(ctx context.Context) error {
	if err := r.client.Incr(ctx, r.generationKey()).Err(); err != nil {
		return fmt.Errorf("bump cache generation: %w", err)
	}

	return nil
}
