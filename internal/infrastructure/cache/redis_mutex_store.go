package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/awqaf/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// RedisMutexStore implements MutexStore on Redis. SETNX with a TTL
// gives an atomic acquire suitable for fencing a sweep across multiple
// running instances; the TTL bounds how long a crashed holder can keep
// the lock.
type RedisMutexStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisMutexStore creates a Redis-backed mutex store
func NewRedisMutexStore(cfg *config.RedisConfig) (*RedisMutexStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisMutexStore{
		client:    client,
		keyPrefix: "mutex:",
	}, nil
}

// NewRedisMutexStoreWithClient creates a store with an existing Redis
// client. Useful for testing or sharing a client across components.
func NewRedisMutexStoreWithClient(client *redis.Client, keyPrefix string) *RedisMutexStore {
	if keyPrefix == "" {
		keyPrefix = "mutex:"
	}
	return &RedisMutexStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

var _ shared.MutexStore = (*RedisMutexStore)(nil)

// Acquire attempts to take the named lock for ttl.
// Returns true if this caller obtained it, false if another holder exists.
func (s *RedisMutexStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %q: %w", key, err)
	}
	return ok, nil
}

// Release frees the named lock
func (s *RedisMutexStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release lock %q: %w", key, err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisMutexStore) Close() error {
	return s.client.Close()
}
