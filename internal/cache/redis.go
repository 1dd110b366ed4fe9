package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/havenwell/waypoint/internal/models"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces lookup entries so Len can count them without
// touching unrelated keys in a shared database.
const keyPrefix = "waypoint:lookup:"

// RedisStore is a Store backed by a shared Redis instance, for
// deployments running more than one replica.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (models.ResolvedResponse, bool, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.ResolvedResponse{}, false, nil
	}
	if err != nil {
		return models.ResolvedResponse{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var value models.ResolvedResponse
	if err = json.Unmarshal(data, &value); err != nil {
		return models.ResolvedResponse{}, false, fmt.Errorf("failed to decode cache entry: %w", err)
	}

	return value, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value models.ResolvedResponse, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err = s.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}

	return nil
}

// Len counts entries under the lookup prefix. Redis expires keys on its
// own, so the count only includes live entries.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	var count int
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan cache entries: %w", err)
	}

	return count, nil
}

var _ Store = (*RedisStore)(nil)
