// Package cache stores resolved lookups under "<country>:<code>" keys
// with a TTL. The Store interface keeps the backend pluggable: the
// in-memory implementation is the default for single-instance
// deployments, the Redis one shares state across instances.
package cache

import (
	"context"
	"time"

	"github.com/havenwell/waypoint/internal/models"
)

// Store is a TTL key-value backend for resolved responses.
type Store interface {
	// Get returns the live entry for key, or found == false on a miss
	// or an expired entry.
	Get(ctx context.Context, key string) (models.ResolvedResponse, bool, error)

	// Put writes value under key for the given TTL.
	Put(ctx context.Context, key string, value models.ResolvedResponse, ttl time.Duration) error

	// Delete removes key if present.
	Delete(ctx context.Context, key string) error

	// Len reports the number of stored entries, for health reporting.
	Len(ctx context.Context) (int, error)
}
