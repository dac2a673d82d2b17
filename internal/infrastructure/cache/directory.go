package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userhub/dashboard/internal/api/metrics"
	"github.com/userhub/dashboard/internal/core/domain"
)

const directoryKey = "directory:users"

// DirectoryCache caches the full user list in Redis between page loads. The
// TTL keeps the list fresh even if an invalidation is missed (for example, a
// mutation made directly against the backend); any directory mutation made
// through the gateway invalidates eagerly.
type DirectoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDirectoryCache wraps client with the given freshness window.
func NewDirectoryCache(client *redis.Client, ttl time.Duration) *DirectoryCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &DirectoryCache{client: client, ttl: ttl}
}

// Get returns the cached user list, reporting whether the key was present.
func (c *DirectoryCache) Get(ctx context.Context) ([]domain.User, bool, error) {
	raw, err := c.client.Get(ctx, directoryKey).Bytes()
	if err == redis.Nil {
		metrics.DirectoryCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("directory cache get: %w", err)
	}

	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		// A corrupt entry behaves like a miss; the next Put overwrites it.
		metrics.DirectoryCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	metrics.DirectoryCacheTotal.WithLabelValues("hit").Inc()
	return users, true, nil
}

// Put stores the user list for the cache TTL.
func (c *DirectoryCache) Put(ctx context.Context, users []domain.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("directory cache marshal: %w", err)
	}
	return c.client.Set(ctx, directoryKey, raw, c.ttl).Err()
}

// Invalidate drops the cached list so the next read refetches.
func (c *DirectoryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, directoryKey).Err()
}
