package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/c-library/catalog-admin/internal/core/domain"
)

const statsKey = "catalog:stats"

// StatsCache keeps the dashboard statistics in Redis for a short TTL so the
// dashboard does not hit the remote catalog API on every load. A confirmed
// catalog mutation does not invalidate the entry; the next fetch after
// expiry is authoritative.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a StatsCache. A non-positive ttl defaults to one
// minute.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached statistics, or (nil, nil) on a cache miss.
func (c *StatsCache) Get(ctx context.Context) (*domain.GeneralStats, error) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var stats domain.GeneralStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Set stores the statistics until the TTL elapses.
func (c *StatsCache) Set(ctx context.Context, stats *domain.GeneralStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey, raw, c.ttl).Err()
}
