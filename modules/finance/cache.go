package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// snapshotTTL bounds how stale a cached report may be. Reports are
// advisory, so a short window of staleness is acceptable.
const snapshotTTL = 2 * time.Minute

// SnapshotCache stores computed reports in Redis, keyed by tenant and
// report window. A nil cache is valid and disables caching entirely, so
// callers never need to branch on availability.
type SnapshotCache struct {
	client *redis.Client
	prefix string
}

// NewSnapshotCache creates a report cache on the given Redis client.
func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{client: client, prefix: "finance:report:"}
}

// Key derives the cache key for one report window. Rate overrides are
// part of the key so two callers with different fee inputs never share
// a snapshot.
func (c *SnapshotCache) Key(tenantID string, from, to time.Time, rates RateConfig) string {
	return fmt.Sprintf("%s:%d:%d:%.2f:%.2f:%.2f:%.2f:%d",
		tenantID, from.Unix(), to.Unix(),
		rates.DeliveryFee, rates.ReturnFee, rates.ManualExpenses, rates.AdvertisingCosts, rates.WorkerCount)
}

// Get returns the cached report for key, reporting whether it was found.
func (c *SnapshotCache) Get(ctx context.Context, key string) (*Report, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}

	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("report cache get error: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, false, fmt.Errorf("report cache unmarshal error: %w", err)
	}
	return &report, true, nil
}

// Set stores a report under key.
func (c *SnapshotCache) Set(ctx context.Context, key string, report *Report) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("report cache marshal error: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("report cache set error: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection.
func (c *SnapshotCache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
