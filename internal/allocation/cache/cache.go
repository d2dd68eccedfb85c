// Package cache keeps a Redis snapshot of the derived capacity table so other
// consumers (dashboards, sibling processes) can read it without the roster.
// The allocation service never makes offer or commit decisions from this
// cache; it is written on derive and explicitly invalidated on reset/reload.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ctabha/coop-training/internal/allocation"
)

const capacityKey = "coop:capacity"

// CapacityCache stores capacity table snapshots in Redis.
type CapacityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a capacity cache. A zero ttl keeps snapshots until invalidated.
func New(client *redis.Client, ttl time.Duration) *CapacityCache {
	return &CapacityCache{client: client, ttl: ttl}
}

// Put stores the capacity table snapshot.
func (c *CapacityCache) Put(ctx context.Context, table allocation.CapacityTable) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode capacity table: %w", err)
	}
	if err := c.client.Set(ctx, capacityKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache capacity table: %w", err)
	}
	return nil
}

// Get returns the cached capacity table, or ok=false on a miss.
func (c *CapacityCache) Get(ctx context.Context) (allocation.CapacityTable, bool, error) {
	raw, err := c.client.Get(ctx, capacityKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read capacity cache: %w", err)
	}
	var table allocation.CapacityTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, false, fmt.Errorf("decode capacity cache: %w", err)
	}
	return table, true, nil
}

// Invalidate drops the cached snapshot. Called on administrative reset and
// roster reload so the forced recompute path is always authoritative.
func (c *CapacityCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, capacityKey).Err(); err != nil {
		return fmt.Errorf("invalidate capacity cache: %w", err)
	}
	return nil
}
