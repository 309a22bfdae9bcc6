package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appinv "github.com/restoops/backend/internal/application/inventory"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RedisOnHandCache caches derived on-hand quantities in Redis, keyed by
// (item, branch). It is a best-effort accelerator for the on-hand read path:
// every error degrades to a cache miss so a Redis outage never breaks
// ledger reads, and writes to the ledger invalidate the affected keys.
type RedisOnHandCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisOnHandCache creates a Redis-backed on-hand cache
func NewRedisOnHandCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisOnHandCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisOnHandCache{
		client:    client,
		keyPrefix: "inventory:onhand:",
		ttl:       ttl,
		logger:    logger.Named("onhand-cache"),
	}
}

func (c *RedisOnHandCache) key(itemID, branchID uuid.UUID) string {
	return fmt.Sprintf("%s%s:%s", c.keyPrefix, itemID, branchID)
}

// Get returns the cached on-hand quantity, reporting whether it was found.
// Errors and unparseable values count as misses.
func (c *RedisOnHandCache) Get(ctx context.Context, itemID, branchID uuid.UUID) (decimal.Decimal, bool) {
	val, err := c.client.Get(ctx, c.key(itemID, branchID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("on-hand cache read failed", zap.Error(err))
		}
		return decimal.Zero, false
	}

	qty, err := decimal.NewFromString(val)
	if err != nil {
		c.logger.Warn("on-hand cache held unparseable value",
			zap.String("value", val), zap.Error(err))
		return decimal.Zero, false
	}
	return qty, true
}

// Set stores the on-hand quantity with the configured TTL
func (c *RedisOnHandCache) Set(ctx context.Context, itemID, branchID uuid.UUID, qty decimal.Decimal) {
	if err := c.client.Set(ctx, c.key(itemID, branchID), qty.String(), c.ttl).Err(); err != nil {
		c.logger.Warn("on-hand cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached quantity for an (item, branch) pair
func (c *RedisOnHandCache) Invalidate(ctx context.Context, itemID, branchID uuid.UUID) {
	if err := c.client.Del(ctx, c.key(itemID, branchID)).Err(); err != nil {
		c.logger.Warn("on-hand cache invalidation failed", zap.Error(err))
	}
}

// Close closes the underlying Redis client
func (c *RedisOnHandCache) Close() error {
	return c.client.Close()
}

// Ensure RedisOnHandCache implements the application-level cache interface
var _ appinv.OnHandCache = (*RedisOnHandCache)(nil)
