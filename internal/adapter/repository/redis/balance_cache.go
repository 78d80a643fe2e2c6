package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// BalanceCache implements ledger.BalanceCache on Redis. Balances are
// stored as decimal strings under a short TTL; writers invalidate
// eagerly, so a stale read window is bounded by the TTL.
type BalanceCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewBalanceCache creates a BalanceCache with the given entry TTL.
func NewBalanceCache(client *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{
		client: client,
		prefix: "balance:",
		ttl:    ttl,
	}
}

func (c *BalanceCache) key(accountID int64) string {
	return fmt.Sprintf("%s%d", c.prefix, accountID)
}

// Get returns the cached balance for an account. The second return
// value reports whether the key was present.
func (c *BalanceCache) Get(ctx context.Context, accountID int64) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, c.key(accountID)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("cache get: %w", err)
	}

	balance, err := decimal.NewFromString(val)
	if err != nil {
		// Corrupt entry; treat as a miss so the caller falls
		// through to storage.
		return decimal.Zero, false, nil
	}

	return balance, true, nil
}

// Set stores an account balance.
func (c *BalanceCache) Set(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	if err := c.client.Set(ctx, c.key(accountID), balance.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate removes a cached balance after a mutation.
func (c *BalanceCache) Invalidate(ctx context.Context, accountID int64) error {
	if err := c.client.Del(ctx, c.key(accountID)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
