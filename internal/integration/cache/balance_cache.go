// Package cache implements Redis-backed caches for derived read models.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/divvy/backend/internal/application/adapter"
	"github.com/divvy/backend/internal/domain/split"
)

// balanceTTL bounds staleness after out-of-band writes; explicit
// invalidation handles deletes.
const balanceTTL = 5 * time.Minute

// balanceCache implements the adapter.BalanceCache interface on Redis.
type balanceCache struct {
	client *redis.Client
}

// NewBalanceCache creates a new Redis-backed balance cache.
func NewBalanceCache(client *redis.Client) adapter.BalanceCache {
	return &balanceCache{
		client: client,
	}
}

func balanceKey(billID uuid.UUID) string {
	return fmt.Sprintf("balances:%s", billID)
}

// Get returns the cached balances for a bill, if present.
func (c *balanceCache) Get(ctx context.Context, billID uuid.UUID) ([]split.Balance, bool, error) {
	data, err := c.client.Get(ctx, balanceKey(billID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var balances []split.Balance
	if err := json.Unmarshal(data, &balances); err != nil {
		// A corrupt entry behaves like a miss.
		return nil, false, nil
	}
	return balances, true, nil
}

// Set stores the balances for a bill.
func (c *balanceCache) Set(ctx context.Context, billID uuid.UUID, balances []split.Balance) error {
	data, err := json.Marshal(balances)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, balanceKey(billID), data, balanceTTL).Err()
}

// Invalidate drops the cached balances for a bill.
func (c *balanceCache) Invalidate(ctx context.Context, billID uuid.UUID) error {
	return c.client.Del(ctx, balanceKey(billID)).Err()
}
