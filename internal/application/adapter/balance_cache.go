// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/domain/split"
)

// BalanceCache caches computed balance views per bill. A miss returns
// (nil, false, nil); cache failures must not fail the read path.
type BalanceCache interface {
	// Get returns the cached balances for a bill, if present.
	Get(ctx context.Context, billID uuid.UUID) ([]split.Balance, bool, error)

	// Set stores the balances for a bill.
	Set(ctx context.Context, billID uuid.UUID, balances []split.Balance) error

	// Invalidate drops the cached balances for a bill.
	Invalidate(ctx context.Context, billID uuid.UUID) error
}
