package bill

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/application/adapter"
	domainerror "github.com/divvy/backend/internal/domain/error"
)

// DeleteBillInput represents the input for deleting a bill.
type DeleteBillInput struct {
	BillID   uuid.UUID
	CallerID uuid.UUID
}

// DeleteBillUseCase handles bill deletion.
type DeleteBillUseCase struct {
	billRepo     adapter.BillRepository
	balanceCache adapter.BalanceCache
}

// NewDeleteBillUseCase creates a new DeleteBillUseCase instance.
func NewDeleteBillUseCase(billRepo adapter.BillRepository, balanceCache adapter.BalanceCache) *DeleteBillUseCase {
	return &DeleteBillUseCase{billRepo: billRepo, balanceCache: balanceCache}
}

// Execute soft-deletes the bill and drops its cached balances. Only the
// owner may delete it. The owning event's running total is not rewound.
func (uc *DeleteBillUseCase) Execute(ctx context.Context, input DeleteBillInput) error {
	bill, err := uc.billRepo.FindByID(ctx, input.BillID)
	if err != nil {
		return domainerror.NewBillError(
			domainerror.ErrCodeBillNotFound,
			"bill not found",
			domainerror.ErrBillNotFound,
		)
	}

	if bill.OwnerID != input.CallerID {
		return domainerror.NewBillError(
			domainerror.ErrCodeNotBillOwner,
			"only the bill owner may delete it",
			domainerror.ErrNotBillOwner,
		)
	}

	if err := uc.billRepo.Delete(ctx, bill.ID); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}

	_ = uc.balanceCache.Invalidate(ctx, bill.ID)
	return nil
}
