package bill

import (
	"context"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/application/adapter"
	domainerror "github.com/divvy/backend/internal/domain/error"
	"github.com/divvy/backend/internal/domain/split"
)

// GetBalancesInput represents the input for computing a bill's balances.
type GetBalancesInput struct {
	BillID   uuid.UUID
	CallerID uuid.UUID
}

// GetBalancesOutput represents the output of computing a bill's balances.
type GetBalancesOutput struct {
	Balances []split.Balance
}

// GetBalancesUseCase derives the who-owes-whom view for one bill. Results
// are cached per bill; cache failures fall back to recomputation.
type GetBalancesUseCase struct {
	billRepo     adapter.BillRepository
	eventRepo    adapter.EventRepository
	balanceCache adapter.BalanceCache
}

// NewGetBalancesUseCase creates a new GetBalancesUseCase instance.
func NewGetBalancesUseCase(
	billRepo adapter.BillRepository,
	eventRepo adapter.EventRepository,
	balanceCache adapter.BalanceCache,
) *GetBalancesUseCase {
	return &GetBalancesUseCase{
		billRepo:     billRepo,
		eventRepo:    eventRepo,
		balanceCache: balanceCache,
	}
}

// Execute returns the balances derived from the bill's stored shares and
// payer. Only members of the owning event may view them.
func (uc *GetBalancesUseCase) Execute(ctx context.Context, input GetBalancesInput) (*GetBalancesOutput, error) {
	bill, err := uc.billRepo.FindByID(ctx, input.BillID)
	if err != nil {
		return nil, domainerror.NewBillError(
			domainerror.ErrCodeBillNotFound,
			"bill not found",
			domainerror.ErrBillNotFound,
		)
	}

	event, err := uc.eventRepo.FindByID(ctx, bill.EventID)
	if err != nil {
		return nil, domainerror.NewEventError(
			domainerror.ErrCodeEventNotFound,
			"event not found",
			domainerror.ErrEventNotFound,
		)
	}
	if !event.IsMember(input.CallerID) {
		return nil, domainerror.NewEventError(
			domainerror.ErrCodeNotEventMember,
			"caller is not a member of this event",
			domainerror.ErrNotEventMember,
		)
	}

	if cached, ok, err := uc.balanceCache.Get(ctx, bill.ID); err == nil && ok {
		return &GetBalancesOutput{Balances: cached}, nil
	}

	balances := split.ComputeBalances(bill)
	_ = uc.balanceCache.Set(ctx, bill.ID, balances)

	return &GetBalancesOutput{Balances: balances}, nil
}
