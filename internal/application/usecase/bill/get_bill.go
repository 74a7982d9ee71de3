package bill

import (
	"context"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/application/adapter"
	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
)

// GetBillInput represents the input for fetching a single bill.
type GetBillInput struct {
	BillID   uuid.UUID
	CallerID uuid.UUID
}

// GetBillOutput represents the output of fetching a single bill.
type GetBillOutput struct {
	Bill *entity.Bill
}

// GetBillUseCase handles single bill retrieval.
type GetBillUseCase struct {
	billRepo  adapter.BillRepository
	eventRepo adapter.EventRepository
}

// NewGetBillUseCase creates a new GetBillUseCase instance.
func NewGetBillUseCase(billRepo adapter.BillRepository, eventRepo adapter.EventRepository) *GetBillUseCase {
	return &GetBillUseCase{billRepo: billRepo, eventRepo: eventRepo}
}

// Execute fetches the bill. Only members of the owning event may view it.
func (uc *GetBillUseCase) Execute(ctx context.Context, input GetBillInput) (*GetBillOutput, error) {
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

	return &GetBillOutput{Bill: bill}, nil
}
