package bill

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/application/adapter"
	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
)

// ListBillsInput represents the input for listing an event's bills.
type ListBillsInput struct {
	EventID  uuid.UUID
	CallerID uuid.UUID
}

// ListBillsOutput represents the output of listing an event's bills.
type ListBillsOutput struct {
	Bills []*entity.Bill
}

// ListBillsUseCase handles listing the bills of an event.
type ListBillsUseCase struct {
	billRepo  adapter.BillRepository
	eventRepo adapter.EventRepository
}

// NewListBillsUseCase creates a new ListBillsUseCase instance.
func NewListBillsUseCase(billRepo adapter.BillRepository, eventRepo adapter.EventRepository) *ListBillsUseCase {
	return &ListBillsUseCase{billRepo: billRepo, eventRepo: eventRepo}
}

// Execute lists the event's bills, newest first. Members only.
func (uc *ListBillsUseCase) Execute(ctx context.Context, input ListBillsInput) (*ListBillsOutput, error) {
	event, err := uc.eventRepo.FindByID(ctx, input.EventID)
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

	bills, err := uc.billRepo.FindByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return &ListBillsOutput{Bills: bills}, nil
}
