package bill

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/application/adapter"
	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
)

// UpdateBillInput represents the input for updating bill metadata. Only
// title and note can change; a bill's financial fields are fixed at
// creation. Nil fields are left unchanged.
type UpdateBillInput struct {
	BillID   uuid.UUID
	CallerID uuid.UUID
	Title    *string
	Note     *string
}

// UpdateBillOutput represents the output of updating a bill.
type UpdateBillOutput struct {
	Bill *entity.Bill
}

// UpdateBillUseCase handles bill metadata updates.
type UpdateBillUseCase struct {
	billRepo adapter.BillRepository
}

// NewUpdateBillUseCase creates a new UpdateBillUseCase instance.
func NewUpdateBillUseCase(billRepo adapter.BillRepository) *UpdateBillUseCase {
	return &UpdateBillUseCase{billRepo: billRepo}
}

// Execute updates the bill. Only the owner may update it.
func (uc *UpdateBillUseCase) Execute(ctx context.Context, input UpdateBillInput) (*UpdateBillOutput, error) {
	bill, err := uc.billRepo.FindByID(ctx, input.BillID)
	if err != nil {
		return nil, domainerror.NewBillError(
			domainerror.ErrCodeBillNotFound,
			"bill not found",
			domainerror.ErrBillNotFound,
		)
	}

	if bill.OwnerID != input.CallerID {
		return nil, domainerror.NewBillError(
			domainerror.ErrCodeNotBillOwner,
			"only the bill owner may update it",
			domainerror.ErrNotBillOwner,
		)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, domainerror.NewBillError(
				domainerror.ErrCodeMissingBillFields,
				"bill title cannot be empty",
				nil,
			)
		}
		bill.Title = *input.Title
	}
	if input.Note != nil {
		bill.Note = *input.Note
	}
	bill.UpdatedAt = time.Now().UTC()

	if err := uc.billRepo.Update(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}

	return &UpdateBillOutput{Bill: bill}, nil
}
