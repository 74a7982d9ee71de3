// Package bill contains bill-related use cases.
package bill

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/divvy/backend/internal/application/adapter"
	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
	"github.com/divvy/backend/internal/domain/split"
)

// ItemInput is one bill line as submitted by the caller. SplitType and
// SplitBetween are required for the by-item policy; SplitBetween entries
// are participant references (user id or display name).
type ItemInput struct {
	Name         string
	Quantity     int
	UnitPrice    decimal.Decimal
	SplitType    *string
	SplitBetween []string
}

// ManualShareInput is one caller-supplied share for the manual policy.
// Participant is a reference (user id or display name).
type ManualShareInput struct {
	Participant string
	Amount      decimal.Decimal
}

// CreateBillInput represents the input for bill creation.
type CreateBillInput struct {
	OwnerID      uuid.UUID
	EventID      uuid.UUID
	Title        string
	Note         string
	SplitType    string
	Items        []ItemInput
	TaxPercent   decimal.Decimal
	PaidBy       string
	ManualShares []ManualShareInput
}

// CreateBillOutput represents the output of bill creation.
type CreateBillOutput struct {
	Bill *entity.Bill
}

// CreateBillUseCase handles bill creation: it resolves participants against
// the owning event, runs the selected split policy and persists the result.
type CreateBillUseCase struct {
	eventRepo adapter.EventRepository
	billRepo  adapter.BillRepository
}

// NewCreateBillUseCase creates a new CreateBillUseCase instance.
func NewCreateBillUseCase(
	eventRepo adapter.EventRepository,
	billRepo adapter.BillRepository,
) *CreateBillUseCase {
	return &CreateBillUseCase{
		eventRepo: eventRepo,
		billRepo:  billRepo,
	}
}

// Execute performs the bill creation. A split failure leaves nothing
// persisted.
func (uc *CreateBillUseCase) Execute(ctx context.Context, input CreateBillInput) (*CreateBillOutput, error) {
	if input.Title == "" || len(input.Items) == 0 {
		return nil, domainerror.NewBillError(
			domainerror.ErrCodeMissingBillFields,
			"bill title and at least one item are required",
			nil,
		)
	}
	if input.TaxPercent.IsNegative() {
		return nil, domainerror.NewBillError(
			domainerror.ErrCodeMissingBillFields,
			"tax percentage cannot be negative",
			nil,
		)
	}

	splitType := entity.SplitType(input.SplitType)
	policy, err := split.ForType(splitType)
	if err != nil {
		return nil, err
	}

	event, err := uc.eventRepo.FindByID(ctx, input.EventID)
	if err != nil {
		return nil, domainerror.NewEventError(
			domainerror.ErrCodeEventNotFound,
			"event not found",
			domainerror.ErrEventNotFound,
		)
	}

	if !event.IsMember(input.OwnerID) {
		return nil, domainerror.NewEventError(
			domainerror.ErrCodeNotEventMember,
			"caller is not a member of this event",
			domainerror.ErrNotEventMember,
		)
	}

	paidBy := resolveReference(event, input.PaidBy)

	splitInput, err := buildSplitInput(event, input)
	if err != nil {
		return nil, err
	}

	result, err := policy.Compute(splitInput)
	if err != nil {
		return nil, err
	}

	bill := entity.NewBill(
		input.OwnerID,
		event.ID,
		input.Title,
		input.Note,
		splitType,
		result.Items,
		result.Subtotal,
		input.TaxPercent,
		result.TotalAmount,
		paidBy,
		result.Shares,
	)

	if err := uc.billRepo.Create(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	// The event keeps a running total of its bills. If the total cannot be
	// written the bill insert is undone so the two never diverge.
	event.TotalAmount = event.TotalAmount.Add(bill.TotalAmount)
	if err := uc.eventRepo.Update(ctx, event); err != nil {
		if delErr := uc.billRepo.Delete(ctx, bill.ID); delErr != nil {
			slog.Error("Failed to undo bill insert after event total update failed",
				"bill_id", bill.ID,
				"event_id", event.ID,
				"error", delErr,
			)
		}
		return nil, fmt.Errorf("failed to update event total: %w", err)
	}

	return &CreateBillOutput{Bill: bill}, nil
}

// buildSplitInput translates caller references into domain participants.
func buildSplitInput(event *entity.Event, input CreateBillInput) (split.Input, error) {
	items := make([]split.RawItem, 0, len(input.Items))
	for _, item := range input.Items {
		raw := split.RawItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if item.SplitType != nil {
			st := entity.ItemSplitType(*item.SplitType)
			raw.SplitType = &st
		}
		for _, ref := range item.SplitBetween {
			raw.SplitBetween = append(raw.SplitBetween, resolveReference(event, ref))
		}
		items = append(items, raw)
	}

	manualShares := make([]split.ManualShare, 0, len(input.ManualShares))
	for _, share := range input.ManualShares {
		manualShares = append(manualShares, split.ManualShare{
			Participant: resolveReference(event, share.Participant),
			Amount:      share.Amount,
		})
	}

	return split.Input{
		Items:        items,
		TaxPercent:   input.TaxPercent,
		Roster:       event.Participants,
		ManualShares: manualShares,
	}, nil
}

// resolveReference matches a participant reference against the event roster;
// an unknown reference becomes a new guest carrying just that name.
func resolveReference(event *entity.Event, ref string) entity.Participant {
	if p, ok := event.ResolveParticipant(ref); ok {
		return p
	}
	return entity.NewGuestParticipant(ref)
}
