package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/application/adapter"
	domainerror "github.com/divvy/backend/internal/domain/error"
)

// DeleteEventInput represents the input for deleting an event.
type DeleteEventInput struct {
	EventID  uuid.UUID
	CallerID uuid.UUID
}

// DeleteEventUseCase handles event deletion.
type DeleteEventUseCase struct {
	eventRepo adapter.EventRepository
}

// NewDeleteEventUseCase creates a new DeleteEventUseCase instance.
func NewDeleteEventUseCase(eventRepo adapter.EventRepository) *DeleteEventUseCase {
	return &DeleteEventUseCase{eventRepo: eventRepo}
}

// Execute deletes the event and its bills. Only the creator may delete it.
func (uc *DeleteEventUseCase) Execute(ctx context.Context, input DeleteEventInput) error {
	event, err := uc.eventRepo.FindByID(ctx, input.EventID)
	if err != nil {
		return domainerror.NewEventError(
			domainerror.ErrCodeEventNotFound,
			"event not found",
			domainerror.ErrEventNotFound,
		)
	}

	if event.CreatorID != input.CallerID {
		return domainerror.NewEventError(
			domainerror.ErrCodeNotEventCreator,
			"only the event creator may delete it",
			domainerror.ErrNotEventCreator,
		)
	}

	if err := uc.eventRepo.Delete(ctx, event.ID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
