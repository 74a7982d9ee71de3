package event

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/application/adapter"
	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
)

// UpdateEventInput represents the input for updating event metadata.
// Nil fields are left unchanged. Currency is fixed at creation because
// stored bill amounts are denominated in it.
type UpdateEventInput struct {
	EventID     uuid.UUID
	CallerID    uuid.UUID
	Name        *string
	Description *string
}

// UpdateEventOutput represents the output of updating an event.
type UpdateEventOutput struct {
	Event *entity.Event
}

// UpdateEventUseCase handles event metadata updates.
type UpdateEventUseCase struct {
	eventRepo adapter.EventRepository
}

// NewUpdateEventUseCase creates a new UpdateEventUseCase instance.
func NewUpdateEventUseCase(eventRepo adapter.EventRepository) *UpdateEventUseCase {
	return &UpdateEventUseCase{eventRepo: eventRepo}
}

// Execute updates the event. Only the creator may update it.
func (uc *UpdateEventUseCase) Execute(ctx context.Context, input UpdateEventInput) (*UpdateEventOutput, error) {
	event, err := uc.eventRepo.FindByID(ctx, input.EventID)
	if err != nil {
		return nil, domainerror.NewEventError(
			domainerror.ErrCodeEventNotFound,
			"event not found",
			domainerror.ErrEventNotFound,
		)
	}

	if event.CreatorID != input.CallerID {
		return nil, domainerror.NewEventError(
			domainerror.ErrCodeNotEventCreator,
			"only the event creator may update it",
			domainerror.ErrNotEventCreator,
		)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, domainerror.NewEventError(
				domainerror.ErrCodeMissingEventFields,
				"event name cannot be empty",
				nil,
			)
		}
		event.Name = *input.Name
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	event.UpdatedAt = time.Now().UTC()

	if err := uc.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return &UpdateEventOutput{Event: event}, nil
}
