package event

import (
	"context"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/application/adapter"
	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
)

// GetEventInput represents the input for fetching a single event.
type GetEventInput struct {
	EventID  uuid.UUID
	CallerID uuid.UUID
}

// GetEventOutput represents the output of fetching a single event.
type GetEventOutput struct {
	Event *entity.Event
}

// GetEventUseCase handles single event retrieval.
type GetEventUseCase struct {
	eventRepo adapter.EventRepository
}

// NewGetEventUseCase creates a new GetEventUseCase instance.
func NewGetEventUseCase(eventRepo adapter.EventRepository) *GetEventUseCase {
	return &GetEventUseCase{eventRepo: eventRepo}
}

// Execute fetches the event. Only roster members may view an event.
func (uc *GetEventUseCase) Execute(ctx context.Context, input GetEventInput) (*GetEventOutput, error) {
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

	return &GetEventOutput{Event: event}, nil
}
