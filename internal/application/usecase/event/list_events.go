package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/application/adapter"
	"github.com/divvy/backend/internal/domain/entity"
)

// ListEventsInput represents the input for listing a user's events.
type ListEventsInput struct {
	UserID uuid.UUID
}

// ListEventsOutput represents the output of listing a user's events.
type ListEventsOutput struct {
	Events []*entity.Event
}

// ListEventsUseCase handles listing the events a user participates in.
type ListEventsUseCase struct {
	eventRepo adapter.EventRepository
}

// NewListEventsUseCase creates a new ListEventsUseCase instance.
func NewListEventsUseCase(eventRepo adapter.EventRepository) *ListEventsUseCase {
	return &ListEventsUseCase{eventRepo: eventRepo}
}

// Execute lists all events the user is a member of, newest first.
func (uc *ListEventsUseCase) Execute(ctx context.Context, input ListEventsInput) (*ListEventsOutput, error) {
	events, err := uc.eventRepo.FindByMember(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return &ListEventsOutput{Events: events}, nil
}
