package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/application/adapter"
	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
)

// AddParticipantsInput represents the input for extending an event roster.
type AddParticipantsInput struct {
	EventID      uuid.UUID
	CallerID     uuid.UUID
	Participants []ParticipantInput
}

// AddParticipantsOutput represents the output of extending an event roster.
type AddParticipantsOutput struct {
	Event *entity.Event
	Added int
}

// AddParticipantsUseCase handles roster extension.
type AddParticipantsUseCase struct {
	eventRepo    adapter.EventRepository
	userRepo     adapter.UserRepository
	emailService adapter.EmailService
}

// NewAddParticipantsUseCase creates a new AddParticipantsUseCase instance.
func NewAddParticipantsUseCase(
	eventRepo adapter.EventRepository,
	userRepo adapter.UserRepository,
	emailService adapter.EmailService,
) *AddParticipantsUseCase {
	return &AddParticipantsUseCase{
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// Execute adds participants to the roster. Only the event creator may
// extend it. Entries matching an existing identity are skipped.
func (uc *AddParticipantsUseCase) Execute(ctx context.Context, input AddParticipantsInput) (*AddParticipantsOutput, error) {
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
			"only the event creator may add participants",
			domainerror.ErrNotEventCreator,
		)
	}

	caller, err := uc.userRepo.FindByID(ctx, input.CallerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load caller: %w", err)
	}

	added := 0
	for _, p := range input.Participants {
		participant, err := resolveParticipant(ctx, uc.userRepo, p)
		if err != nil {
			return nil, err
		}
		if !event.AddParticipant(participant) {
			continue
		}
		added++
		// Only people with an account get an invitation; guests have no
		// inbox the app can verify.
		if participant.Registered() && p.Email != "" {
			_ = uc.emailService.QueueEventInvitationEmail(ctx, adapter.QueueEventInvitationInput{
				InviterName:  caller.FullName(),
				EventName:    event.Name,
				Currency:     string(event.Currency),
				InviteeEmail: p.Email,
				InviteeName:  participant.Name,
				EventURL:     fmt.Sprintf("/events/%s", event.ID),
			})
		}
	}

	if added > 0 {
		if err := uc.eventRepo.Update(ctx, event); err != nil {
			return nil, fmt.Errorf("failed to update event roster: %w", err)
		}
	}

	return &AddParticipantsOutput{Event: event, Added: added}, nil
}
