// Package event contains event-related use cases.
package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/application/adapter"
	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
)

// ParticipantInput describes one person to put on an event roster. When
// Email matches a registered account the participant is linked to it;
// otherwise the person joins as a guest under Name.
type ParticipantInput struct {
	Name  string
	Email string
}

// CreateEventInput represents the input for event creation.
type CreateEventInput struct {
	CreatorID    uuid.UUID
	Name         string
	Description  string
	Currency     string
	Participants []ParticipantInput
}

// CreateEventOutput represents the output of event creation.
type CreateEventOutput struct {
	Event *entity.Event
}

// CreateEventUseCase handles event creation logic.
type CreateEventUseCase struct {
	eventRepo    adapter.EventRepository
	userRepo     adapter.UserRepository
	emailService adapter.EmailService
}

// NewCreateEventUseCase creates a new CreateEventUseCase instance.
func NewCreateEventUseCase(
	eventRepo adapter.EventRepository,
	userRepo adapter.UserRepository,
	emailService adapter.EmailService,
) *CreateEventUseCase {
	return &CreateEventUseCase{
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// Execute performs the event creation.
func (uc *CreateEventUseCase) Execute(ctx context.Context, input CreateEventInput) (*CreateEventOutput, error) {
	if input.Name == "" {
		return nil, domainerror.NewEventError(
			domainerror.ErrCodeMissingEventFields,
			"event name is required",
			nil,
		)
	}

	currency := entity.Currency(input.Currency)
	if !entity.IsValidCurrency(currency) {
		return nil, domainerror.NewEventError(
			domainerror.ErrCodeInvalidCurrency,
			fmt.Sprintf("currency %q is not supported", input.Currency),
			domainerror.ErrInvalidCurrency,
		)
	}

	creator, err := uc.userRepo.FindByID(ctx, input.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}

	event := entity.NewEvent(input.Name, input.Description, currency, creator.AsParticipant(), creator.ID)

	type invite struct {
		participant entity.Participant
		email       string
	}
	var invites []invite

	for _, p := range input.Participants {
		participant, err := resolveParticipant(ctx, uc.userRepo, p)
		if err != nil {
			return nil, err
		}
		// Only people with an account get an invitation; guests have no
		// inbox the app can verify.
		if event.AddParticipant(participant) && participant.Registered() && p.Email != "" {
			invites = append(invites, invite{participant: participant, email: p.Email})
		}
	}

	if err := uc.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	// Invitations go out only after the event is persisted.
	for _, inv := range invites {
		uc.queueInvitation(ctx, creator.FullName(), event, inv.participant, inv.email)
	}

	return &CreateEventOutput{Event: event}, nil
}

// queueInvitation enqueues an invitation email. Queue failures are not
// surfaced; the event operation already succeeded for the caller.
func (uc *CreateEventUseCase) queueInvitation(ctx context.Context, inviterName string, event *entity.Event, participant entity.Participant, email string) {
	_ = uc.emailService.QueueEventInvitationEmail(ctx, adapter.QueueEventInvitationInput{
		InviterName:  inviterName,
		EventName:    event.Name,
		Currency:     string(event.Currency),
		InviteeEmail: email,
		InviteeName:  participant.Name,
		EventURL:     fmt.Sprintf("/events/%s", event.ID),
	})
}

// resolveParticipant turns a participant input into a domain Participant,
// linking it to a registered account when the email matches one.
func resolveParticipant(ctx context.Context, userRepo adapter.UserRepository, input ParticipantInput) (entity.Participant, error) {
	if input.Name == "" && input.Email == "" {
		return entity.Participant{}, domainerror.NewEventError(
			domainerror.ErrCodeInvalidParticipant,
			"participant must have a name or an email",
			domainerror.ErrInvalidParticipant,
		)
	}

	if input.Email != "" {
		user, err := userRepo.FindByEmail(ctx, input.Email)
		if err == nil {
			return user.AsParticipant(), nil
		}
	}

	name := input.Name
	if name == "" {
		name = input.Email
	}
	return entity.NewGuestParticipant(name), nil
}
