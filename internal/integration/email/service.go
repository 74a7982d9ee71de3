// Package email provides email sending functionality.
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/divvy/backend/internal/application/adapter"
	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
)

// Service handles email queueing operations.
type Service struct {
	queue      adapter.EmailQueueRepository
	appBaseURL string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, appBaseURL string) *Service {
	return &Service{
		queue:      queue,
		appBaseURL: appBaseURL,
	}
}

// QueueEventInvitationEmail queues an event invitation email.
func (s *Service) QueueEventInvitationEmail(ctx context.Context, input adapter.QueueEventInvitationInput) error {
	subject := fmt.Sprintf("%s invited you to %s - Divvy", input.InviterName, input.EventName)

	templateData := map[string]interface{}{
		"inviter_name": input.InviterName,
		"invitee_name": input.InviteeName,
		"event_name":   input.EventName,
		"currency":     input.Currency,
		"event_url":    s.absoluteURL(input.EventURL),
	}

	job := entity.NewEmailJob(
		entity.TemplateEventInvitation,
		input.InviteeEmail,
		input.InviteeName,
		subject,
		templateData,
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue event invitation email",
			err,
		)
	}

	return nil
}

// absoluteURL prefixes app-relative paths with the configured base URL.
func (s *Service) absoluteURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(s.appBaseURL, "/") + path
}

// Ensure Service implements adapter.EmailService.
var _ adapter.EmailService = (*Service)(nil)
