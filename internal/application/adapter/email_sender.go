// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ResendID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService defines the interface for queueing emails.
type EmailService interface {
	// QueueEventInvitationEmail queues an event invitation email.
	QueueEventInvitationEmail(ctx context.Context, input QueueEventInvitationInput) error
}

// QueueEventInvitationInput represents the input for queueing an event invitation email.
type QueueEventInvitationInput struct {
	InviterName  string
	EventName    string
	Currency     string
	InviteeEmail string
	InviteeName  string
	EventURL     string
}
