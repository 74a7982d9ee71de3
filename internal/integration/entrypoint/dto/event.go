// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/divvy/backend/internal/domain/entity"
)

// ParticipantRequest describes one person to add to an event roster.
type ParticipantRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateEventRequest represents the request body for event creation.
type CreateEventRequest struct {
	Name         string               `json:"name" binding:"required,min=1,max=200"`
	Description  string               `json:"description"`
	Currency     string               `json:"currency" binding:"required"`
	Participants []ParticipantRequest `json:"participants"`
}

// UpdateEventRequest represents the request body for event updates.
// Only the provided fields are changed; currency is fixed at creation.
type UpdateEventRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AddParticipantsRequest represents the request body for roster extension.
type AddParticipantsRequest struct {
	Participants []ParticipantRequest `json:"participants" binding:"required,min=1"`
}

// ParticipantResponse represents one roster member in API responses.
type ParticipantResponse struct {
	Name    string `json:"name"`
	UserID  string `json:"user_id,omitempty"`
	IsGuest bool   `json:"is_guest"`
}

// EventResponse represents an event in API responses.
type EventResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Description  string                `json:"description,omitempty"`
	Currency     string                `json:"currency"`
	CreatorID    string                `json:"creator_id"`
	Participants []ParticipantResponse `json:"participants"`
	TotalAmount  string                `json:"total_amount"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// EventListResponse represents the response for listing events.
type EventListResponse struct {
	Events []EventResponse `json:"events"`
}

// AddParticipantsResponse represents the response for roster extension.
type AddParticipantsResponse struct {
	Event EventResponse `json:"event"`
	Added int           `json:"added"`
}

// ToParticipantResponse converts a domain Participant to its DTO.
func ToParticipantResponse(p entity.Participant) ParticipantResponse {
	resp := ParticipantResponse{
		Name:    p.Name,
		IsGuest: p.IsGuest,
	}
	if p.UserID != nil {
		resp.UserID = p.UserID.String()
	}
	return resp
}

// ToEventResponse converts a domain Event entity to an EventResponse DTO.
func ToEventResponse(event *entity.Event) EventResponse {
	participants := make([]ParticipantResponse, 0, len(event.Participants))
	for _, p := range event.Participants {
		participants = append(participants, ToParticipantResponse(p))
	}

	return EventResponse{
		ID:           event.ID.String(),
		Name:         event.Name,
		Description:  event.Description,
		Currency:     string(event.Currency),
		CreatorID:    event.CreatorID.String(),
		Participants: participants,
		TotalAmount:  event.TotalAmount.StringFixed(2),
		CreatedAt:    event.CreatedAt,
		UpdatedAt:    event.UpdatedAt,
	}
}

// ToEventListResponse converts a slice of events to the list response.
func ToEventListResponse(events []*entity.Event) EventListResponse {
	out := EventListResponse{Events: make([]EventResponse, 0, len(events))}
	for _, e := range events {
		out.Events = append(out.Events, ToEventResponse(e))
	}
	return out
}
