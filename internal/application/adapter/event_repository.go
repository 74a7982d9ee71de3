// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/domain/entity"
)

// EventRepository defines the interface for event persistence operations.
type EventRepository interface {
	// Create creates a new event in the database.
	Create(ctx context.Context, event *entity.Event) error

	// FindByID retrieves an event by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)

	// FindByMember retrieves all events the given user participates in,
	// newest first.
	FindByMember(ctx context.Context, userID uuid.UUID) ([]*entity.Event, error)

	// Update updates an existing event in the database.
	Update(ctx context.Context, event *entity.Event) error

	// Delete removes an event from the database.
	Delete(ctx context.Context, id uuid.UUID) error
}
