// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/domain/entity"
)

// BillRepository defines the interface for bill persistence operations.
// Deleted bills are soft-deleted and excluded from reads.
type BillRepository interface {
	// Create creates a new bill in the database.
	Create(ctx context.Context, bill *entity.Bill) error

	// FindByID retrieves a bill by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)

	// FindByEvent retrieves all bills of an event, newest first.
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]*entity.Bill, error)

	// Update updates a bill's mutable metadata (title and note).
	Update(ctx context.Context, bill *entity.Bill) error

	// Delete soft-deletes a bill.
	Delete(ctx context.Context, id uuid.UUID) error
}
