// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/divvy/backend/internal/application/adapter"
	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
	"github.com/divvy/backend/internal/integration/persistence/model"
)

// eventRepository implements the adapter.EventRepository interface.
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository instance.
func NewEventRepository(db *gorm.DB) adapter.EventRepository {
	return &eventRepository{
		db: db,
	}
}

// Create creates a new event in the database.
func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	eventModel := model.EventFromEntity(event)
	result := r.db.WithContext(ctx).Create(eventModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves an event by its ID.
func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	var eventModel model.EventModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&eventModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrEventNotFound
		}
		return nil, result.Error
	}
	return eventModel.ToEntity(), nil
}

// FindByMember retrieves all events the given user participates in, newest
// first. The sqlite test database stores the member id array as text, so
// membership is matched by substring there.
func (r *eventRepository) FindByMember(ctx context.Context, userID uuid.UUID) ([]*entity.Event, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if r.db.Dialector.Name() == "postgres" {
		query = query.Where("? = ANY(member_ids)", userID.String())
	} else {
		query = query.Where("member_ids LIKE ?", "%"+userID.String()+"%")
	}

	var eventModels []model.EventModel
	if result := query.Find(&eventModels); result.Error != nil {
		return nil, result.Error
	}

	events := make([]*entity.Event, 0, len(eventModels))
	for i := range eventModels {
		events = append(events, eventModels[i].ToEntity())
	}
	return events, nil
}

// Update updates an existing event in the database.
func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	eventModel := model.EventFromEntity(event)
	result := r.db.WithContext(ctx).Save(eventModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete removes an event and its bills from the database.
func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("event_id = ?", id).Delete(&model.BillModel{}); result.Error != nil {
			return result.Error
		}
		if result := tx.Delete(&model.EventModel{}, "id = ?", id); result.Error != nil {
			return result.Error
		}
		return nil
	})
}
