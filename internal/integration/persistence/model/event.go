package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/divvy/backend/internal/domain/entity"
)

// ParticipantDoc is the JSONB representation of one roster member.
type ParticipantDoc struct {
	Name    string     `json:"name"`
	UserID  *uuid.UUID `json:"user_id,omitempty"`
	IsGuest bool       `json:"is_guest"`
}

// ParticipantsJSON represents a JSONB array of participants.
type ParticipantsJSON []ParticipantDoc

// Value implements the driver.Valuer interface.
func (p ParticipantsJSON) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface. The sqlite test database
// returns TEXT columns as string.
func (p *ParticipantsJSON) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("unsupported type for ParticipantsJSON")
	}
}

// toDoc converts a domain participant to its JSONB form.
func toDoc(p entity.Participant) ParticipantDoc {
	return ParticipantDoc{
		Name:    p.Name,
		UserID:  p.UserID,
		IsGuest: p.IsGuest,
	}
}

// toParticipant converts a JSONB document back to a domain participant.
func (d ParticipantDoc) toParticipant() entity.Participant {
	return entity.Participant{
		Name:    d.Name,
		UserID:  d.UserID,
		IsGuest: d.IsGuest,
	}
}

// EventModel represents the events table in the database. MemberIDs
// denormalizes the registered roster members' user ids so membership
// queries avoid unpacking the participants document.
type EventModel struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name         string           `gorm:"type:varchar(255);not null"`
	Description  string           `gorm:"type:text"`
	Currency     string           `gorm:"type:varchar(3);not null"`
	CreatorID    uuid.UUID        `gorm:"type:uuid;index;not null"`
	Participants ParticipantsJSON `gorm:"type:jsonb;not null"`
	MemberIDs    pq.StringArray   `gorm:"type:uuid[]"`
	TotalAmount  decimal.Decimal  `gorm:"type:numeric(18,2);not null;default:0"`
	CreatedAt    time.Time        `gorm:"not null"`
	UpdatedAt    time.Time        `gorm:"not null"`
}

// TableName returns the table name for the EventModel.
func (EventModel) TableName() string {
	return "events"
}

// ToEntity converts an EventModel to a domain Event entity.
func (m *EventModel) ToEntity() *entity.Event {
	participants := make([]entity.Participant, 0, len(m.Participants))
	for _, doc := range m.Participants {
		participants = append(participants, doc.toParticipant())
	}
	return &entity.Event{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Currency:     entity.Currency(m.Currency),
		CreatorID:    m.CreatorID,
		Participants: participants,
		TotalAmount:  m.TotalAmount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// EventFromEntity creates an EventModel from a domain Event entity.
func EventFromEntity(event *entity.Event) *EventModel {
	participants := make(ParticipantsJSON, 0, len(event.Participants))
	memberIDs := make(pq.StringArray, 0, len(event.Participants))
	for _, p := range event.Participants {
		participants = append(participants, toDoc(p))
		if p.Registered() {
			memberIDs = append(memberIDs, p.UserID.String())
		}
	}
	return &EventModel{
		ID:           event.ID,
		Name:         event.Name,
		Description:  event.Description,
		Currency:     string(event.Currency),
		CreatorID:    event.CreatorID,
		Participants: participants,
		MemberIDs:    memberIDs,
		TotalAmount:  event.TotalAmount,
		CreatedAt:    event.CreatedAt,
		UpdatedAt:    event.UpdatedAt,
	}
}
