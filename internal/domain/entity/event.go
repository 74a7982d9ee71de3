// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency represents the currency all bills of an event are denominated in.
type Currency string

const (
	CurrencyVND Currency = "VND"
	CurrencyUSD Currency = "USD"
	CurrencyJPY Currency = "JPY"
)

// IsValidCurrency reports whether the given currency is supported.
func IsValidCurrency(c Currency) bool {
	return c == CurrencyVND || c == CurrencyUSD || c == CurrencyJPY
}

// Event represents a shared-expense occasion. It owns a participant roster
// and a collection of bills; the roster is the default distribution set for
// equal splits.
type Event struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Currency     Currency
	CreatorID    uuid.UUID
	Participants []Participant
	TotalAmount  decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewEvent creates a new Event entity with the creator already on the roster.
func NewEvent(name, description string, currency Currency, creator Participant, creatorID uuid.UUID) *Event {
	now := time.Now().UTC()

	return &Event{
		ID:           uuid.New(),
		Name:         name,
		Description:  description,
		Currency:     currency,
		CreatorID:    creatorID,
		Participants: []Participant{creator},
		TotalAmount:  decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AddParticipant appends a participant to the roster unless someone with the
// same identity is already present. It reports whether the roster changed.
func (e *Event) AddParticipant(p Participant) bool {
	for _, existing := range e.Participants {
		if SameIdentity(existing, p) {
			return false
		}
	}
	e.Participants = append(e.Participants, p)
	return true
}

// ResolveParticipant finds a roster member by reference string: a registered
// participant's user id, or a display name. It returns false when no roster
// member matches.
func (e *Event) ResolveParticipant(ref string) (Participant, bool) {
	for _, p := range e.Participants {
		if p.Registered() && p.UserID.String() == ref {
			return p, true
		}
		if p.Name == ref {
			return p, true
		}
	}
	return Participant{}, false
}

// IsMember reports whether the given user id is on the roster.
func (e *Event) IsMember(userID uuid.UUID) bool {
	for _, p := range e.Participants {
		if p.Registered() && *p.UserID == userID {
			return true
		}
	}
	return false
}
