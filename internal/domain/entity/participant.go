// Package entity defines the core business entities for the domain layer.
package entity

import (
	"github.com/google/uuid"
)

// Participant represents a person who can owe or be owed money on a bill.
// A participant is either a registered user (UserID set) or a guest known
// only by display name.
type Participant struct {
	Name    string
	UserID  *uuid.UUID
	IsGuest bool
}

// NewGuestParticipant creates a Participant that is not backed by a user account.
func NewGuestParticipant(name string) Participant {
	return Participant{
		Name:    name,
		IsGuest: true,
	}
}

// NewRegisteredParticipant creates a Participant backed by a registered user.
func NewRegisteredParticipant(name string, userID uuid.UUID) Participant {
	return Participant{
		Name:   name,
		UserID: &userID,
	}
}

// Registered reports whether the participant is backed by a user account.
func (p Participant) Registered() bool {
	return p.UserID != nil
}

// IdentityKey returns the stable key under which this participant's
// contributions are aggregated: the user id for registered participants,
// the display name for guests.
func (p Participant) IdentityKey() string {
	if p.UserID != nil {
		return p.UserID.String()
	}
	return p.Name
}

// SameIdentity reports whether two participants are the same person.
// Two participants match only when their identity keys are equal AND both
// keys are of the same kind: a guest whose name happens to equal a
// registered participant's name is a different person.
func SameIdentity(a, b Participant) bool {
	if a.Registered() != b.Registered() {
		return false
	}
	return a.IdentityKey() == b.IdentityKey()
}
