package entity

import (
	"testing"

	"github.com/google/uuid"
)

func TestIdentityKey(t *testing.T) {
	t.Run("guest keys on name", func(t *testing.T) {
		p := NewGuestParticipant("Minh")
		if p.IdentityKey() != "Minh" {
			t.Errorf("expected key Minh, got %s", p.IdentityKey())
		}
	})

	t.Run("registered keys on user id", func(t *testing.T) {
		id := uuid.New()
		p := NewRegisteredParticipant("Minh", id)
		if p.IdentityKey() != id.String() {
			t.Errorf("expected key %s, got %s", id, p.IdentityKey())
		}
	})
}

func TestSameIdentity(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		a        Participant
		b        Participant
		expected bool
	}{
		{
			"guests with equal names match",
			NewGuestParticipant("Minh"),
			NewGuestParticipant("Minh"),
			true,
		},
		{
			"guests with different names differ",
			NewGuestParticipant("Minh"),
			NewGuestParticipant("Hung"),
			false,
		},
		{
			"registered with equal ids match despite different names",
			NewRegisteredParticipant("Minh", id),
			NewRegisteredParticipant("Minh N.", id),
			true,
		},
		{
			"registered with different ids differ",
			NewRegisteredParticipant("Minh", uuid.New()),
			NewRegisteredParticipant("Minh", uuid.New()),
			false,
		},
		{
			"guest never matches registered with same name",
			NewGuestParticipant("Minh"),
			NewRegisteredParticipant("Minh", id),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameIdentity(tt.a, tt.b); got != tt.expected {
				t.Errorf("SameIdentity = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestEventRoster(t *testing.T) {
	creatorID := uuid.New()
	creator := NewRegisteredParticipant("Minh", creatorID)
	event := NewEvent("Da Nang trip", "", CurrencyVND, creator, creatorID)

	t.Run("creator starts on the roster", func(t *testing.T) {
		if len(event.Participants) != 1 {
			t.Fatalf("expected 1 participant, got %d", len(event.Participants))
		}
		if !event.IsMember(creatorID) {
			t.Error("expected creator to be a member")
		}
	})

	t.Run("duplicate identity is rejected", func(t *testing.T) {
		if event.AddParticipant(NewRegisteredParticipant("Minh Nguyen", creatorID)) {
			t.Error("expected duplicate registered identity to be rejected")
		}
		if !event.AddParticipant(NewGuestParticipant("Minh")) {
			t.Error("expected guest with same name to be added as a distinct person")
		}
	})

	t.Run("resolve by user id and by name", func(t *testing.T) {
		if p, ok := event.ResolveParticipant(creatorID.String()); !ok || !p.Registered() {
			t.Error("expected creator resolved by user id")
		}
		if p, ok := event.ResolveParticipant("Minh"); !ok || p.Name != "Minh" {
			t.Error("expected participant resolved by name")
		}
		if _, ok := event.ResolveParticipant("Nobody"); ok {
			t.Error("expected unknown reference to fail resolution")
		}
	})
}
