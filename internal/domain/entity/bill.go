// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SplitType represents the policy used to distribute a bill's cost.
type SplitType string

const (
	SplitTypeByItem  SplitType = "by_item"
	SplitTypeEqually SplitType = "equally"
	SplitTypeManual  SplitType = "manual"
)

// IsValidSplitType reports whether the given split type is one of the
// three supported policies.
func IsValidSplitType(t SplitType) bool {
	return t == SplitTypeByItem || t == SplitTypeEqually || t == SplitTypeManual
}

// ItemSplitType describes who shares a single line item under the by-item
// policy.
type ItemSplitType string

const (
	ItemSplitEveryone ItemSplitType = "everyone"
	ItemSplitCustom   ItemSplitType = "custom"
)

// BillItem is one line of a bill. SplitType and SplitBetween are only set
// for bills using the by-item policy.
type BillItem struct {
	ID           uuid.UUID
	Name         string
	Quantity     int
	UnitPrice    decimal.Decimal
	TotalPrice   decimal.Decimal
	SplitType    *ItemSplitType
	SplitBetween []Participant
}

// UserShare is one participant's computed obligation on a bill, rounded to
// two decimal places.
type UserShare struct {
	Participant Participant
	Share       decimal.Decimal
}

// Bill is the aggregate root for one expense inside an event. Its financial
// fields (items, subtotal, tax, total, shares, payer) are fixed at creation;
// only title and note may change afterwards.
type Bill struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	EventID     uuid.UUID
	Title       string
	Note        string
	SplitType   SplitType
	Items       []BillItem
	Subtotal    decimal.Decimal
	TaxPercent  decimal.Decimal
	TotalAmount decimal.Decimal
	PaidBy      Participant
	Shares      []UserShare
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// NewBill assembles a Bill from a completed split computation.
func NewBill(
	ownerID, eventID uuid.UUID,
	title, note string,
	splitType SplitType,
	items []BillItem,
	subtotal, taxPercent, totalAmount decimal.Decimal,
	paidBy Participant,
	shares []UserShare,
) *Bill {
	now := time.Now().UTC()

	return &Bill{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		EventID:     eventID,
		Title:       title,
		Note:        note,
		SplitType:   splitType,
		Items:       items,
		Subtotal:    subtotal,
		TaxPercent:  taxPercent,
		TotalAmount: totalAmount,
		PaidBy:      paidBy,
		Shares:      shares,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
