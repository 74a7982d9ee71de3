package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/divvy/backend/internal/domain/entity"
)

// BillItemDoc is the JSONB representation of one bill line.
type BillItemDoc struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Quantity     int              `json:"quantity"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	TotalPrice   decimal.Decimal  `json:"total_price"`
	SplitType    *string          `json:"split_type,omitempty"`
	SplitBetween []ParticipantDoc `json:"split_between,omitempty"`
}

// BillItemsJSON represents a JSONB array of bill items.
type BillItemsJSON []BillItemDoc

// Value implements the driver.Valuer interface.
func (b BillItemsJSON) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements the sql.Scanner interface.
func (b *BillItemsJSON) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return errors.New("unsupported type for BillItemsJSON")
	}
}

// UserShareDoc is the JSONB representation of one computed share.
type UserShareDoc struct {
	Participant ParticipantDoc  `json:"participant"`
	Share       decimal.Decimal `json:"share"`
}

// UserSharesJSON represents a JSONB array of user shares.
type UserSharesJSON []UserShareDoc

// Value implements the driver.Valuer interface.
func (s UserSharesJSON) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface.
func (s *UserSharesJSON) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for UserSharesJSON")
	}
}

// ParticipantJSON represents a single participant stored as JSONB.
type ParticipantJSON ParticipantDoc

// Value implements the driver.Valuer interface.
func (p ParticipantJSON) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface.
func (p *ParticipantJSON) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("unsupported type for ParticipantJSON")
	}
}

// BillModel represents the bills table in the database.
type BillModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	EventID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Title       string          `gorm:"type:varchar(255);not null"`
	Note        string          `gorm:"type:text"`
	SplitType   string          `gorm:"type:varchar(20);not null"`
	Items       BillItemsJSON   `gorm:"type:jsonb;not null"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TaxPercent  decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	PaidBy      ParticipantJSON `gorm:"type:jsonb;not null"`
	Shares      UserSharesJSON  `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
	DeletedAt   gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for the BillModel.
func (BillModel) TableName() string {
	return "bills"
}

// ToEntity converts a BillModel to a domain Bill entity.
func (m *BillModel) ToEntity() *entity.Bill {
	items := make([]entity.BillItem, 0, len(m.Items))
	for _, doc := range m.Items {
		item := entity.BillItem{
			ID:         doc.ID,
			Name:       doc.Name,
			Quantity:   doc.Quantity,
			UnitPrice:  doc.UnitPrice,
			TotalPrice: doc.TotalPrice,
		}
		if doc.SplitType != nil {
			st := entity.ItemSplitType(*doc.SplitType)
			item.SplitType = &st
		}
		for _, p := range doc.SplitBetween {
			item.SplitBetween = append(item.SplitBetween, p.toParticipant())
		}
		items = append(items, item)
	}

	shares := make([]entity.UserShare, 0, len(m.Shares))
	for _, doc := range m.Shares {
		shares = append(shares, entity.UserShare{
			Participant: doc.Participant.toParticipant(),
			Share:       doc.Share,
		})
	}

	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		deletedAt = &t
	}

	return &entity.Bill{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		EventID:     m.EventID,
		Title:       m.Title,
		Note:        m.Note,
		SplitType:   entity.SplitType(m.SplitType),
		Items:       items,
		Subtotal:    m.Subtotal,
		TaxPercent:  m.TaxPercent,
		TotalAmount: m.TotalAmount,
		PaidBy:      ParticipantDoc(m.PaidBy).toParticipant(),
		Shares:      shares,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   deletedAt,
	}
}

// BillFromEntity creates a BillModel from a domain Bill entity.
func BillFromEntity(bill *entity.Bill) *BillModel {
	items := make(BillItemsJSON, 0, len(bill.Items))
	for _, item := range bill.Items {
		doc := BillItemDoc{
			ID:         item.ID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
		if item.SplitType != nil {
			st := string(*item.SplitType)
			doc.SplitType = &st
		}
		for _, p := range item.SplitBetween {
			doc.SplitBetween = append(doc.SplitBetween, toDoc(p))
		}
		items = append(items, doc)
	}

	shares := make(UserSharesJSON, 0, len(bill.Shares))
	for _, share := range bill.Shares {
		shares = append(shares, UserShareDoc{
			Participant: toDoc(share.Participant),
			Share:       share.Share,
		})
	}

	m := &BillModel{
		ID:          bill.ID,
		OwnerID:     bill.OwnerID,
		EventID:     bill.EventID,
		Title:       bill.Title,
		Note:        bill.Note,
		SplitType:   string(bill.SplitType),
		Items:       items,
		Subtotal:    bill.Subtotal,
		TaxPercent:  bill.TaxPercent,
		TotalAmount: bill.TotalAmount,
		PaidBy:      ParticipantJSON(toDoc(bill.PaidBy)),
		Shares:      shares,
		CreatedAt:   bill.CreatedAt,
		UpdatedAt:   bill.UpdatedAt,
	}
	if bill.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *bill.DeletedAt, Valid: true}
	}
	return m
}
