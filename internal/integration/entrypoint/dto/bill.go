// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/divvy/backend/internal/application/adapter"
	"github.com/divvy/backend/internal/domain/entity"
	"github.com/divvy/backend/internal/domain/split"
)

// BillItemRequest is one line item in a bill creation request. SplitType
// and SplitBetween are required for by_item bills and ignored otherwise.
type BillItemRequest struct {
	Name         string          `json:"name" binding:"required"`
	Quantity     int             `json:"quantity" binding:"required,min=1"`
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	SplitType    *string         `json:"split_type"`
	SplitBetween []string        `json:"split_between"`
}

// ManualShareRequest is one caller-supplied share for a manual bill.
// Participant references a roster member by user id or display name.
type ManualShareRequest struct {
	Participant string          `json:"participant" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// CreateBillRequest represents the request body for bill creation.
type CreateBillRequest struct {
	Title        string               `json:"title" binding:"required,min=1,max=200"`
	Note         string               `json:"note"`
	SplitType    string               `json:"split_type" binding:"required"`
	Items        []BillItemRequest    `json:"items" binding:"required,min=1"`
	TaxPercent   decimal.Decimal      `json:"tax_percent"`
	PaidBy       string               `json:"paid_by" binding:"required"`
	ManualShares []ManualShareRequest `json:"manual_shares"`
}

// UpdateBillRequest represents the request body for bill updates. Only
// title and note may change after creation.
type UpdateBillRequest struct {
	Title *string `json:"title"`
	Note  *string `json:"note"`
}

// BillItemResponse represents one bill line item in API responses.
type BillItemResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Quantity     int                   `json:"quantity"`
	UnitPrice    string                `json:"unit_price"`
	TotalPrice   string                `json:"total_price"`
	SplitType    *string               `json:"split_type,omitempty"`
	SplitBetween []ParticipantResponse `json:"split_between,omitempty"`
}

// UserShareResponse represents one computed share in API responses.
type UserShareResponse struct {
	Participant ParticipantResponse `json:"participant"`
	Share       string              `json:"share"`
}

// BillResponse represents a bill in API responses.
type BillResponse struct {
	ID          string              `json:"id"`
	EventID     string              `json:"event_id"`
	OwnerID     string              `json:"owner_id"`
	Title       string              `json:"title"`
	Note        string              `json:"note,omitempty"`
	SplitType   string              `json:"split_type"`
	Items       []BillItemResponse  `json:"items"`
	Subtotal    string              `json:"subtotal"`
	TaxPercent  string              `json:"tax_percent"`
	TotalAmount string              `json:"total_amount"`
	PaidBy      ParticipantResponse `json:"paid_by"`
	Shares      []UserShareResponse `json:"shares"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// BillListResponse represents the response for listing an event's bills.
type BillListResponse struct {
	Bills []BillResponse `json:"bills"`
}

// BalanceResponse represents one debtor-creditor pair in API responses.
type BalanceResponse struct {
	Debtor     ParticipantResponse `json:"debtor"`
	Creditor   ParticipantResponse `json:"creditor"`
	AmountOwed string              `json:"amount_owed"`
}

// BalanceListResponse represents the response for a bill's balances.
type BalanceListResponse struct {
	Balances []BalanceResponse `json:"balances"`
}

// ExtractedItemResponse represents one draft item read from a receipt.
type ExtractedItemResponse struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// ExtractItemsResponse represents the response for receipt extraction.
type ExtractItemsResponse struct {
	Items      []ExtractedItemResponse `json:"items"`
	TaxPercent string                  `json:"tax_percent"`
}

// ToBillResponse converts a domain Bill entity to a BillResponse DTO.
func ToBillResponse(bill *entity.Bill) BillResponse {
	items := make([]BillItemResponse, 0, len(bill.Items))
	for _, item := range bill.Items {
		itemResp := BillItemResponse{
			ID:         item.ID.String(),
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.StringFixed(2),
			TotalPrice: item.TotalPrice.StringFixed(2),
		}
		if item.SplitType != nil {
			st := string(*item.SplitType)
			itemResp.SplitType = &st
			itemResp.SplitBetween = make([]ParticipantResponse, 0, len(item.SplitBetween))
			for _, p := range item.SplitBetween {
				itemResp.SplitBetween = append(itemResp.SplitBetween, ToParticipantResponse(p))
			}
		}
		items = append(items, itemResp)
	}

	shares := make([]UserShareResponse, 0, len(bill.Shares))
	for _, s := range bill.Shares {
		shares = append(shares, UserShareResponse{
			Participant: ToParticipantResponse(s.Participant),
			Share:       s.Share.StringFixed(2),
		})
	}

	return BillResponse{
		ID:          bill.ID.String(),
		EventID:     bill.EventID.String(),
		OwnerID:     bill.OwnerID.String(),
		Title:       bill.Title,
		Note:        bill.Note,
		SplitType:   string(bill.SplitType),
		Items:       items,
		Subtotal:    bill.Subtotal.StringFixed(2),
		TaxPercent:  bill.TaxPercent.StringFixed(2),
		TotalAmount: bill.TotalAmount.StringFixed(2),
		PaidBy:      ToParticipantResponse(bill.PaidBy),
		Shares:      shares,
		CreatedAt:   bill.CreatedAt,
		UpdatedAt:   bill.UpdatedAt,
	}
}

// ToBillListResponse converts a slice of bills to the list response.
func ToBillListResponse(bills []*entity.Bill) BillListResponse {
	out := BillListResponse{Bills: make([]BillResponse, 0, len(bills))}
	for _, b := range bills {
		out.Bills = append(out.Bills, ToBillResponse(b))
	}
	return out
}

// ToBalanceListResponse converts computed balances to the list response.
func ToBalanceListResponse(balances []split.Balance) BalanceListResponse {
	out := BalanceListResponse{Balances: make([]BalanceResponse, 0, len(balances))}
	for _, b := range balances {
		out.Balances = append(out.Balances, BalanceResponse{
			Debtor:     ToParticipantResponse(b.Debtor),
			Creditor:   ToParticipantResponse(b.Creditor),
			AmountOwed: b.AmountOwed.StringFixed(2),
		})
	}
	return out
}

// ToExtractItemsResponse converts extracted receipt items to the response.
func ToExtractItemsResponse(items []adapter.ExtractedItem, taxPercent string) ExtractItemsResponse {
	out := ExtractItemsResponse{
		Items:      make([]ExtractedItemResponse, 0, len(items)),
		TaxPercent: taxPercent,
	}
	for _, item := range items {
		out.Items = append(out.Items, ExtractedItemResponse{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
		})
	}
	return out
}
