// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExtractedItem is one bill line recognized on a receipt image.
type ExtractedItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// ExtractedReceipt is the structured result of receipt extraction.
type ExtractedReceipt struct {
	Items      []ExtractedItem
	TaxPercent decimal.Decimal
}

// ReceiptExtractor extracts bill items from a receipt image.
type ReceiptExtractor interface {
	// ExtractItems analyzes the given image and returns the recognized
	// line items and tax percentage.
	ExtractItems(ctx context.Context, imageData []byte, mimeType string) (*ExtractedReceipt, error)

	// IsAvailable reports whether the extractor is configured and usable.
	IsAvailable() bool
}
