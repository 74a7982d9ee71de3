package bill

import (
	"context"

	"github.com/divvy/backend/internal/application/adapter"
	domainerror "github.com/divvy/backend/internal/domain/error"
)

// ExtractItemsInput represents the input for receipt item extraction.
type ExtractItemsInput struct {
	ImageData []byte
	MimeType  string
}

// ExtractItemsOutput represents the output of receipt item extraction.
type ExtractItemsOutput struct {
	Items      []adapter.ExtractedItem
	TaxPercent string
}

// ExtractItemsUseCase turns a receipt photo into a draft item list the
// caller can edit before creating a bill.
type ExtractItemsUseCase struct {
	extractor adapter.ReceiptExtractor
}

// NewExtractItemsUseCase creates a new ExtractItemsUseCase instance.
func NewExtractItemsUseCase(extractor adapter.ReceiptExtractor) *ExtractItemsUseCase {
	return &ExtractItemsUseCase{extractor: extractor}
}

// Execute runs the extraction. Deployments without an extraction provider
// report unavailability rather than failing opaquely.
func (uc *ExtractItemsUseCase) Execute(ctx context.Context, input ExtractItemsInput) (*ExtractItemsOutput, error) {
	if !uc.extractor.IsAvailable() {
		return nil, domainerror.NewBillError(
			domainerror.ErrCodeExtractorUnavailable,
			"receipt extraction is not configured",
			domainerror.ErrExtractorUnavailable,
		)
	}

	if len(input.ImageData) == 0 {
		return nil, domainerror.NewBillError(
			domainerror.ErrCodeMissingBillFields,
			"receipt image is required",
			nil,
		)
	}

	receipt, err := uc.extractor.ExtractItems(ctx, input.ImageData, input.MimeType)
	if err != nil {
		return nil, domainerror.NewBillError(
			domainerror.ErrCodeExtractionFailed,
			"failed to extract items from receipt",
			err,
		)
	}

	return &ExtractItemsOutput{
		Items:      receipt.Items,
		TaxPercent: receipt.TaxPercent.String(),
	}, nil
}
