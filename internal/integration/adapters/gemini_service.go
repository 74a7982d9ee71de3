// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"github.com/divvy/backend/internal/application/adapter"
)

const receiptPrompt = `You are a receipt reader. Extract the line items from the receipt image.

For each purchasable line item return:
- "name": the item description as printed
- "quantity": the integer quantity (1 if not printed)
- "unit_price": the price of a single unit as a decimal string, no currency symbols or thousands separators

Also return:
- "tax_percent": the tax or service charge percentage applied to the whole receipt as a decimal string ("0" if none is printed)

Skip subtotal, tax, total, discount and payment lines. Respond with only a JSON object:
{"items": [{"name": "...", "quantity": 1, "unit_price": "..."}], "tax_percent": "..."}`

// GeminiService implements adapter.ReceiptExtractor using Google Gemini.
type GeminiService struct {
	apiKey    string
	modelName string
}

// NewGeminiService creates a new Gemini service instance.
func NewGeminiService(apiKey, modelName string) *GeminiService {
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiService{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// IsAvailable checks if the Gemini service is available and properly configured.
func (s *GeminiService) IsAvailable() bool {
	return s.apiKey != ""
}

// ExtractItems analyzes a receipt image and returns the recognized line
// items and tax percentage.
func (s *GeminiService) ExtractItems(ctx context.Context, imageData []byte, mimeType string) (*adapter.ExtractedReceipt, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("gemini service is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx,
		genai.ImageData(imageFormat(mimeType), imageData),
		genai.Text(receiptPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	receipt, err := parseReceiptResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return receipt, nil
}

// imageFormat maps a MIME type to the bare format name genai expects.
func imageFormat(mimeType string) string {
	format := strings.TrimPrefix(mimeType, "image/")
	if format == "" {
		return "jpeg"
	}
	return format
}

// geminiReceipt represents the raw response from Gemini.
type geminiReceipt struct {
	Items []struct {
		Name      string `json:"name"`
		Quantity  int    `json:"quantity"`
		UnitPrice string `json:"unit_price"`
	} `json:"items"`
	TaxPercent string `json:"tax_percent"`
}

// parseReceiptResponse parses the Gemini response into an ExtractedReceipt.
func parseReceiptResponse(resp *genai.GenerateContentResponse) (*adapter.ExtractedReceipt, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var textContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			textContent = string(text)
			break
		}
	}
	if textContent == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	// Clean the response (remove markdown code blocks if present)
	textContent = strings.TrimPrefix(textContent, "```json")
	textContent = strings.TrimPrefix(textContent, "```")
	textContent = strings.TrimSuffix(textContent, "```")
	textContent = strings.TrimSpace(textContent)

	var raw geminiReceipt
	if err := json.Unmarshal([]byte(textContent), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	receipt := &adapter.ExtractedReceipt{
		Items: make([]adapter.ExtractedItem, 0, len(raw.Items)),
	}
	for _, item := range raw.Items {
		price, err := decimal.NewFromString(item.UnitPrice)
		if err != nil || price.IsNegative() {
			continue // skip unreadable lines
		}
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		receipt.Items = append(receipt.Items, adapter.ExtractedItem{
			Name:      item.Name,
			Quantity:  quantity,
			UnitPrice: price,
		})
	}

	if tax, err := decimal.NewFromString(raw.TaxPercent); err == nil && !tax.IsNegative() {
		receipt.TaxPercent = tax
	} else {
		receipt.TaxPercent = decimal.Zero
	}

	return receipt, nil
}
