package error

import "errors"

// Bill domain errors.
var (
	// ErrBillNotFound is returned when a bill does not exist or is deleted.
	ErrBillNotFound = errors.New("bill not found")

	// ErrNotBillOwner is returned when a user attempts to modify a bill they
	// do not own.
	ErrNotBillOwner = errors.New("user is not the bill owner")

	// ErrInvalidSplitType is returned when the requested split policy is not
	// one of by_item, equally or manual.
	ErrInvalidSplitType = errors.New("invalid split type")

	// ErrItemSplitMissing is returned when a by-item bill carries an item
	// without split metadata.
	ErrItemSplitMissing = errors.New("item is missing split information")

	// ErrEmptyRoster is returned when a split would distribute over zero
	// participants.
	ErrEmptyRoster = errors.New("no participants to split between")

	// ErrManualSharesMissing is returned when a manual bill carries no shares.
	ErrManualSharesMissing = errors.New("manual split requires explicit shares")

	// ErrManualSharesMismatch is returned when manual shares do not sum to
	// the bill total.
	ErrManualSharesMismatch = errors.New("manual shares do not sum to bill total")

	// ErrInvalidBillItem is returned when a bill item is malformed.
	ErrInvalidBillItem = errors.New("invalid bill item")

	// ErrExtractorUnavailable is returned when receipt extraction is not
	// configured on this deployment.
	ErrExtractorUnavailable = errors.New("receipt extraction is not available")

	// ErrExtractionFailed is returned when the extraction provider could not
	// read the receipt.
	ErrExtractionFailed = errors.New("failed to extract items from receipt")
)

// BillErrorCode defines error codes for bill errors.
// Format: BILL-XXYYYY where XX is category and YYYY is specific error.
type BillErrorCode string

const (
	// Split validation errors (01XXXX)
	ErrCodeInvalidSplitType     BillErrorCode = "BILL-010001"
	ErrCodeItemSplitMissing     BillErrorCode = "BILL-010002"
	ErrCodeEmptyRoster          BillErrorCode = "BILL-010003"
	ErrCodeManualSharesMissing  BillErrorCode = "BILL-010004"
	ErrCodeManualSharesMismatch BillErrorCode = "BILL-010005"
	ErrCodeInvalidBillItem      BillErrorCode = "BILL-010006"
	ErrCodeMissingBillFields    BillErrorCode = "BILL-010007"

	// Access errors (02XXXX)
	ErrCodeBillNotFound BillErrorCode = "BILL-020001"
	ErrCodeNotBillOwner BillErrorCode = "BILL-020002"

	// Extraction errors (03XXXX)
	ErrCodeExtractorUnavailable BillErrorCode = "BILL-030001"
	ErrCodeExtractionFailed     BillErrorCode = "BILL-030002"
)

// BillError represents a bill error with code and message.
type BillError struct {
	Code    BillErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BillError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BillError) Unwrap() error {
	return e.Err
}

// NewBillError creates a new BillError with the given code and message.
func NewBillError(code BillErrorCode, message string, err error) *BillError {
	return &BillError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
