package error

import "errors"

// Event domain errors.
var (
	// ErrEventNotFound is returned when an event does not exist.
	ErrEventNotFound = errors.New("event not found")

	// ErrNotEventCreator is returned when a user attempts an operation
	// reserved for the event creator.
	ErrNotEventCreator = errors.New("user is not the event creator")

	// ErrNotEventMember is returned when a user is not on the event roster.
	ErrNotEventMember = errors.New("user is not a member of the event")

	// ErrInvalidCurrency is returned when the requested currency is unsupported.
	ErrInvalidCurrency = errors.New("unsupported currency")

	// ErrInvalidParticipant is returned when a participant entry is malformed.
	ErrInvalidParticipant = errors.New("invalid participant")

	// ErrParticipantNotFound is returned when a referenced participant is not
	// on the event roster.
	ErrParticipantNotFound = errors.New("participant not found on event roster")
)

// EventErrorCode defines error codes for event errors.
// Format: EVT-XXYYYY where XX is category and YYYY is specific error.
type EventErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidCurrency     EventErrorCode = "EVT-010001"
	ErrCodeInvalidParticipant  EventErrorCode = "EVT-010002"
	ErrCodeMissingEventFields  EventErrorCode = "EVT-010003"

	// Access errors (02XXXX)
	ErrCodeEventNotFound       EventErrorCode = "EVT-020001"
	ErrCodeNotEventCreator     EventErrorCode = "EVT-020002"
	ErrCodeNotEventMember      EventErrorCode = "EVT-020003"
	ErrCodeParticipantNotFound EventErrorCode = "EVT-020004"
)

// EventError represents an event error with code and message.
type EventError struct {
	Code    EventErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *EventError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *EventError) Unwrap() error {
	return e.Err
}

// NewEventError creates a new EventError with the given code and message.
func NewEventError(code EventErrorCode, message string, err error) *EventError {
	return &EventError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
