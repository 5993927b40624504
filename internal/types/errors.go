package types

import "fmt"

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Transport errors
	ErrTransport       ErrorCode = "TRANSPORT_ERROR"
	ErrPermanentDenial ErrorCode = "PERMANENT_DENIAL"
	ErrRetryExhausted  ErrorCode = "RETRY_EXHAUSTED"

	// Record reconstruction errors
	ErrUnknownEvent ErrorCode = "UNKNOWN_EVENT"
	ErrInvariant    ErrorCode = "INVARIANT_VIOLATION"
	ErrDecode       ErrorCode = "DECODE_ERROR"

	// System errors
	ErrStorage      ErrorCode = "STORAGE_ERROR"
	ErrConfig       ErrorCode = "CONFIG_ERROR"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrEmptyPayload ErrorCode = "EMPTY_PAYLOAD"
)

// IngestError represents an ingestion-related error
type IngestError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *IngestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *IngestError) Unwrap() error {
	return e.Err
}

// NewIngestError creates a new IngestError
func NewIngestError(code ErrorCode, message string) *IngestError {
	return &IngestError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in an IngestError
func WrapError(code ErrorCode, message string, err error) *IngestError {
	return &IngestError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsIngestError checks if an error is an IngestError and has a specific code
func IsIngestError(err error, code ErrorCode) bool {
	var ingestErr *IngestError
	if err == nil {
		return false
	}
	if ok := As(err, &ingestErr); !ok {
		return false
	}
	return ingestErr.Code == code
}

// As is a helper function to safely type assert an error to an IngestError
func As(err error, target **IngestError) bool {
	if target == nil {
		return false
	}
	for err != nil {
		if ingestErr, ok := err.(*IngestError); ok {
			*target = ingestErr
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
