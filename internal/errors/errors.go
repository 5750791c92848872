package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeInvalidGrade  = "INVALID_GRADE"
	ErrCodeInvalidRecord = "INVALID_RECORD"
	ErrCodePersist       = "PERSIST_ERROR"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "INVALID_GRADE")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInvalidGradeError reports a grade outside the four accepted values.
// This is a caller bug and is never retried.
func NewInvalidGradeError(grade string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidGrade,
		Message: fmt.Sprintf("invalid grade %q: must be one of again, hard, good, easy", grade),
		Status:  400,
	}
}

// NewInvalidRecordError reports a review record that violates a scheduling
// invariant. This indicates data corruption; the record is surfaced for
// manual repair, never silently fixed.
func NewInvalidRecordError(cardID int64, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidRecord,
		Message: fmt.Sprintf("review record for card %d is invalid: %s", cardID, reason),
		Status:  422,
	}
}

// NewPersistError wraps a transient storage failure. The caller may retry
// without re-grading.
func NewPersistError(err error) *AppError {
	return &AppError{
		Code:    ErrCodePersist,
		Message: "failed to persist review record",
		Status:  503,
		Err:     err,
	}
}

// NewConflictError creates a new CONFLICT error
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  409,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}
