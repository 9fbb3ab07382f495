package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (field: %s)", e.Message, e.Field)
	}
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewFieldError creates a new domain error naming the offending field
func NewFieldError(code, field, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Field:   field,
		Message: message,
	}
}

// Error codes used across the engine
const (
	CodeNotFound             = "NOT_FOUND"
	CodeAlreadyExists        = "ALREADY_EXISTS"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeConflictingOperation = "CONFLICTING_OPERATION"
	CodeResolutionFailure    = "RESOLUTION_FAILURE"
	CodeExternalService      = "EXTERNAL_SERVICE_ERROR"
	CodeTimeout              = "TIMEOUT"
)

// Common domain errors
var (
	ErrNotFound             = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists        = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput         = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidTransition    = NewDomainError(CodeInvalidTransition, "Workflow transition not allowed from current stage")
	ErrConflictingOperation = NewDomainError(CodeConflictingOperation, "A conflicting operation is in flight for this resource")
	ErrResolutionFailure    = NewDomainError(CodeResolutionFailure, "Referenced resource could not be resolved")
	ErrExternalService      = NewDomainError(CodeExternalService, "External service call failed")
	ErrTimeout              = NewDomainError(CodeTimeout, "Operation timed out")
)

// IsCode reports whether err is a DomainError with the given code
func IsCode(err error, code string) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
