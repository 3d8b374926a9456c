package shared

import "errors"

// Error codes shared by every bounded context.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyExists         = "ALREADY_EXISTS"
	CodeRetrievalFailure      = "RETRIEVAL_FAILURE"
	CodePreconditionViolation = "PRECONDITION_VIOLATION"
	CodeInsufficientStock     = "INSUFFICIENT_STOCK"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches domain errors by code so that sentinel comparisons survive wrapping
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports malformed or out-of-range input
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewNotFoundError reports a missing resource. Ownership mismatches use it too.
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewConflictError reports a uniqueness violation the caller can fix by changing input
func NewConflictError(message string) *DomainError {
	return NewDomainError(CodeAlreadyExists, message)
}

// NewRetrievalFailure wraps a storage or communication fault. Safe to retry.
func NewRetrievalFailure(message string, cause error) *DomainError {
	return &DomainError{
		Code:    CodeRetrievalFailure,
		Message: message,
		cause:   cause,
	}
}

// NewPreconditionViolation reports an integration error such as a missing identity
func NewPreconditionViolation(message string) *DomainError {
	return NewDomainError(CodePreconditionViolation, message)
}

// Common domain errors
var (
	ErrNotFound          = NewNotFoundError("Resource not found")
	ErrAlreadyExists     = NewConflictError("Resource already exists")
	ErrInvalidInput      = NewValidationError("Invalid input provided")
	ErrMissingIdentity   = NewPreconditionViolation("Authenticated user identity is required")
	ErrInsufficientStock = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
)

// IsNotFound reports whether err carries the NOT_FOUND code
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsRetrievalFailure reports whether err carries the RETRIEVAL_FAILURE code
func IsRetrievalFailure(err error) bool {
	return hasCode(err, CodeRetrievalFailure)
}

func hasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
