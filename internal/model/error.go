package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeCategoryNotFound     = "CATEGORY_NOT_FOUND"
	ErrCodePromotionNotFound    = "PROMOTION_NOT_FOUND"
	ErrCodeInvalidCode          = "INVALID_CODE"
	ErrCodePromotionDisabled    = "PROMOTION_DISABLED"
	ErrCodePromotionNotInWindow = "PROMOTION_NOT_IN_WINDOW"
	ErrCodeUsageLimitExceeded   = "USAGE_LIMIT_EXCEEDED"
	ErrCodeBelowMinimumPurchase = "BELOW_MINIMUM_PURCHASE"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure carrying a stable code so that
// callers can render a precise message. Infrastructure faults are never
// wrapped in a DomainError; they propagate as plain wrapped errors.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a domain error for a structurally invalid
// request, rejected before any persistence.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// Common domain errors
var (
	ErrProductNotFound      = NewDomainError(ErrCodeProductNotFound, "one or more products not found")
	ErrCategoryNotFound     = NewDomainError(ErrCodeCategoryNotFound, "category not found")
	ErrPromotionNotFound    = NewDomainError(ErrCodePromotionNotFound, "promotion not found")
	ErrInvalidCode          = NewDomainError(ErrCodeInvalidCode, "promotion code not found")
	ErrPromotionDisabled    = NewDomainError(ErrCodePromotionDisabled, "promotion is disabled")
	ErrPromotionNotInWindow = NewDomainError(ErrCodePromotionNotInWindow, "promotion is not within its validity window")
	ErrUsageLimitExceeded   = NewDomainError(ErrCodeUsageLimitExceeded, "promotion usage limit exceeded")
	ErrBelowMinimumPurchase = NewDomainError(ErrCodeBelowMinimumPurchase, "subtotal is below the minimum purchase amount")
)
