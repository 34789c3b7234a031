package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is lets errors.Is match by code so detail-carrying instances compare
// equal to the sentinels below
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Code == t.Code
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

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrValidation          = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrOverReceipt         = NewDomainError("OVER_RECEIPT", "Received quantity exceeds ordered quantity")
)

// NewInsufficientStockError builds an INSUFFICIENT_STOCK error carrying the
// product name and the available/requested quantities
func NewInsufficientStockError(productName string, available, requested decimal.Decimal) *DomainError {
	return NewDomainError(
		ErrInsufficientStock.Code,
		fmt.Sprintf("Insufficient stock for %s: available %s, requested %s",
			productName, available.String(), requested.String()),
	)
}

// NewOverReceiptError builds an OVER_RECEIPT error for a purchase order line
func NewOverReceiptError(productName string, ordered, received decimal.Decimal) *DomainError {
	return NewDomainError(
		ErrOverReceipt.Code,
		fmt.Sprintf("Cannot receive %s of %s: only %s ordered",
			received.String(), productName, ordered.String()),
	)
}

// NewValidationError builds a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrValidation.Code, message)
}

// NewInvalidStateError builds an INVALID_STATE error with a specific message
func NewInvalidStateError(message string) *DomainError {
	return NewDomainError(ErrInvalidState.Code, message)
}
