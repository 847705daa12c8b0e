package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrDuplicateSubscription = errors.New("email is already subscribed")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidCheckoutStep   = errors.New("invalid checkout step transition")
	ErrDuplicateUser         = errors.New("username or email already registered")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError is returned for malformed request bodies or queries.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) StatusCode() int { return 400 }

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, rule, msg string) *ValidationError {
	return &ValidationError{
		Message: "Invalid input",
		Fields:  []FieldError{{Field: field, Rule: rule, Message: msg}},
	}
}
