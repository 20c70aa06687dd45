package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code so wrapped copies of the sentinel values below
// still compare equal under errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of base carrying err as its cause.
func Wrap(base *Error, err error) *Error {
	return &Error{Code: base.Code, Message: base.Message, Err: err}
}

// Payment pipeline error taxonomy.
//
// ErrAuthentication and ErrModeMismatch reject the request before any state
// mutation. ErrNotVerified means the gateway re-check did not confirm a
// successful charge: the webhook acknowledges it and performs no side
// effects. ErrMissingContact and ErrIncompleteMetadata are terminal for the
// payment in question; the payment row stays recorded but no booking is
// created.
var (
	ErrAuthentication     = New(http.StatusUnauthorized, "Webhook signature verification failed", nil)
	ErrModeMismatch       = New(http.StatusUnauthorized, "Live/test mode mismatch between server and event", nil)
	ErrNotVerified        = New(http.StatusPaymentRequired, "Payment not verified as succeeded by gateway", nil)
	ErrMissingContact     = New(http.StatusUnprocessableEntity, "No user identity or contact email resolvable for payment", nil)
	ErrIncompleteMetadata = New(http.StatusUnprocessableEntity, "Payment metadata is missing required booking parameters", nil)
	ErrPaymentNotFound    = New(http.StatusNotFound, "Payment not found", nil)
)
