// Package apperr defines the error taxonomy shared by services and the
// HTTP layer.
//
// Services return *Error values classified by Kind; pkg/response maps
// each kind onto an HTTP status. Storage errors wrap the backend cause
// so callers can still errors.Is/errors.As into it.
package apperr

import "fmt"

// Kind classifies an application error.
type Kind int

const (
	// Validation is malformed or out-of-range input; Fields carries a
	// per-field message map.
	Validation Kind = iota
	// NotFound means the referenced entity does not exist.
	NotFound
	// Conflict means a uniqueness constraint was violated.
	Conflict
	// OutOfStock means a purchase was attempted with nothing available.
	OutOfStock
	// Authentication is a credential mismatch; the message is always the
	// same generic one, whichever of username/password was wrong.
	Authentication
	// Storage is an unexpected backend failure, wrapped.
	Storage
)

// Error is the single error type returned by services.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string // populated for Validation only
	cause   error             // populated for Storage only
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// NewValidation builds a Validation error from a field → message map.
func NewValidation(fields map[string]string) *Error {
	return &Error{Kind: Validation, Message: "Validation failed", Fields: fields}
}

// NewNotFound builds a NotFound error naming the missing entity.
func NewNotFound(what string) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf("%s not found", what)}
}

// NewConflict builds a Conflict error with the given message.
func NewConflict(message string) *Error {
	return &Error{Kind: Conflict, Message: message}
}

// NewOutOfStock builds an OutOfStock error.
func NewOutOfStock() *Error {
	return &Error{Kind: OutOfStock, Message: "Product out of stock"}
}

// NewAuthentication builds the generic credential-mismatch error.
// The message never reveals whether the username or password was wrong.
func NewAuthentication() *Error {
	return &Error{Kind: Authentication, Message: "Invalid credentials"}
}

// WrapStorage wraps an unexpected backend error.
func WrapStorage(err error) *Error {
	return &Error{Kind: Storage, Message: "storage failure", cause: err}
}

// KindOf extracts the Kind from err. ok is false for plain errors.
func KindOf(err error) (Kind, bool) {
	e, ok := err.(*Error)
	if !ok {
		return 0, false
	}
	return e.Kind, true
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
