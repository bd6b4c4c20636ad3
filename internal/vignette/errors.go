package vignette

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by gateway implementations when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrorKind categorizes failures surfaced to the operator.
type ErrorKind int

const (
	// KindValidation is a missing or malformed field, caught before any gateway call.
	KindValidation ErrorKind = iota
	// KindNotFound is an identifier that resolves to no backend record.
	KindNotFound
	// KindMismatch is two identifiers pointing to unrelated records.
	KindMismatch
	// KindAlreadyProcessed is a record already in a terminal state.
	KindAlreadyProcessed
	// KindBackend is a transport failure or a non-success envelope.
	KindBackend
	// KindPriceUnavailable is a missing price quote.
	KindPriceUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindMismatch:
		return "mismatch"
	case KindAlreadyProcessed:
		return "already_processed"
	case KindBackend:
		return "backend"
	case KindPriceUnavailable:
		return "price_unavailable"
	}

	return "unknown"
}

// Error is a categorized, operator-facing failure.
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation builds a KindValidation error for field.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// Backend wraps a gateway failure.
func Backend(message string, cause error) *Error {
	return &Error{Kind: KindBackend, Message: message, Cause: cause}
}

// KindOf returns the kind of err, defaulting to KindBackend for uncategorized errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}

	return KindBackend
}
