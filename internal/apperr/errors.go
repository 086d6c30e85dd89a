package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError carries a user-facing reason for an ErrInvalid failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// Unwrap lets errors.Is(err, ErrInvalid) match.
func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Invalid builds a ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// TransitionError reports an illegal status change; it matches ErrConflict.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return "invalid status transition from " + e.From + " to " + e.To
}

// Unwrap lets errors.Is(err, ErrConflict) match.
func (e *TransitionError) Unwrap() error { return ErrConflict }

// OrderClosedError reports a change to an order that already reached a final status.
// It matches ErrConflict.
type OrderClosedError struct {
	OrderID string
	Status  string
}

func (e *OrderClosedError) Error() string {
	return "order " + e.OrderID + " is already " + e.Status
}

func (e *OrderClosedError) Unwrap() error { return ErrConflict }
