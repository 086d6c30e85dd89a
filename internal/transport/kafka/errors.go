package kafka

import (
	"errors"
	"fmt"

	"agrimarket-delivery/internal/apperr"
)

// PermanentError marks an event that redelivery cannot fix.
// The consumer commits its offset after logging it.
type PermanentError struct {
	OrderID string
	Err     error
}

func (e PermanentError) Error() string {
	msg := "event rejected"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.OrderID == "" {
		return msg
	}
	return fmt.Sprintf("order %s: %s", e.OrderID, msg)
}

func (e PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the consumer skips the event instead of waiting for redelivery.
func Permanent(err error) error {
	return PermanentError{Err: err}
}

// isPermanent: invalid input and state conflicts (terminal order, illegal transition)
// give the same answer on every redelivery. Everything else is treated as transient.
func isPermanent(err error) bool {
	var pe PermanentError
	return errors.As(err, &pe) ||
		errors.Is(err, apperr.ErrInvalid) ||
		errors.Is(err, apperr.ErrConflict)
}
