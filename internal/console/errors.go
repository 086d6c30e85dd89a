package console

import "errors"

var (
	// ErrBusy is returned when another console action is still in flight.
	ErrBusy = errors.New("another action is in progress")
	// ErrNoDelivery is returned by actions that need a resolved delivery.
	ErrNoDelivery = errors.New("no delivery loaded")
	// ErrConfirmFirst is returned when the delivery could not be created from the order.
	ErrConfirmFirst = errors.New("delivery not found: confirm the order first")
	// ErrOrderClosed is returned for a final order that never got a delivery.
	ErrOrderClosed = errors.New("order is closed and has no delivery")
	// ErrNotReady is returned when the delivery did not appear after confirmation.
	ErrNotReady = errors.New("delivery is still being created: retry shortly")
	// ErrIllegalTransition is returned for a status outside the allowed next set.
	ErrIllegalTransition = errors.New("status is not an allowed next step")
)

// FormError is an assignment form validation failure; no request was sent.
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string { return e.Message }
