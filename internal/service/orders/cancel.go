package orders

import (
	"context"
	"errors"

	"agrimarket-delivery/internal/apperr"
	"agrimarket-delivery/internal/domain"
)

const cancelNote = "order cancelled"

// cancelDelivery moves the order's delivery to cancelled.
// A missing or already final delivery is left alone, as is one that finished concurrently.
func cancelDelivery(ctx context.Context, port DeliveryPort, orderID string) (*domain.Delivery, error) {
	d, err := port.GetByOrderID(ctx, orderID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if d.Status.IsTerminal() {
		return nil, nil
	}
	updated, err := port.UpdateStatus(ctx, d.ID, string(domain.StatusCancelled), cancelNote)
	if errors.Is(err, apperr.ErrConflict) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}
