//go:generate mockgen -source=contracts.go -destination=delivery_mocks_test.go -package=delivery_test

package delivery

import (
	"context"
	"time"

	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/ports/deliverytx"
)

type deliveryRepository interface {
	WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) error
	GetDeliveryByID(ctx context.Context, id string) (*domain.Delivery, error)
	GetDeliveryByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error)
}

// Cache is a read cache of deliveries keyed by order ID.
// Get returns (nil, nil) on a miss. Set keeps an entry with a newer UpdatedAt.
type Cache interface {
	Get(ctx context.Context, orderID string) (*domain.Delivery, error)
	Set(ctx context.Context, d *domain.Delivery) error
	Delete(ctx context.Context, orderID string) error
}

// EventPublisher receives status events after they are committed.
type EventPublisher interface {
	Publish(ctx context.Context, e domain.StatusEvent) error
}

// IDFactory generates delivery identifiers.
type IDFactory interface {
	NewID() string
	TrackingNumber(now time.Time) string
}
