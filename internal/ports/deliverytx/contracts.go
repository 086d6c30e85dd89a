package deliverytx

import (
	"context"

	"agrimarket-delivery/internal/domain"
)

// Repository is the set of storage operations available inside a transaction.
// Lookups return (nil, nil) when the record does not exist.
type Repository interface {
	GetDeliveryForUpdate(ctx context.Context, id string) (*domain.Delivery, error)
	GetDeliveryByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error)
	InsertDelivery(ctx context.Context, d *domain.Delivery) error
	ApplyAssignment(ctx context.Context, id string, a domain.DriverAssignment) error
	ApplyStatusUpdate(ctx context.Context, id string, u domain.StatusUpdate) error

	GetOrderForUpdate(ctx context.Context, id string) (*domain.Order, error)
	UpsertOrder(ctx context.Context, o *domain.Order) error
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
	SetOrderDelivery(ctx context.Context, orderID, deliveryID string) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
