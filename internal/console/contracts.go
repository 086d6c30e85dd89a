package console

import (
	"context"

	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/http/wire"
)

//go:generate mockgen -source=contracts.go -destination=console_mocks_test.go -package=console_test

// API is the part of the delivery HTTP API the console drives.
type API interface {
	GetDeliveryByOrder(ctx context.Context, orderID string) (*domain.Delivery, error)
	GetDelivery(ctx context.Context, id string) (*domain.Delivery, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	AssignDriver(ctx context.Context, id string, req wire.AssignDriverRequest) (*domain.Delivery, error)
	UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus, notes string) (*domain.Delivery, error)
}

// Notifier receives operator-facing messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}
