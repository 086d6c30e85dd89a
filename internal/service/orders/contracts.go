//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders_test

package orders

import (
	"context"

	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/ports/deliverytx"
)

// TxRunner abstracts running a function within a storage transaction
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) error
}

// OrderRepository is the storage used by the orders Service
type OrderRepository interface {
	TxRunner
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
}

// DeliveryPort abstracts the subset of delivery service operations
// needed when an order changes status
type DeliveryPort interface {
	CreateInTx(ctx context.Context, tx deliverytx.Repository, o *domain.Order) (*domain.Delivery, bool, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error)
	UpdateStatus(ctx context.Context, id, status, note string) (*domain.Delivery, error)
}
