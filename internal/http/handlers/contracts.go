package handlers

import (
	"context"
	"net/http"

	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/roster"
	"agrimarket-delivery/internal/service/delivery"
	"agrimarket-delivery/internal/service/orders"
)

type deliveryUsecase interface {
	GetByID(ctx context.Context, id string) (*domain.Delivery, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error)
	AssignDriver(ctx context.Context, id string, in delivery.AssignDriverInput) (*domain.Delivery, error)
	UpdateStatus(ctx context.Context, id, status, note string) (*domain.Delivery, error)
	NextStatuses(ctx context.Context, id string) ([]domain.DeliveryStatus, error)
	Roster() []roster.DefaultDriver
}

// NewDeliveryUsecase wires a delivery Service into a deliveryUsecase.
func NewDeliveryUsecase(svc *delivery.Service) deliveryUsecase {
	return svc
}

type orderUsecase interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
}

// NewOrderUsecase wires an orders Service into an orderUsecase.
func NewOrderUsecase(svc *orders.Service) orderUsecase {
	return svc
}

// StatusStreamer upgrades a request into a live status stream for one delivery.
type StatusStreamer interface {
	Serve(w http.ResponseWriter, r *http.Request, deliveryID string)
}
