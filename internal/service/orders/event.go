package orders

import (
	"time"

	"agrimarket-delivery/internal/domain"
)

// Event is a single marketplace order event
type Event struct {
	OrderID         string         `json:"order_id"`
	Status          string         `json:"status"`
	BuyerID         string         `json:"buyer_id"`
	SellerID        string         `json:"seller_id"`
	PickupAddress   domain.Address `json:"pickup_address"`
	DeliveryAddress domain.Address `json:"delivery_address"`
	CreatedAt       time.Time      `json:"created_at"`
}

// order returns the order snapshot carried by the event.
func (e Event) order(status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:              e.OrderID,
		BuyerID:         e.BuyerID,
		SellerID:        e.SellerID,
		Status:          status,
		PickupAddress:   e.PickupAddress,
		DeliveryAddress: e.DeliveryAddress,
	}
}
