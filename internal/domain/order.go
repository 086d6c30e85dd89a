package domain

import (
	"strings"
	"time"
)

// OrderStatus is the marketplace order status.
type OrderStatus string

// List of order statuses
const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderReturned   OrderStatus = "returned"
)

var allowedOrderStatuses = [...]OrderStatus{
	OrderPending, OrderConfirmed, OrderProcessing, OrderShipped,
	OrderDelivered, OrderCancelled, OrderReturned,
}

// Valid checks if the OrderStatus is valid
func (s OrderStatus) Valid() bool {
	for _, v := range allowedOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order can no longer change status.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderDelivered, OrderCancelled, OrderReturned:
		return true
	default:
		return false
	}
}

// NormalizeOrderStatus lowercases and trims raw.
func NormalizeOrderStatus(raw string) OrderStatus {
	return OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
}

// Order is the marketplace order a delivery belongs to.
type Order struct {
	ID              string
	BuyerID         string
	SellerID        string
	Status          OrderStatus
	DeliveryID      *string
	PickupAddress   Address
	DeliveryAddress Address
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderStatusFor maps a terminal delivery status onto the order status it implies.
func OrderStatusFor(s DeliveryStatus) (OrderStatus, bool) {
	switch s {
	case StatusDelivered:
		return OrderDelivered, true
	case StatusCancelled:
		return OrderCancelled, true
	case StatusReturned:
		return OrderReturned, true
	case StatusPickedUp:
		return OrderShipped, true
	default:
		return "", false
	}
}
