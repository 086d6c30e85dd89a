package kafka

import (
	"strings"
	"time"

	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/service/orders"
)

// EventDTO is a data transfer object for orders.Event
type EventDTO struct {
	OrderID         string         `json:"order_id"`
	Status          string         `json:"status"`
	BuyerID         string         `json:"buyer_id,omitempty"`
	SellerID        string         `json:"seller_id,omitempty"`
	PickupAddress   domain.Address `json:"pickup_address"`
	DeliveryAddress domain.Address `json:"delivery_address"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ToDomain converts EventDTO to orders.Event
func ToDomain(dto EventDTO) orders.Event {
	return orders.Event{
		OrderID:         strings.TrimSpace(dto.OrderID),
		Status:          strings.TrimSpace(dto.Status),
		BuyerID:         strings.TrimSpace(dto.BuyerID),
		SellerID:        strings.TrimSpace(dto.SellerID),
		PickupAddress:   dto.PickupAddress,
		DeliveryAddress: dto.DeliveryAddress,
		CreatedAt:       dto.CreatedAt,
	}
}

// StatusEventDTO is the wire form of a delivery status event
type StatusEventDTO struct {
	DeliveryID     string    `json:"delivery_id"`
	OrderID        string    `json:"order_id"`
	TrackingNumber string    `json:"tracking_number"`
	From           string    `json:"from"`
	To             string    `json:"to"`
	At             time.Time `json:"at"`
}

// FromStatusEvent converts domain.StatusEvent to its wire form
func FromStatusEvent(e domain.StatusEvent) StatusEventDTO {
	return StatusEventDTO{
		DeliveryID:     e.DeliveryID,
		OrderID:        e.OrderID,
		TrackingNumber: e.TrackingNumber,
		From:           string(e.From),
		To:             string(e.To),
		At:             e.At.UTC(),
	}
}
