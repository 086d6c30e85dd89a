package mongostore

import (
	"time"

	"agrimarket-delivery/internal/domain"
)

type deliveryDoc struct {
	ID              string          `bson:"_id"`
	OrderID         string          `bson:"order_id"`
	BuyerID         string          `bson:"buyer_id"`
	SellerID        string          `bson:"seller_id"`
	TrackingNumber  string          `bson:"tracking_number"`
	Status          string          `bson:"status"`
	Driver          *domain.Driver  `bson:"driver,omitempty"`
	Vehicle         *domain.Vehicle `bson:"vehicle,omitempty"`
	PickupAddress   domain.Address  `bson:"pickup_address"`
	DeliveryAddress domain.Address  `bson:"delivery_address"`

	EstimatedDeliveryTime *time.Time `bson:"estimated_delivery_time,omitempty"`
	AssignedAt            *time.Time `bson:"assigned_at,omitempty"`
	PickedUpAt            *time.Time `bson:"picked_up_at,omitempty"`
	InTransitAt           *time.Time `bson:"in_transit_at,omitempty"`
	ActualDeliveryTime    *time.Time `bson:"actual_delivery_time,omitempty"`

	SellerNotes   string                `bson:"seller_notes,omitempty"`
	DeliveryNotes string                `bson:"delivery_notes,omitempty"`
	History       []domain.StatusChange `bson:"history"`
	CreatedAt     time.Time             `bson:"created_at"`
	UpdatedAt     time.Time             `bson:"updated_at"`
}

func toDeliveryDoc(d *domain.Delivery) deliveryDoc {
	history := d.History
	if history == nil {
		history = []domain.StatusChange{}
	}
	return deliveryDoc{
		ID:                    d.ID,
		OrderID:               d.OrderID,
		BuyerID:               d.BuyerID,
		SellerID:              d.SellerID,
		TrackingNumber:        d.TrackingNumber,
		Status:                string(d.Status),
		Driver:                d.Driver,
		Vehicle:               d.Vehicle,
		PickupAddress:         d.PickupAddress,
		DeliveryAddress:       d.DeliveryAddress,
		EstimatedDeliveryTime: d.EstimatedDeliveryTime,
		AssignedAt:            d.AssignedAt,
		PickedUpAt:            d.PickedUpAt,
		InTransitAt:           d.InTransitAt,
		ActualDeliveryTime:    d.ActualDeliveryTime,
		SellerNotes:           d.SellerNotes,
		DeliveryNotes:         d.DeliveryNotes,
		History:               history,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

func (doc deliveryDoc) toDomain() *domain.Delivery {
	return &domain.Delivery{
		ID:                    doc.ID,
		OrderID:               doc.OrderID,
		BuyerID:               doc.BuyerID,
		SellerID:              doc.SellerID,
		TrackingNumber:        doc.TrackingNumber,
		Status:                domain.DeliveryStatus(doc.Status),
		Driver:                doc.Driver,
		Vehicle:               doc.Vehicle,
		PickupAddress:         doc.PickupAddress,
		DeliveryAddress:       doc.DeliveryAddress,
		EstimatedDeliveryTime: doc.EstimatedDeliveryTime,
		AssignedAt:            doc.AssignedAt,
		PickedUpAt:            doc.PickedUpAt,
		InTransitAt:           doc.InTransitAt,
		ActualDeliveryTime:    doc.ActualDeliveryTime,
		SellerNotes:           doc.SellerNotes,
		DeliveryNotes:         doc.DeliveryNotes,
		History:               doc.History,
		CreatedAt:             doc.CreatedAt,
		UpdatedAt:             doc.UpdatedAt,
	}
}

type orderDoc struct {
	ID              string         `bson:"_id"`
	BuyerID         string         `bson:"buyer_id"`
	SellerID        string         `bson:"seller_id"`
	Status          string         `bson:"status"`
	DeliveryID      *string        `bson:"delivery_id,omitempty"`
	PickupAddress   domain.Address `bson:"pickup_address"`
	DeliveryAddress domain.Address `bson:"delivery_address"`
	CreatedAt       time.Time      `bson:"created_at"`
	UpdatedAt       time.Time      `bson:"updated_at"`
}

func (doc orderDoc) toDomain() *domain.Order {
	return &domain.Order{
		ID:              doc.ID,
		BuyerID:         doc.BuyerID,
		SellerID:        doc.SellerID,
		Status:          domain.OrderStatus(doc.Status),
		DeliveryID:      doc.DeliveryID,
		PickupAddress:   doc.PickupAddress,
		DeliveryAddress: doc.DeliveryAddress,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}
