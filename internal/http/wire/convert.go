package wire

import (
	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/roster"
)

// FromDelivery converts a domain delivery into its API shape.
func FromDelivery(d *domain.Delivery) Delivery {
	out := Delivery{
		ID:                    d.ID,
		OrderID:               d.OrderID,
		BuyerID:               d.BuyerID,
		SellerID:              d.SellerID,
		TrackingNumber:        d.TrackingNumber,
		Status:                d.Status,
		Badge:                 domain.Badge(d.Status),
		PickupAddress:         d.PickupAddress,
		DeliveryAddress:       d.DeliveryAddress,
		EstimatedDeliveryTime: d.EstimatedDeliveryTime,
		AssignedAt:            d.AssignedAt,
		PickedUpAt:            d.PickedUpAt,
		InTransitAt:           d.InTransitAt,
		ActualDeliveryTime:    d.ActualDeliveryTime,
		SellerNotes:           d.SellerNotes,
		DeliveryNotes:         d.DeliveryNotes,
		History:               d.History,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
	if out.History == nil {
		out.History = []domain.StatusChange{}
	}
	if d.Driver != nil {
		out.DriverID = d.Driver.ID
		out.DriverName = d.Driver.Name
		out.DriverPhone = d.Driver.Phone
		out.DriverEmail = d.Driver.Email
	}
	if d.Vehicle != nil {
		out.VehicleType = d.Vehicle.Type
		out.VehiclePlate = d.Vehicle.Plate
		out.VehicleDescription = d.Vehicle.Description
	}
	return out
}

// ToDomain converts the API shape back into a domain delivery.
func (d Delivery) ToDomain() *domain.Delivery {
	out := &domain.Delivery{
		ID:                    d.ID,
		OrderID:               d.OrderID,
		BuyerID:               d.BuyerID,
		SellerID:              d.SellerID,
		TrackingNumber:        d.TrackingNumber,
		Status:                d.Status,
		PickupAddress:         d.PickupAddress,
		DeliveryAddress:       d.DeliveryAddress,
		EstimatedDeliveryTime: d.EstimatedDeliveryTime,
		AssignedAt:            d.AssignedAt,
		PickedUpAt:            d.PickedUpAt,
		InTransitAt:           d.InTransitAt,
		ActualDeliveryTime:    d.ActualDeliveryTime,
		SellerNotes:           d.SellerNotes,
		DeliveryNotes:         d.DeliveryNotes,
		History:               d.History,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
	if d.DriverName != "" || d.DriverPhone != "" || d.DriverID != "" {
		out.Driver = &domain.Driver{ID: d.DriverID, Name: d.DriverName, Phone: d.DriverPhone, Email: d.DriverEmail}
	}
	if d.VehicleType != "" {
		out.Vehicle = &domain.Vehicle{Type: d.VehicleType, Plate: d.VehiclePlate, Description: d.VehicleDescription}
	}
	return out
}

// FromOrder converts a domain order into its API shape.
func FromOrder(o *domain.Order) Order {
	return Order{
		ID:              o.ID,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		Status:          o.Status,
		DeliveryID:      o.DeliveryID,
		PickupAddress:   o.PickupAddress,
		DeliveryAddress: o.DeliveryAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToDomain converts the API shape back into a domain order.
func (o Order) ToDomain() *domain.Order {
	return &domain.Order{
		ID:              o.ID,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		Status:          o.Status,
		DeliveryID:      o.DeliveryID,
		PickupAddress:   o.PickupAddress,
		DeliveryAddress: o.DeliveryAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// FromNextStatuses pairs each status with its badge.
func FromNextStatuses(next []domain.DeliveryStatus) NextStatusesData {
	out := NextStatusesData{Statuses: make([]NextStatus, 0, len(next))}
	for _, s := range next {
		out.Statuses = append(out.Statuses, NextStatus{Status: s, Badge: domain.Badge(s)})
	}
	return out
}

// FromRoster converts roster entries.
func FromRoster(list []roster.DefaultDriver) DriversData {
	out := DriversData{Drivers: make([]Driver, 0, len(list))}
	for _, d := range list {
		out.Drivers = append(out.Drivers, Driver{
			ID:                 d.ID,
			Name:               d.Name,
			Phone:              d.Phone,
			Email:              d.Email,
			VehicleType:        d.VehicleType,
			VehiclePlate:       d.Plate,
			VehicleDescription: d.Description,
		})
	}
	return out
}
