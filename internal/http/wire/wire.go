// Package wire holds the JSON shapes of the delivery HTTP API shared by
// the server handlers and the marketplace client.
package wire

import (
	"time"

	"agrimarket-delivery/internal/domain"
)

// Envelope is the body of every API response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

// ErrorBody is the body of a failed API response.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DeliveryData wraps a single delivery.
type DeliveryData struct {
	Delivery Delivery `json:"delivery"`
}

// OrderData wraps a single order.
type OrderData struct {
	Order Order `json:"order"`
}

// NextStatusesData lists the statuses a delivery may move to.
type NextStatusesData struct {
	Statuses []NextStatus `json:"statuses"`
}

// NextStatus is one selectable transition.
type NextStatus struct {
	Status domain.DeliveryStatus `json:"status"`
	Badge  domain.StatusBadge    `json:"badge"`
}

// DriversData lists the roster.
type DriversData struct {
	Drivers []Driver `json:"drivers"`
}

// Driver is a roster entry.
type Driver struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Phone              string             `json:"phone"`
	Email              string             `json:"email,omitempty"`
	VehicleType        domain.VehicleType `json:"vehicle_type"`
	VehiclePlate       string             `json:"vehicle_plate,omitempty"`
	VehicleDescription string             `json:"vehicle_description,omitempty"`
}

// Delivery is the API representation of a delivery.
type Delivery struct {
	ID              string                `json:"id"`
	OrderID         string                `json:"order_id"`
	BuyerID         string                `json:"buyer_id,omitempty"`
	SellerID        string                `json:"seller_id,omitempty"`
	TrackingNumber  string                `json:"tracking_number"`
	Status          domain.DeliveryStatus `json:"status"`
	Badge           domain.StatusBadge    `json:"badge"`
	PickupAddress   domain.Address        `json:"pickup_address"`
	DeliveryAddress domain.Address        `json:"delivery_address"`

	DriverID           string             `json:"driver_id,omitempty"`
	DriverName         string             `json:"driver_name,omitempty"`
	DriverPhone        string             `json:"driver_phone,omitempty"`
	DriverEmail        string             `json:"driver_email,omitempty"`
	VehicleType        domain.VehicleType `json:"vehicle_type,omitempty"`
	VehiclePlate       string             `json:"vehicle_plate,omitempty"`
	VehicleDescription string             `json:"vehicle_description,omitempty"`

	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
	AssignedAt            *time.Time `json:"assigned_at,omitempty"`
	PickedUpAt            *time.Time `json:"picked_up_at,omitempty"`
	InTransitAt           *time.Time `json:"in_transit_at,omitempty"`
	ActualDeliveryTime    *time.Time `json:"actual_delivery_time,omitempty"`

	SellerNotes   string                `json:"seller_notes,omitempty"`
	DeliveryNotes string                `json:"delivery_notes,omitempty"`
	History       []domain.StatusChange `json:"status_history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Order is the API representation of a marketplace order.
type Order struct {
	ID              string             `json:"id"`
	BuyerID         string             `json:"buyer_id,omitempty"`
	SellerID        string             `json:"seller_id,omitempty"`
	Status          domain.OrderStatus `json:"status"`
	DeliveryID      *string            `json:"delivery_id,omitempty"`
	PickupAddress   domain.Address     `json:"pickup_address"`
	DeliveryAddress domain.Address     `json:"delivery_address"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// AssignDriverRequest is the body of POST /api/delivery/{id}/assign-driver.
type AssignDriverRequest struct {
	DriverID              string             `json:"driver_id"`
	DriverName            string             `json:"driver_name"`
	DriverPhone           string             `json:"driver_phone"`
	DriverEmail           string             `json:"driver_email,omitempty"`
	VehicleType           domain.VehicleType `json:"vehicle_type"`
	VehiclePlate          string             `json:"vehicle_plate,omitempty"`
	VehicleDescription    string             `json:"vehicle_description,omitempty"`
	EstimatedDeliveryTime *time.Time         `json:"estimated_delivery_time,omitempty"`
	SellerNotes           string             `json:"seller_notes,omitempty"`
}

// UpdateStatusRequest is the body of PATCH /api/delivery/{id}/update-status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// UpdateOrderRequest is the body of PUT /api/marketplace/orders/{id}.
type UpdateOrderRequest struct {
	Status string `json:"status"`
}
