package domain

import "time"

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Address is a structured postal address with an optional location.
type Address struct {
	Street      string       `json:"street,omitempty" bson:"street,omitempty"`
	Barangay    string       `json:"barangay,omitempty" bson:"barangay,omitempty"`
	City        string       `json:"city,omitempty" bson:"city,omitempty"`
	Province    string       `json:"province,omitempty" bson:"province,omitempty"`
	PostalCode  string       `json:"postal_code,omitempty" bson:"postal_code,omitempty"`
	Country     string       `json:"country,omitempty" bson:"country,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

// StatusChange is one entry of a delivery's status history.
type StatusChange struct {
	Status DeliveryStatus `json:"status" bson:"status"`
	At     time.Time      `json:"at" bson:"at"`
	Note   string         `json:"note,omitempty" bson:"note,omitempty"`
}

// Delivery tracks an order from pickup to final delivery.
type Delivery struct {
	ID              string
	OrderID         string
	BuyerID         string
	SellerID        string
	TrackingNumber  string
	Status          DeliveryStatus
	Driver          *Driver
	Vehicle         *Vehicle
	PickupAddress   Address
	DeliveryAddress Address

	EstimatedDeliveryTime *time.Time
	AssignedAt            *time.Time
	PickedUpAt            *time.Time
	InTransitAt           *time.Time
	ActualDeliveryTime    *time.Time

	SellerNotes   string
	DeliveryNotes string
	History       []StatusChange

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasDriver reports whether a driver is attached.
func (d *Delivery) HasDriver() bool {
	return d.Driver != nil && d.Driver.Name != "" && d.Driver.Phone != ""
}

// StampMilestone records the timestamp that belongs to status at now.
// Timestamps already set are kept.
func (d *Delivery) StampMilestone(status DeliveryStatus, now time.Time) {
	set := func(dst **time.Time) {
		if *dst == nil {
			t := now
			*dst = &t
		}
	}
	switch status {
	case StatusPickedUp:
		set(&d.PickedUpAt)
	case StatusLineHaulInTransit, StatusOutForDelivery:
		set(&d.InTransitAt)
	case StatusDelivered:
		set(&d.ActualDeliveryTime)
	}
}

// DriverAssignment carries the fields written by a driver assignment.
type DriverAssignment struct {
	Driver                Driver
	Vehicle               Vehicle
	EstimatedDeliveryTime *time.Time
	SellerNotes           string
	AssignedAt            time.Time
	// Status is the status after assignment; equal to the current one when unchanged.
	Status DeliveryStatus
	// Change is recorded in the history when the assignment moved the status.
	Change *StatusChange
}

// StatusUpdate carries the fields written by a status transition.
type StatusUpdate struct {
	From   DeliveryStatus
	To     DeliveryStatus
	Change StatusChange

	PickedUpAt         *time.Time
	InTransitAt        *time.Time
	ActualDeliveryTime *time.Time
	DeliveryNotes      string
}

// StatusEvent is published after a delivery changes status.
type StatusEvent struct {
	DeliveryID     string         `json:"delivery_id"`
	OrderID        string         `json:"order_id"`
	TrackingNumber string         `json:"tracking_number"`
	From           DeliveryStatus `json:"from"`
	To             DeliveryStatus `json:"to"`
	At             time.Time      `json:"at"`
}
