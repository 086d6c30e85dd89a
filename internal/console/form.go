package console

import (
	"strings"
	"time"

	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/http/wire"
	"agrimarket-delivery/internal/roster"
)

// AssignForm is the editable driver assignment.
type AssignForm struct {
	// SelectedDriverID is the roster entry picked by the operator; never sent.
	SelectedDriverID   string
	DriverID           string
	DriverName         string
	DriverPhone        string
	DriverEmail        string
	VehicleType        domain.VehicleType
	VehiclePlate       string
	VehicleDescription string
	ETA                *time.Time
	SellerNotes        string
}

// Select fills the driver and vehicle fields from a roster entry.
func (f *AssignForm) Select(d roster.DefaultDriver) {
	f.SelectedDriverID = d.ID
	f.DriverID = d.ID
	f.DriverName = d.Name
	f.DriverPhone = d.Phone
	f.DriverEmail = d.Email
	f.VehicleType = d.VehicleType
	f.VehiclePlate = d.Plate
	f.VehicleDescription = d.Description
}

// Validate checks the form before anything is sent.
func (f AssignForm) Validate(now time.Time) error {
	if strings.TrimSpace(f.SelectedDriverID) == "" {
		return &FormError{Field: "driver", Message: "please select a driver"}
	}
	switch {
	case strings.TrimSpace(f.DriverID) == "":
		return &FormError{Field: "driver_id", Message: "driver id is required"}
	case strings.TrimSpace(f.DriverName) == "":
		return &FormError{Field: "driver_name", Message: "driver name is required"}
	case strings.TrimSpace(f.DriverPhone) == "":
		return &FormError{Field: "driver_phone", Message: "driver phone is required"}
	case f.VehicleType == "":
		return &FormError{Field: "vehicle_type", Message: "vehicle type is required"}
	}
	if f.ETA != nil && f.ETA.Before(now) {
		return &FormError{Field: "estimated_delivery_time", Message: "estimated delivery time cannot be in the past"}
	}
	return nil
}

// Request builds the assign-driver request body.
func (f AssignForm) Request() wire.AssignDriverRequest {
	return wire.AssignDriverRequest{
		DriverID:              strings.TrimSpace(f.DriverID),
		DriverName:            strings.TrimSpace(f.DriverName),
		DriverPhone:           strings.TrimSpace(f.DriverPhone),
		DriverEmail:           strings.TrimSpace(f.DriverEmail),
		VehicleType:           f.VehicleType,
		VehiclePlate:          strings.TrimSpace(f.VehiclePlate),
		VehicleDescription:    strings.TrimSpace(f.VehicleDescription),
		EstimatedDeliveryTime: f.ETA,
		SellerNotes:           strings.TrimSpace(f.SellerNotes),
	}
}

// formFor pre-fills the form from a stored delivery.
// The roster selection comes from the persisted driver id, then name and phone.
func formFor(d *domain.Delivery) AssignForm {
	f := AssignForm{ETA: d.EstimatedDeliveryTime, SellerNotes: d.SellerNotes}
	if d.Driver != nil {
		f.DriverID = d.Driver.ID
		f.DriverName = d.Driver.Name
		f.DriverPhone = d.Driver.Phone
		f.DriverEmail = d.Driver.Email
		if entry, ok := roster.Resolve(d.Driver); ok {
			f.SelectedDriverID = entry.ID
		}
	}
	if d.Vehicle != nil {
		f.VehicleType = d.Vehicle.Type
		f.VehiclePlate = d.Vehicle.Plate
		f.VehicleDescription = d.Vehicle.Description
	}
	return f
}
