package domain

import (
	"regexp"
	"strings"
)

// VehicleType is the kind of vehicle used for a delivery.
type VehicleType string

// List of supported vehicle types
const (
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleCar        VehicleType = "car"
	VehicleMiniTruck  VehicleType = "mini_truck"
	VehicleTruck      VehicleType = "truck"
)

var allowedVehicleTypes = [...]VehicleType{
	VehicleMotorcycle, VehicleCar, VehicleMiniTruck, VehicleTruck,
}

// Valid checks if the VehicleType is valid
func (t VehicleType) Valid() bool {
	for _, v := range allowedVehicleTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Driver identifies who carries a delivery.
type Driver struct {
	ID    string `json:"driver_id,omitempty" bson:"driver_id,omitempty"`
	Name  string `json:"driver_name" bson:"name"`
	Phone string `json:"driver_phone" bson:"phone"`
	Email string `json:"driver_email,omitempty" bson:"email,omitempty"`
}

// Vehicle describes the vehicle attached to a delivery.
type Vehicle struct {
	Type        VehicleType `json:"vehicle_type" bson:"type"`
	Plate       string      `json:"vehicle_plate,omitempty" bson:"plate,omitempty"`
	Description string      `json:"vehicle_description,omitempty" bson:"description,omitempty"`
}

// rePhone accepts international (+63...) and local (09...) mobile numbers.
var rePhone = regexp.MustCompile(`^(\+[0-9]{10,14}|0[0-9]{9,11})$`)

// ValidatePhone validates the phone number format
func ValidatePhone(s string) bool {
	return rePhone.MatchString(NormalizePhone(s))
}

// NormalizePhone strips spaces and dashes.
func NormalizePhone(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}
