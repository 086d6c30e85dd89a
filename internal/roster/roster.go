package roster

import (
	"strings"

	"agrimarket-delivery/internal/domain"
)

// DefaultDriver is a pre-seeded driver selectable for assignment.
type DefaultDriver struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Phone       string             `json:"phone"`
	Email       string             `json:"email,omitempty"`
	VehicleType domain.VehicleType `json:"vehicle_type"`
	Plate       string             `json:"vehicle_plate"`
	Description string             `json:"vehicle_description"`
}

// Driver returns the driver identity for assignment.
func (d DefaultDriver) Driver() domain.Driver {
	return domain.Driver{ID: d.ID, Name: d.Name, Phone: d.Phone, Email: d.Email}
}

// Vehicle returns the vehicle descriptor for assignment.
func (d DefaultDriver) Vehicle() domain.Vehicle {
	return domain.Vehicle{Type: d.VehicleType, Plate: d.Plate, Description: d.Description}
}

var defaults = [...]DefaultDriver{
	{
		ID:          "drv-001",
		Name:        "Juan Dela Cruz",
		Phone:       "+639171234567",
		Email:       "juan.delacruz@agrimarket.ph",
		VehicleType: domain.VehicleMotorcycle,
		Plate:       "ABC 1234",
		Description: "Honda Click 125 with delivery box",
	},
	{
		ID:          "drv-002",
		Name:        "Maria Santos",
		Phone:       "+639182345678",
		Email:       "maria.santos@agrimarket.ph",
		VehicleType: domain.VehicleMiniTruck,
		Plate:       "NDA 5678",
		Description: "Suzuki Multicab, covered bed",
	},
	{
		ID:          "drv-003",
		Name:        "Pedro Reyes",
		Phone:       "+639193456789",
		VehicleType: domain.VehicleTruck,
		Plate:       "TRK 9012",
		Description: "Isuzu Elf 6-wheeler, refrigerated",
	},
	{
		ID:          "drv-004",
		Name:        "Ana Garcia",
		Phone:       "+639204567890",
		Email:       "ana.garcia@agrimarket.ph",
		VehicleType: domain.VehicleCar,
		Plate:       "CAR 3456",
		Description: "Toyota Vios, trunk cooler",
	},
	{
		ID:          "drv-005",
		Name:        "Roberto Mendoza",
		Phone:       "+639215678901",
		VehicleType: domain.VehicleMotorcycle,
		Plate:       "MTR 7890",
		Description: "Yamaha Mio with side rack",
	},
}

// All returns a copy of the roster in display order.
func All() []DefaultDriver {
	out := make([]DefaultDriver, len(defaults))
	copy(out, defaults[:])
	return out
}

// Lookup finds a roster entry by id.
func Lookup(id string) (DefaultDriver, bool) {
	id = strings.TrimSpace(id)
	for _, d := range defaults {
		if d.ID == id {
			return d, true
		}
	}
	return DefaultDriver{}, false
}

// MatchContact finds the first roster entry with the given name and phone.
// It only serves records persisted without a driver id; two entries sharing
// contact details would be indistinguishable.
func MatchContact(name, phone string) (DefaultDriver, bool) {
	name = strings.TrimSpace(name)
	phone = domain.NormalizePhone(phone)
	for _, d := range defaults {
		if strings.EqualFold(d.Name, name) && domain.NormalizePhone(d.Phone) == phone {
			return d, true
		}
	}
	return DefaultDriver{}, false
}

// Resolve recovers the roster entry for a persisted driver, preferring the id.
func Resolve(d *domain.Driver) (DefaultDriver, bool) {
	if d == nil {
		return DefaultDriver{}, false
	}
	if d.ID != "" {
		if entry, ok := Lookup(d.ID); ok {
			return entry, true
		}
	}
	return MatchContact(d.Name, d.Phone)
}
