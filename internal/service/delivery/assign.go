package delivery

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"agrimarket-delivery/internal/apperr"
	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/logx"
	"agrimarket-delivery/internal/ports/deliverytx"
	"agrimarket-delivery/internal/roster"
)

const maxNotesLen = 1000

// AssignDriverInput is a driver assignment request.
// With a roster DriverID the remaining driver and vehicle fields default to the roster entry.
type AssignDriverInput struct {
	DriverID              string
	DriverName            string
	DriverPhone           string
	DriverEmail           string
	VehicleType           domain.VehicleType
	VehiclePlate          string
	VehicleDescription    string
	EstimatedDeliveryTime *time.Time
	SellerNotes           string
}

// assignment is the merged input checked by the validator.
type assignment struct {
	DriverID    string `name:"driver_id" validate:"max=64"`
	Name        string `name:"driver_name" validate:"required,max=120"`
	Phone       string `name:"driver_phone" validate:"required,phone"`
	Email       string `name:"driver_email" validate:"omitempty,email"`
	VehicleType string `name:"vehicle_type" validate:"required,vehicle_type"`
	Plate       string `name:"vehicle_plate" validate:"max=20"`
	Description string `name:"vehicle_description" validate:"max=200"`
	SellerNotes string `name:"seller_notes" validate:"max=1000"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("name")
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return domain.ValidatePhone(fl.Field().String())
	})
	_ = v.RegisterValidation("vehicle_type", func(fl validator.FieldLevel) bool {
		return domain.VehicleType(fl.Field().String()).Valid()
	})
	return v
}

func pick(explicit, fallback string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	return fallback
}

func (in AssignDriverInput) merge() (assignment, error) {
	a := assignment{
		DriverID:    strings.TrimSpace(in.DriverID),
		Name:        strings.TrimSpace(in.DriverName),
		Phone:       domain.NormalizePhone(in.DriverPhone),
		Email:       strings.TrimSpace(in.DriverEmail),
		VehicleType: strings.TrimSpace(string(in.VehicleType)),
		Plate:       strings.TrimSpace(in.VehiclePlate),
		Description: strings.TrimSpace(in.VehicleDescription),
		SellerNotes: strings.TrimSpace(in.SellerNotes),
	}
	if a.DriverID == "" {
		return a, nil
	}

	def, ok := roster.Lookup(a.DriverID)
	if !ok {
		// unknown ids are accepted only with a full explicit identity
		if a.Name == "" || a.Phone == "" || a.VehicleType == "" {
			return a, apperr.Invalid("driver_id", "unknown driver")
		}
		return a, nil
	}
	a.Name = pick(a.Name, def.Name)
	a.Phone = pick(a.Phone, def.Phone)
	a.Email = pick(a.Email, def.Email)
	a.VehicleType = pick(a.VehicleType, string(def.VehicleType))
	a.Plate = pick(a.Plate, def.Plate)
	a.Description = pick(a.Description, def.Description)
	return a, nil
}

func validationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return apperr.Invalid("", err.Error())
	}
	fe := ves[0]
	switch fe.Tag() {
	case "required":
		return apperr.Invalid(fe.Field(), "is required")
	case "phone":
		return apperr.Invalid(fe.Field(), "invalid phone number")
	case "vehicle_type":
		return apperr.Invalid(fe.Field(), "unsupported vehicle type")
	case "email":
		return apperr.Invalid(fe.Field(), "invalid email")
	case "max":
		return apperr.Invalid(fe.Field(), "is too long")
	default:
		return apperr.Invalid(fe.Field(), "is invalid")
	}
}

// AssignDriver attaches a driver and vehicle to a delivery.
// A pending delivery advances to pickup_assigned; terminal deliveries are a conflict.
func (s *Service) AssignDriver(ctx context.Context, id string, in AssignDriverInput) (*domain.Delivery, error) {
	id, err := requireID("delivery_id", id)
	if err != nil {
		return nil, err
	}
	a, err := in.merge()
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(a); err != nil {
		return nil, validationError(err)
	}

	now := s.now()
	if in.EstimatedDeliveryTime != nil && in.EstimatedDeliveryTime.Before(now) {
		return nil, apperr.Invalid("estimated_delivery_time", "must not be in the past")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		d    *domain.Delivery
		from domain.DeliveryStatus
	)
	err = s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		var err error
		d, err = tx.GetDeliveryForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("delivery %q: %w", id, apperr.ErrNotFound)
		}
		from = d.Status
		if from.IsTerminal() {
			return fmt.Errorf("delivery %q is %s: %w", id, from, apperr.ErrConflict)
		}

		asg := domain.DriverAssignment{
			Driver:                domain.Driver{ID: a.DriverID, Name: a.Name, Phone: a.Phone, Email: a.Email},
			Vehicle:               domain.Vehicle{Type: domain.VehicleType(a.VehicleType), Plate: a.Plate, Description: a.Description},
			EstimatedDeliveryTime: in.EstimatedDeliveryTime,
			SellerNotes:           a.SellerNotes,
			AssignedAt:            now,
			Status:                from,
		}
		if from == domain.StatusPending {
			asg.Status = domain.StatusPickupAssigned
			asg.Change = &domain.StatusChange{Status: domain.StatusPickupAssigned, At: now, Note: "driver assigned"}
		}
		if err := tx.ApplyAssignment(ctx, id, asg); err != nil {
			return err
		}

		d.Driver = &asg.Driver
		d.Vehicle = &asg.Vehicle
		if asg.EstimatedDeliveryTime != nil {
			d.EstimatedDeliveryTime = asg.EstimatedDeliveryTime
		}
		if asg.SellerNotes != "" {
			d.SellerNotes = asg.SellerNotes
		}
		d.AssignedAt = &now
		d.Status = asg.Status
		if asg.Change != nil {
			d.History = append(d.History, *asg.Change)
		}
		d.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("driver assigned",
		logx.String("event", "driver_assigned"),
		logx.String("delivery_id", d.ID),
		logx.String("order_id", d.OrderID),
		logx.String("driver_id", d.Driver.ID),
		logx.String("vehicle_type", string(d.Vehicle.Type)),
	)
	s.afterTransition(ctx, d, from, now)
	return d, nil
}
