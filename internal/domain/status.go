package domain

import (
	"fmt"
	"strings"
)

// DeliveryStatus is a step of the delivery lifecycle.
type DeliveryStatus string

// List of delivery statuses in lifecycle order.
const (
	StatusPending           DeliveryStatus = "pending"
	StatusPickupAssigned    DeliveryStatus = "pickup_assigned"
	StatusPickupInProgress  DeliveryStatus = "pickup_in_progress"
	StatusPickedUp          DeliveryStatus = "picked_up"
	StatusAtOriginHub       DeliveryStatus = "at_origin_hub"
	StatusSorted            DeliveryStatus = "sorted"
	StatusLineHaulInTransit DeliveryStatus = "line_haul_in_transit"
	StatusAtDestinationHub  DeliveryStatus = "at_destination_hub"
	StatusDeliveryAssigned  DeliveryStatus = "delivery_assigned"
	StatusOutForDelivery    DeliveryStatus = "out_for_delivery"
	StatusDelivered         DeliveryStatus = "delivered"
	StatusCancelled         DeliveryStatus = "cancelled"
	StatusReturned          DeliveryStatus = "returned"
)

var allStatuses = [...]DeliveryStatus{
	StatusPending,
	StatusPickupAssigned,
	StatusPickupInProgress,
	StatusPickedUp,
	StatusAtOriginHub,
	StatusSorted,
	StatusLineHaulInTransit,
	StatusAtDestinationHub,
	StatusDeliveryAssigned,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
	StatusReturned,
}

// AllDeliveryStatuses returns every status in lifecycle order.
func AllDeliveryStatuses() []DeliveryStatus {
	out := make([]DeliveryStatus, len(allStatuses))
	copy(out, allStatuses[:])
	return out
}

// Valid checks if the DeliveryStatus is one of the known values.
func (s DeliveryStatus) Valid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseDeliveryStatus normalizes and validates a raw status string.
func ParseDeliveryStatus(raw string) (DeliveryStatus, error) {
	s := DeliveryStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown delivery status %q", raw)
	}
	return s, nil
}

// IsTerminal reports whether no further transitions are possible.
func (s DeliveryStatus) IsTerminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusReturned:
		return true
	default:
		return false
	}
}

// NextStatuses returns, in display order, the statuses s may move to.
// Terminal and unknown statuses yield an empty slice.
func NextStatuses(s DeliveryStatus) []DeliveryStatus {
	switch s {
	case StatusPending:
		return []DeliveryStatus{StatusPickupAssigned, StatusCancelled}
	case StatusPickupAssigned:
		return []DeliveryStatus{StatusPickupInProgress, StatusCancelled}
	case StatusPickupInProgress:
		return []DeliveryStatus{StatusPickedUp, StatusCancelled}
	case StatusPickedUp:
		return []DeliveryStatus{StatusAtOriginHub, StatusCancelled}
	case StatusAtOriginHub:
		return []DeliveryStatus{StatusSorted, StatusCancelled}
	case StatusSorted:
		return []DeliveryStatus{StatusLineHaulInTransit, StatusDeliveryAssigned, StatusCancelled}
	case StatusLineHaulInTransit:
		return []DeliveryStatus{StatusAtDestinationHub, StatusCancelled}
	case StatusAtDestinationHub:
		return []DeliveryStatus{StatusDeliveryAssigned, StatusCancelled}
	case StatusDeliveryAssigned:
		return []DeliveryStatus{StatusOutForDelivery, StatusCancelled}
	case StatusOutForDelivery:
		return []DeliveryStatus{StatusDelivered, StatusReturned, StatusCancelled}
	case StatusDelivered, StatusCancelled, StatusReturned:
		return []DeliveryStatus{}
	default:
		return []DeliveryStatus{}
	}
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to DeliveryStatus) bool {
	for _, next := range NextStatuses(from) {
		if next == to {
			return true
		}
	}
	return false
}
