package domain

// StatusBadge is the presentation of a status in operator views.
type StatusBadge struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var statusLabels = map[DeliveryStatus]string{
	StatusPending:           "Pending",
	StatusPickupAssigned:    "Pickup Assigned",
	StatusPickupInProgress:  "Pickup In Progress",
	StatusPickedUp:          "Picked Up",
	StatusAtOriginHub:       "At Origin Hub",
	StatusSorted:            "Sorted",
	StatusLineHaulInTransit: "In Transit",
	StatusAtDestinationHub:  "At Destination Hub",
	StatusDeliveryAssigned:  "Delivery Assigned",
	StatusOutForDelivery:    "Out For Delivery",
	StatusDelivered:         "Delivered",
	StatusCancelled:         "Cancelled",
	StatusReturned:          "Returned",
}

var statusColors = map[DeliveryStatus]string{
	StatusPending:           "gray",
	StatusPickupAssigned:    "blue",
	StatusPickupInProgress:  "blue",
	StatusPickedUp:          "indigo",
	StatusAtOriginHub:       "purple",
	StatusSorted:            "purple",
	StatusLineHaulInTransit: "yellow",
	StatusAtDestinationHub:  "purple",
	StatusDeliveryAssigned:  "blue",
	StatusOutForDelivery:    "orange",
	StatusDelivered:         "green",
	StatusCancelled:         "red",
	StatusReturned:          "red",
}

var statusIcons = map[DeliveryStatus]string{
	StatusPending:           "clock",
	StatusPickupAssigned:    "user-check",
	StatusPickupInProgress:  "truck",
	StatusPickedUp:          "package",
	StatusAtOriginHub:       "warehouse",
	StatusSorted:            "layers",
	StatusLineHaulInTransit: "truck",
	StatusAtDestinationHub:  "warehouse",
	StatusDeliveryAssigned:  "user-check",
	StatusOutForDelivery:    "navigation",
	StatusDelivered:         "check-circle",
	StatusCancelled:         "x-circle",
	StatusReturned:          "rotate-ccw",
}

// Badge returns the label, color and icon for s.
func Badge(s DeliveryStatus) StatusBadge {
	label, ok := statusLabels[s]
	if !ok {
		return StatusBadge{Label: "Unknown", Color: "gray", Icon: "help-circle"}
	}
	return StatusBadge{Label: label, Color: statusColors[s], Icon: statusIcons[s]}
}
