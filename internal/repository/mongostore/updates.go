package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"agrimarket-delivery/internal/domain"
)

func assignmentUpdate(a domain.DriverAssignment, now time.Time) bson.M {
	set := bson.M{
		"driver":      a.Driver,
		"vehicle":     a.Vehicle,
		"assigned_at": a.AssignedAt,
		"status":      string(a.Status),
		"updated_at":  now,
	}
	if a.EstimatedDeliveryTime != nil {
		set["estimated_delivery_time"] = *a.EstimatedDeliveryTime
	}
	if a.SellerNotes != "" {
		set["seller_notes"] = a.SellerNotes
	}
	update := bson.M{"$set": set}
	if a.Change != nil {
		update["$push"] = bson.M{"history": *a.Change}
	}
	return update
}

// statusUpdate sets only the milestones carried by u; the caller passes
// already stamped values so existing timestamps are preserved.
func statusUpdate(u domain.StatusUpdate, now time.Time) bson.M {
	set := bson.M{
		"status":     string(u.To),
		"updated_at": now,
	}
	if u.PickedUpAt != nil {
		set["picked_up_at"] = *u.PickedUpAt
	}
	if u.InTransitAt != nil {
		set["in_transit_at"] = *u.InTransitAt
	}
	if u.ActualDeliveryTime != nil {
		set["actual_delivery_time"] = *u.ActualDeliveryTime
	}
	if u.DeliveryNotes != "" {
		set["delivery_notes"] = u.DeliveryNotes
	}
	return bson.M{
		"$set":  set,
		"$push": bson.M{"history": u.Change},
	}
}

func orderUpsert(o *domain.Order, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"buyer_id":         o.BuyerID,
			"seller_id":        o.SellerID,
			"pickup_address":   o.PickupAddress,
			"delivery_address": o.DeliveryAddress,
			"updated_at":       now,
		},
		"$setOnInsert": bson.M{
			"status":     string(o.Status),
			"created_at": now,
		},
	}
}
