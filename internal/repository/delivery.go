package repository

import (
	"context"
	"fmt"

	"agrimarket-delivery/internal/apperr"
	"agrimarket-delivery/internal/domain"
)

const deliveryColumns = `
    id, order_id, buyer_id, seller_id, tracking_number, status,
    driver, vehicle, pickup_address, delivery_address,
    estimated_delivery_time, assigned_at, picked_up_at, in_transit_at, actual_delivery_time,
    seller_notes, delivery_notes, history, created_at, updated_at`

func scanDelivery(row interface{ Scan(dest ...any) error }) (*domain.Delivery, error) {
	var d domain.Delivery
	err := row.Scan(
		&d.ID, &d.OrderID, &d.BuyerID, &d.SellerID, &d.TrackingNumber, &d.Status,
		&d.Driver, &d.Vehicle, &d.PickupAddress, &d.DeliveryAddress,
		&d.EstimatedDeliveryTime, &d.AssignedAt, &d.PickedUpAt, &d.InTransitAt, &d.ActualDeliveryTime,
		&d.SellerNotes, &d.DeliveryNotes, &d.History, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func getDelivery(ctx context.Context, q querier, where string, arg string) (*domain.Delivery, error) {
	d, err := scanDelivery(q.QueryRow(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE `+where, arg))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// GetDeliveryByID - returns delivery by its ID, nil when absent.
func (s *Store) GetDeliveryByID(ctx context.Context, id string) (*domain.Delivery, error) {
	d, err := getDelivery(ctx, s.db, `id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get delivery %q: %w", id, err)
	}
	return d, nil
}

// GetDeliveryByOrderID - returns the delivery of an order, nil when absent.
func (s *Store) GetDeliveryByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error) {
	d, err := getDelivery(ctx, s.db, `order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("get delivery by order %q: %w", orderID, err)
	}
	return d, nil
}

// GetDeliveryForUpdate - locks and returns delivery by ID.
func (r *TxRepo) GetDeliveryForUpdate(ctx context.Context, id string) (*domain.Delivery, error) {
	d, err := getDelivery(ctx, r.tx, `id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("get delivery %q for update: %w", id, err)
	}
	return d, nil
}

// GetDeliveryByOrderID - returns the delivery of an order inside the transaction.
func (r *TxRepo) GetDeliveryByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error) {
	d, err := getDelivery(ctx, r.tx, `order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("get delivery by order %q: %w", orderID, err)
	}
	return d, nil
}

// InsertDelivery - insert a new delivery.
func (r *TxRepo) InsertDelivery(ctx context.Context, d *domain.Delivery) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO deliveries (
            id, order_id, buyer_id, seller_id, tracking_number, status,
            pickup_address, delivery_address, history, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
        RETURNING created_at, updated_at
    `, d.ID, d.OrderID, d.BuyerID, d.SellerID, d.TrackingNumber, string(d.Status),
		d.PickupAddress, d.DeliveryAddress, d.History, d.CreatedAt,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("insert delivery for order %q: %w", d.OrderID, apperr.ErrConflict)
		}
		if IsForeignKey(err) {
			return fmt.Errorf("insert delivery for order %q: %w", d.OrderID, apperr.ErrNotFound)
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// ApplyAssignment - writes driver, vehicle and assignment fields.
func (r *TxRepo) ApplyAssignment(ctx context.Context, id string, a domain.DriverAssignment) error {
	changes := []domain.StatusChange{}
	if a.Change != nil {
		changes = append(changes, *a.Change)
	}
	ct, err := r.tx.Exec(ctx, `
        UPDATE deliveries
        SET driver                  = $2,
            vehicle                 = $3,
            estimated_delivery_time = COALESCE($4, estimated_delivery_time),
            seller_notes            = CASE WHEN $5::text = '' THEN seller_notes ELSE $5::text END,
            assigned_at             = $6,
            status                  = $7,
            history                 = history || $8::jsonb,
            updated_at              = now()
        WHERE id = $1
    `, id, a.Driver, a.Vehicle, a.EstimatedDeliveryTime, a.SellerNotes, a.AssignedAt, string(a.Status), changes)
	if err != nil {
		return fmt.Errorf("assign driver to delivery %q: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("delivery %q: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// ApplyStatusUpdate - moves the delivery from u.From to u.To.
// The row must still be in u.From, otherwise the update is a conflict.
func (r *TxRepo) ApplyStatusUpdate(ctx context.Context, id string, u domain.StatusUpdate) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE deliveries
        SET status               = $3,
            picked_up_at         = COALESCE(picked_up_at, $4),
            in_transit_at        = COALESCE(in_transit_at, $5),
            actual_delivery_time = COALESCE(actual_delivery_time, $6),
            delivery_notes       = CASE WHEN $7::text = '' THEN delivery_notes ELSE $7::text END,
            history              = history || $8::jsonb,
            updated_at           = now()
        WHERE id = $1 AND status = $2
    `, id, string(u.From), string(u.To), u.PickedUpAt, u.InTransitAt, u.ActualDeliveryTime,
		u.DeliveryNotes, []domain.StatusChange{u.Change})
	if err != nil {
		return fmt.Errorf("update delivery %q status: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return &apperr.TransitionError{From: string(u.From), To: string(u.To)}
	}
	return nil
}
