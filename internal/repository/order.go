package repository

import (
	"context"
	"fmt"

	"agrimarket-delivery/internal/apperr"
	"agrimarket-delivery/internal/domain"
)

const orderColumns = `id, buyer_id, seller_id, status, delivery_id, pickup_address, delivery_address, created_at, updated_at`

func getOrder(ctx context.Context, q querier, where, arg string) (*domain.Order, error) {
	var o domain.Order
	err := q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE `+where, arg).Scan(
		&o.ID, &o.BuyerID, &o.SellerID, &o.Status, &o.DeliveryID,
		&o.PickupAddress, &o.DeliveryAddress, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

// GetOrder - returns order by its ID, nil when absent.
func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	o, err := getOrder(ctx, s.db, `id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get order %q: %w", id, err)
	}
	return o, nil
}

// GetOrderForUpdate - locks and returns order by ID.
func (r *TxRepo) GetOrderForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	o, err := getOrder(ctx, r.tx, `id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("get order %q for update: %w", id, err)
	}
	return o, nil
}

// UpsertOrder - inserts an order snapshot or refreshes parties and addresses.
// Status and delivery link are only written on insert.
func (r *TxRepo) UpsertOrder(ctx context.Context, o *domain.Order) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO orders (id, buyer_id, seller_id, status, pickup_address, delivery_address)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE
        SET buyer_id         = EXCLUDED.buyer_id,
            seller_id        = EXCLUDED.seller_id,
            pickup_address   = EXCLUDED.pickup_address,
            delivery_address = EXCLUDED.delivery_address,
            updated_at       = now()
        RETURNING status, delivery_id, created_at, updated_at
    `, o.ID, o.BuyerID, o.SellerID, string(o.Status), o.PickupAddress, o.DeliveryAddress,
	).Scan(&o.Status, &o.DeliveryID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert order %q: %w", o.ID, err)
	}
	return nil
}

// UpdateOrderStatus - sets the order status.
func (r *TxRepo) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE orders SET status = $2, updated_at = now() WHERE id = $1
    `, id, string(status))
	if err != nil {
		return fmt.Errorf("update order %q status: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("order %q: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// SetOrderDelivery - links the order to its delivery.
func (r *TxRepo) SetOrderDelivery(ctx context.Context, orderID, deliveryID string) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE orders SET delivery_id = $2, updated_at = now() WHERE id = $1
    `, orderID, deliveryID)
	if err != nil {
		return fmt.Errorf("link order %q to delivery: %w", orderID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("order %q: %w", orderID, apperr.ErrNotFound)
	}
	return nil
}
