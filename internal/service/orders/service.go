package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agrimarket-delivery/internal/apperr"
	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/logx"
	"agrimarket-delivery/internal/ports/deliverytx"
)

// Service exposes marketplace order reads and status changes.
type Service struct {
	repo             OrderRepository
	delivery         DeliveryPort
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates a new orders Service.
func NewService(repo OrderRepository, deliverySvc DeliveryPort, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	logger = logx.OrNop(logger)
	return &Service{repo: repo, delivery: deliverySvc, operationTimeout: timeout, logger: logger}
}

// Get returns an order by its ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Invalid("order_id", "is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("order %q: %w", id, apperr.ErrNotFound)
	}
	return o, nil
}

// UpdateStatus sets the order status.
// Confirming an order creates its delivery in the same transaction;
// cancelling it cancels the delivery once the order is committed.
// An order in a final status only accepts its own status again.
func (s *Service) UpdateStatus(ctx context.Context, id, raw string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Invalid("order_id", "is required")
	}
	status := domain.NormalizeOrderStatus(raw)
	if !status.Valid() {
		return nil, apperr.Invalid("status", fmt.Sprintf("unknown order status %q", raw))
	}

	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	var (
		o       *domain.Order
		d       *domain.Delivery
		created bool
	)
	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		var err error
		o, err = tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("order %q: %w", id, apperr.ErrNotFound)
		}

		if o.Status.IsTerminal() && o.Status != status {
			return &apperr.OrderClosedError{OrderID: id, Status: string(o.Status)}
		}

		if o.Status != status {
			if err := tx.UpdateOrderStatus(ctx, id, status); err != nil {
				return err
			}
			o.Status = status
		}

		if status == domain.OrderConfirmed {
			d, created, err = s.delivery.CreateInTx(ctx, tx, o)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		logx.String("event", "order_status_updated"),
		logx.String("order_id", o.ID),
		logx.String("status", string(o.Status)),
	)
	if created {
		s.logger.Info("delivery created",
			logx.String("event", "delivery_created"),
			logx.String("delivery_id", d.ID),
			logx.String("order_id", o.ID),
			logx.String("tracking_number", d.TrackingNumber),
		)
	}

	if status == domain.OrderCancelled {
		// the order is committed as cancelled; a retry of the same PUT finishes the delivery side
		cancelled, err := cancelDelivery(ctx, s.delivery, o.ID)
		if err != nil {
			return nil, fmt.Errorf("cancel delivery of order %q: %w", o.ID, err)
		}
		if cancelled != nil {
			s.logger.Info("delivery cancelled",
				logx.String("event", "delivery_cancelled"),
				logx.String("delivery_id", cancelled.ID),
				logx.String("order_id", o.ID),
			)
		}
	}
	return o, nil
}
