package orders

import (
	"context"
	"errors"

	"agrimarket-delivery/internal/apperr"
	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/logx"
	"agrimarket-delivery/internal/ports/deliverytx"
)

// Processor processes marketplace order events
type Processor struct {
	delivery DeliveryPort
	repo     TxRunner
	logger   logx.Logger
	factory  *actionFactory
}

// NewProcessor creates a new orders.Processor
func NewProcessor(deliverySvc DeliveryPort, repo TxRunner, logger logx.Logger) *Processor {
	logger = logx.OrNop(logger)
	p := &Processor{
		delivery: deliverySvc,
		repo:     repo,
		logger:   logger,
	}
	p.factory = newActionFactory(p.onCreated, p.onConfirmed, p.onCancelled)
	return p
}

// Handle processes a single orders.Event
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if p.factory == nil {
		return nil
	}
	fn, ok := p.factory.get(e.Status)
	if !ok {
		return nil
	}
	if e.OrderID == "" {
		return apperr.Invalid("order_id", "is required")
	}
	return fn(ctx, e)
}

func (p *Processor) onCreated(ctx context.Context, e Event) error {
	return p.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		return tx.UpsertOrder(ctx, e.order(domain.OrderPending))
	})
}

func (p *Processor) onConfirmed(ctx context.Context, e Event) error {
	var (
		d       *domain.Delivery
		created bool
	)
	err := p.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		o := e.order(domain.OrderConfirmed)
		if err := tx.UpsertOrder(ctx, o); err != nil {
			return err
		}
		if o.Status.IsTerminal() {
			return &apperr.OrderClosedError{OrderID: o.ID, Status: string(o.Status)}
		}
		if o.Status == domain.OrderPending {
			if err := tx.UpdateOrderStatus(ctx, o.ID, domain.OrderConfirmed); err != nil {
				return err
			}
			o.Status = domain.OrderConfirmed
		}
		var err error
		d, created, err = p.delivery.CreateInTx(ctx, tx, o)
		return err
	})
	var closed *apperr.OrderClosedError
	if errors.As(err, &closed) {
		p.logger.Info("confirmation ignored",
			logx.String("order_id", closed.OrderID),
			logx.String("status", closed.Status),
		)
		return nil
	}
	if errors.Is(err, apperr.ErrConflict) {
		return nil
	}
	if err != nil {
		return err
	}
	if created {
		p.logger.Info("delivery created",
			logx.String("event", "delivery_created"),
			logx.String("delivery_id", d.ID),
			logx.String("order_id", d.OrderID),
			logx.String("source", "kafka"),
		)
	}
	return nil
}

func (p *Processor) onCancelled(ctx context.Context, e Event) error {
	_, err := cancelDelivery(ctx, p.delivery, e.OrderID)
	return err
}
