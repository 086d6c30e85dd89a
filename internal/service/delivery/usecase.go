package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"agrimarket-delivery/internal/apperr"
	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/logx"
	"agrimarket-delivery/internal/ports/deliverytx"
	"agrimarket-delivery/internal/roster"
)

// Service - delivery lifecycle and driver assignment.
type Service struct {
	repo             deliveryRepository
	ids              IDFactory
	cache            Cache
	events           EventPublisher
	transitions      *prometheus.CounterVec
	cacheResults     *prometheus.CounterVec
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// Option configures optional Service dependencies.
type Option func(*Service)

// WithCache sets the delivery read cache.
func WithCache(c Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithPublisher sets the status event publisher.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithMetrics sets the transition and cache result counters.
func WithMetrics(transitions, cacheResults *prometheus.CounterVec) Option {
	return func(s *Service) {
		s.transitions = transitions
		s.cacheResults = cacheResults
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// NewDeliveryService - creates a new delivery Service.
func NewDeliveryService(r deliveryRepository, ids IDFactory, timeout time.Duration, logger logx.Logger, opts ...Option) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if ids == nil {
		ids = NewIDFactory()
	}
	if logger == nil {
		logger = logx.Nop()
	}
	s := &Service{
		repo:             r,
		ids:              ids,
		cache:            nopCache{},
		events:           Publishers{},
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetByOrderID returns the delivery of an order.
func (s *Service) GetByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error) {
	orderID, err := requireID("order_id", orderID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if d, err := s.cache.Get(ctx, orderID); err != nil {
		s.logger.Warn("delivery cache get failed", logx.String("order_id", orderID), logx.Err(err))
	} else if d != nil {
		s.countCache("hit")
		return d, nil
	}
	s.countCache("miss")

	d, err := s.repo.GetDeliveryByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("delivery for order %q: %w", orderID, apperr.ErrNotFound)
	}

	if err := s.cache.Set(ctx, d); err != nil {
		s.logger.Warn("delivery cache set failed", logx.String("order_id", orderID), logx.Err(err))
	}
	return d, nil
}

// GetByID returns a delivery by its ID.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Delivery, error) {
	id, err := requireID("delivery_id", id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.repo.GetDeliveryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("delivery %q: %w", id, apperr.ErrNotFound)
	}
	return d, nil
}

// CreateForOrder returns the delivery of an order, creating a pending one when absent.
func (s *Service) CreateForOrder(ctx context.Context, orderID string) (*domain.Delivery, error) {
	orderID, err := requireID("order_id", orderID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		d       *domain.Delivery
		created bool
	)
	err = s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("order %q: %w", orderID, apperr.ErrNotFound)
		}
		d, created, err = s.CreateInTx(ctx, tx, o)
		return err
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.logCreated(d)
	}
	return d, nil
}

// CreateInTx creates the pending delivery of o inside tx and links it to the order.
// An existing delivery is returned unchanged with created=false.
func (s *Service) CreateInTx(ctx context.Context, tx deliverytx.Repository, o *domain.Order) (*domain.Delivery, bool, error) {
	existing, err := tx.GetDeliveryByOrderID(ctx, o.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	now := s.now()
	d := &domain.Delivery{
		ID:              s.ids.NewID(),
		OrderID:         o.ID,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		TrackingNumber:  s.ids.TrackingNumber(now),
		Status:          domain.StatusPending,
		PickupAddress:   o.PickupAddress,
		DeliveryAddress: o.DeliveryAddress,
		History:         []domain.StatusChange{{Status: domain.StatusPending, At: now}},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.InsertDelivery(ctx, d); err != nil {
		return nil, false, err
	}
	if err := tx.SetOrderDelivery(ctx, o.ID, d.ID); err != nil {
		return nil, false, err
	}
	id := d.ID
	o.DeliveryID = &id
	return d, true, nil
}

// logCreated records a committed delivery creation.
func (s *Service) logCreated(d *domain.Delivery) {
	s.logger.Info("delivery created",
		logx.String("event", "delivery_created"),
		logx.String("delivery_id", d.ID),
		logx.String("order_id", d.OrderID),
		logx.String("tracking_number", d.TrackingNumber),
	)
}

// UpdateStatus moves a delivery to raw status, enforcing the transition table.
func (s *Service) UpdateStatus(ctx context.Context, id, raw, note string) (*domain.Delivery, error) {
	id, err := requireID("delivery_id", id)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseDeliveryStatus(raw)
	if err != nil {
		return nil, apperr.Invalid("status", err.Error())
	}
	note = strings.TrimSpace(note)
	if len(note) > maxNotesLen {
		return nil, apperr.Invalid("notes", "is too long")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		d    *domain.Delivery
		from domain.DeliveryStatus
		now  = s.now()
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
		if !domain.CanTransition(from, to) {
			return &apperr.TransitionError{From: string(from), To: string(to)}
		}

		change := domain.StatusChange{Status: to, At: now, Note: note}
		d.StampMilestone(to, now)
		u := domain.StatusUpdate{
			From:               from,
			To:                 to,
			Change:             change,
			PickedUpAt:         d.PickedUpAt,
			InTransitAt:        d.InTransitAt,
			ActualDeliveryTime: d.ActualDeliveryTime,
			DeliveryNotes:      note,
		}
		if err := tx.ApplyStatusUpdate(ctx, id, u); err != nil {
			return err
		}

		if orderStatus, ok := domain.OrderStatusFor(to); ok {
			if err := tx.UpdateOrderStatus(ctx, d.OrderID, orderStatus); err != nil {
				return err
			}
		}

		d.Status = to
		d.History = append(d.History, change)
		if note != "" {
			d.DeliveryNotes = note
		}
		d.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, d, from, now)
	return d, nil
}

// NextStatuses returns the statuses the stored delivery may move to.
func (s *Service) NextStatuses(ctx context.Context, id string) ([]domain.DeliveryStatus, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.NextStatuses(d.Status), nil
}

// Roster returns the drivers selectable for assignment.
func (s *Service) Roster() []roster.DefaultDriver {
	return roster.All()
}

// afterTransition runs the post-commit side effects of a status change.
func (s *Service) afterTransition(ctx context.Context, d *domain.Delivery, from domain.DeliveryStatus, at time.Time) {
	// write through: the versioned entry also shuts out a read-through Set
	// that loaded the row before this commit
	if err := s.cache.Set(ctx, d); err != nil {
		s.logger.Warn("delivery cache refresh failed", logx.String("order_id", d.OrderID), logx.Err(err))
		if err := s.cache.Delete(ctx, d.OrderID); err != nil {
			s.logger.Warn("delivery cache delete failed", logx.String("order_id", d.OrderID), logx.Err(err))
		}
	}
	if from == d.Status {
		return
	}

	if s.transitions != nil {
		s.transitions.WithLabelValues(string(from), string(d.Status)).Inc()
	}

	s.logger.Info("delivery status changed",
		logx.String("event", "delivery_status_changed"),
		logx.String("delivery_id", d.ID),
		logx.String("order_id", d.OrderID),
		logx.String("from", string(from)),
		logx.String("to", string(d.Status)),
	)

	ev := domain.StatusEvent{
		DeliveryID:     d.ID,
		OrderID:        d.OrderID,
		TrackingNumber: d.TrackingNumber,
		From:           from,
		To:             d.Status,
		At:             at,
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn("publish status event failed",
			logx.String("delivery_id", d.ID),
			logx.Err(err),
		)
	}
}

func (s *Service) countCache(result string) {
	if s.cacheResults != nil {
		s.cacheResults.WithLabelValues(result).Inc()
	}
}

func requireID(field, raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", apperr.Invalid(field, "is required")
	}
	return id, nil
}
