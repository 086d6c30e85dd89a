package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/gateway/marketplace"
	"agrimarket-delivery/internal/logx"
	"agrimarket-delivery/internal/roster"
)

// Mode is what the delivery panel currently shows.
type Mode int

// Panel modes.
const (
	ModeEmpty Mode = iota
	ModeError
	// ModeAssign shows the editable assignment form.
	ModeAssign
	// ModeAssigned shows the read-only driver display.
	ModeAssigned
)

func (m Mode) String() string {
	switch m {
	case ModeError:
		return "error"
	case ModeAssign:
		return "assign"
	case ModeAssigned:
		return "assigned"
	default:
		return "empty"
	}
}

// View is a snapshot of the console state.
type View struct {
	OrderID  string
	Mode     Mode
	Delivery *domain.Delivery
	Form     AssignForm
	Next     []domain.DeliveryStatus
	Err      string
}

// Config bounds network calls and the post-confirmation poll.
type Config struct {
	RequestTimeout time.Duration
	// ResolveDelay is the first wait before re-reading after confirmation; it doubles per attempt.
	ResolveDelay    time.Duration
	MaxDelay        time.Duration
	ResolveAttempts int
}

const (
	defaultRequestTimeout  = 10 * time.Second
	defaultResolveDelay    = 1500 * time.Millisecond
	defaultMaxDelay        = 6 * time.Second
	defaultResolveAttempts = 4
)

// Option configures a Console.
type Option func(*Console)

// WithClock sets the time source used to validate the ETA.
func WithClock(now func() time.Time) Option {
	return func(c *Console) {
		if now != nil {
			c.now = now
		}
	}
}

// WithSleep replaces the wait between resolve attempts.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Console) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// Console drives delivery resolution, driver assignment and status transitions
// for one order at a time.
type Console struct {
	api    API
	notify Notifier
	logger logx.Logger
	cfg    Config
	now    func() time.Time
	sleep  func(context.Context, time.Duration) error

	busy atomic.Bool

	mu   sync.RWMutex
	view View
}

// New creates a Console.
func New(api API, notify Notifier, logger logx.Logger, cfg Config, opts ...Option) *Console {
	if notify == nil {
		notify = nopNotifier{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.ResolveDelay <= 0 {
		cfg.ResolveDelay = defaultResolveDelay
	}
	if cfg.MaxDelay < cfg.ResolveDelay {
		cfg.MaxDelay = max(defaultMaxDelay, cfg.ResolveDelay)
	}
	if cfg.ResolveAttempts <= 0 {
		cfg.ResolveAttempts = defaultResolveAttempts
	}
	c := &Console{
		api:    api,
		notify: notify,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// View returns the current state.
func (c *Console) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v := c.view
	v.Next = append([]domain.DeliveryStatus(nil), c.view.Next...)
	return v
}

// acquire marks an action in flight; release must be called when it returns true.
func (c *Console) acquire() bool { return c.busy.CompareAndSwap(false, true) }
func (c *Console) release()      { c.busy.Store(false) }

func (c *Console) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.cfg.RequestTimeout)
}

// Open resolves the delivery of orderID and loads it into the view.
func (c *Console) Open(ctx context.Context, orderID string) (*domain.Delivery, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, &FormError{Field: "order_id", Message: "order id is required"}
	}
	if !c.acquire() {
		return nil, ErrBusy
	}
	defer c.release()

	c.mu.Lock()
	c.view = View{OrderID: orderID}
	c.mu.Unlock()

	d, err := c.resolve(ctx, orderID)
	if err != nil {
		msg := messageFor(err, "failed to load delivery")
		c.mu.Lock()
		c.view.Mode = ModeError
		c.view.Err = msg
		c.mu.Unlock()
		c.notify.Error(msg)
		return nil, err
	}
	c.load(d)
	return d, nil
}

// Retry re-runs Open for the current order.
func (c *Console) Retry(ctx context.Context) (*domain.Delivery, error) {
	return c.Open(ctx, c.View().OrderID)
}

// resolve finds the delivery of an order:
// by order, then through the order's delivery_id, then by confirming the order.
func (c *Console) resolve(ctx context.Context, orderID string) (*domain.Delivery, error) {
	d, err := c.byOrder(ctx, orderID)
	if err == nil {
		return d, nil
	}
	if !marketplace.IsNotFound(err) {
		return nil, err
	}

	c.logger.Debug("no delivery for order, reading order", logx.String("order_id", orderID))
	o, err := c.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.DeliveryID != nil && *o.DeliveryID != "" {
		return c.byID(ctx, *o.DeliveryID)
	}
	if o.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: order %s is %s", ErrOrderClosed, orderID, o.Status)
	}

	confirmed, err := c.confirm(ctx, orderID)
	if err != nil {
		c.logger.Warn("order confirmation failed", logx.String("order_id", orderID), logx.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrConfirmFirst, err)
	}
	if confirmed.DeliveryID != nil && *confirmed.DeliveryID != "" {
		return c.byID(ctx, *confirmed.DeliveryID)
	}
	return c.poll(ctx, orderID)
}

// poll re-reads the delivery by order with doubling waits.
func (c *Console) poll(ctx context.Context, orderID string) (*domain.Delivery, error) {
	delay := c.cfg.ResolveDelay
	for attempt := 1; attempt <= c.cfg.ResolveAttempts; attempt++ {
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
		d, err := c.byOrder(ctx, orderID)
		if err == nil {
			return d, nil
		}
		if !marketplace.IsNotFound(err) {
			return nil, err
		}
		c.logger.Debug("delivery not created yet",
			logx.String("order_id", orderID),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
		)
		delay = min(delay*2, c.cfg.MaxDelay)
	}
	return nil, ErrNotReady
}

func (c *Console) byOrder(ctx context.Context, orderID string) (*domain.Delivery, error) {
	ctx, cancel := c.call(ctx)
	defer cancel()
	return c.api.GetDeliveryByOrder(ctx, orderID)
}

func (c *Console) byID(ctx context.Context, id string) (*domain.Delivery, error) {
	ctx, cancel := c.call(ctx)
	defer cancel()
	return c.api.GetDelivery(ctx, id)
}

func (c *Console) getOrder(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := c.call(ctx)
	defer cancel()
	return c.api.GetOrder(ctx, id)
}

func (c *Console) confirm(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := c.call(ctx)
	defer cancel()
	return c.api.UpdateOrderStatus(ctx, id, domain.OrderConfirmed)
}

// load replaces the view with d.
func (c *Console) load(d *domain.Delivery) {
	mode := ModeAssign
	if d.HasDriver() {
		mode = ModeAssigned
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = View{
		OrderID:  c.view.OrderID,
		Mode:     mode,
		Delivery: d,
		Form:     formFor(d),
		Next:     domain.NextStatuses(d.Status),
	}
}

// SelectDriver picks a roster entry for the form.
func (c *Console) SelectDriver(id string) error {
	entry, ok := roster.Lookup(id)
	if !ok {
		err := &FormError{Field: "driver", Message: fmt.Sprintf("unknown driver %q", id)}
		c.notify.Error(err.Message)
		return err
	}
	c.mu.Lock()
	c.view.Form.Select(entry)
	c.mu.Unlock()
	return nil
}

// SetSchedule sets the ETA and seller notes of the form.
func (c *Console) SetSchedule(eta *time.Time, notes string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Form.ETA = eta
	c.view.Form.SellerNotes = notes
}

// EditAssignment reopens the form of an assigned delivery.
func (c *Console) EditAssignment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view.Mode == ModeAssigned {
		c.view.Mode = ModeAssign
	}
}

// Assign submits the form. Validation failures never reach the network.
func (c *Console) Assign(ctx context.Context) error {
	if !c.acquire() {
		return ErrBusy
	}
	defer c.release()

	v := c.View()
	if v.Delivery == nil {
		return ErrNoDelivery
	}
	if err := v.Form.Validate(c.now()); err != nil {
		c.notify.Error(err.Error())
		return err
	}

	callCtx, cancel := c.call(ctx)
	d, err := c.api.AssignDriver(callCtx, v.Delivery.ID, v.Form.Request())
	cancel()
	if err != nil {
		c.notify.Error(messageFor(err, "failed to assign driver"))
		return err
	}

	c.load(d)
	c.logger.Info("driver assigned",
		logx.String("delivery_id", d.ID),
		logx.String("driver_id", v.Form.DriverID),
	)
	c.notify.Success(fmt.Sprintf("%s assigned to %s", v.Form.DriverName, d.TrackingNumber))
	return nil
}

// Transition moves the delivery to status and reloads it.
// Only statuses in the current next set are sent.
func (c *Console) Transition(ctx context.Context, status domain.DeliveryStatus, notes string) error {
	if !c.acquire() {
		return ErrBusy
	}
	defer c.release()

	v := c.View()
	if v.Delivery == nil {
		return ErrNoDelivery
	}
	if !allowed(v.Next, status) {
		err := fmt.Errorf("%w: %s to %s", ErrIllegalTransition, v.Delivery.Status, status)
		c.notify.Error(err.Error())
		return err
	}

	callCtx, cancel := c.call(ctx)
	updated, err := c.api.UpdateStatus(callCtx, v.Delivery.ID, status, notes)
	cancel()
	if err != nil {
		c.notify.Error(messageFor(err, "failed to update status"))
		return err
	}

	fresh, err := c.byOrder(ctx, v.OrderID)
	if err != nil {
		c.logger.Warn("reload after transition failed",
			logx.String("delivery_id", updated.ID),
			logx.Err(err),
		)
		fresh = updated
	}
	c.load(fresh)
	c.notify.Success("status updated to " + domain.Badge(fresh.Status).Label)
	return nil
}

func allowed(next []domain.DeliveryStatus, s domain.DeliveryStatus) bool {
	for _, n := range next {
		if n == s {
			return true
		}
	}
	return false
}

// messageFor picks the operator message for err.
func messageFor(err error, fallback string) string {
	switch {
	case errors.Is(err, ErrConfirmFirst):
		return ErrConfirmFirst.Error()
	case errors.Is(err, ErrNotReady):
		return ErrNotReady.Error()
	case errors.Is(err, ErrOrderClosed):
		return err.Error()
	}
	if msg, ok := marketplace.MessageOf(err); ok {
		return msg
	}
	return fallback
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
