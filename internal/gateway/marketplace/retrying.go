package marketplace

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/http/wire"
	"agrimarket-delivery/internal/logx"
)

type api interface {
	GetDeliveryByOrder(ctx context.Context, orderID string) (*domain.Delivery, error)
	GetDelivery(ctx context.Context, id string) (*domain.Delivery, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	AssignDriver(ctx context.Context, id string, req wire.AssignDriverRequest) (*domain.Delivery, error)
	UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus, notes string) (*domain.Delivery, error)
	NextStatuses(ctx context.Context, id string) ([]domain.DeliveryStatus, error)
	Drivers(ctx context.Context) ([]wire.Driver, error)
}

type counter interface {
	Inc()
}

// RetryConfig описывает поведение RetryingClient
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingClient повторяет идемпотентные чтения при 5xx, 429 и сетевых ошибках.
// Изменяющие запросы выполняются один раз.
type RetryingClient struct {
	next    api
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingClient конструктор который проверяет, что next не nil и возвращает RetryingClient
func NewRetryingClient(next api, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingClient {
	if next == nil {
		return nil
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &RetryingClient{next: next, logger: logger, retries: retries, cfg: cfg}
}

// GetDeliveryByOrder retries the lookup; a 404 is returned at once.
func (g *RetryingClient) GetDeliveryByOrder(ctx context.Context, orderID string) (*domain.Delivery, error) {
	return retry(ctx, g, "GetDeliveryByOrder", func(ctx context.Context) (*domain.Delivery, error) {
		return g.next.GetDeliveryByOrder(ctx, orderID)
	})
}

// GetDelivery retries the lookup.
func (g *RetryingClient) GetDelivery(ctx context.Context, id string) (*domain.Delivery, error) {
	return retry(ctx, g, "GetDelivery", func(ctx context.Context) (*domain.Delivery, error) {
		return g.next.GetDelivery(ctx, id)
	})
}

// GetOrder retries the lookup.
func (g *RetryingClient) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return retry(ctx, g, "GetOrder", func(ctx context.Context) (*domain.Order, error) {
		return g.next.GetOrder(ctx, id)
	})
}

// NextStatuses retries the lookup.
func (g *RetryingClient) NextStatuses(ctx context.Context, id string) ([]domain.DeliveryStatus, error) {
	return retry(ctx, g, "NextStatuses", func(ctx context.Context) ([]domain.DeliveryStatus, error) {
		return g.next.NextStatuses(ctx, id)
	})
}

// Drivers retries the lookup.
func (g *RetryingClient) Drivers(ctx context.Context) ([]wire.Driver, error) {
	return retry(ctx, g, "Drivers", g.next.Drivers)
}

// UpdateOrderStatus is not retried.
func (g *RetryingClient) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	return g.next.UpdateOrderStatus(ctx, id, status)
}

// AssignDriver is not retried.
func (g *RetryingClient) AssignDriver(ctx context.Context, id string, req wire.AssignDriverRequest) (*domain.Delivery, error) {
	return g.next.AssignDriver(ctx, id, req)
}

// UpdateStatus is not retried.
func (g *RetryingClient) UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus, notes string) (*domain.Delivery, error) {
	return g.next.UpdateStatus(ctx, id, status, notes)
}

func retry[T any](ctx context.Context, g *RetryingClient, method string, call func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		out, err := call(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		// проверяем условия повтора
		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}
		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("marketplace api retry",
			logx.String("method", method),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return zero, lastErr
}

// isRetryable определяет, является ли ошибка повторяемой
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= http.StatusInternalServerError || se.Code == http.StatusTooManyRequests
	}
	var ne net.Error
	return errors.As(err, &ne) || errors.Is(err, context.DeadlineExceeded)
}

// backoff вычисляет задержку повтора
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
