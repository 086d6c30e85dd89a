package app

import (
	"context"
	"time"

	"go.uber.org/dig"

	"agrimarket-delivery/internal/config"
	"agrimarket-delivery/internal/logx"
	"agrimarket-delivery/internal/service/orders"
	"agrimarket-delivery/internal/transport/kafka"
)

const orderEventTimeout = 5 * time.Second

type orderHandler interface {
	Handle(ctx context.Context, e orders.Event) error
}

// makeOrdersKafka bounds each order event by a timeout of its own,
// so one slow event cannot hold the partition past the session timeout.
func makeOrdersKafka(p orderHandler, logger logx.Logger, timeout time.Duration) kafka.HandleFunc {
	return func(ctx context.Context, event orders.Event) error {
		evCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		start := time.Now()
		err := p.Handle(evCtx, event)
		logger.Debug("order event handled",
			logx.String("order_id", event.OrderID),
			logx.String("status", event.Status),
			logx.Duration("took", time.Since(start)),
			logx.Bool("ok", err == nil),
		)
		return err
	}
}

func provideOrdersConsumer(cfg *config.Config, logger logx.Logger, p *orders.Processor, lc *lifecycle) (*kafka.Consumer, error) {
	k := cfg.Kafka
	c, err := kafka.NewConsumer(logger, k.Brokers, k.GroupID, k.OrdersTopic, makeOrdersKafka(p, logger, orderEventTimeout))
	if err != nil {
		return nil, err
	}
	if c != nil {
		lc.add("kafka consumer", c.Close)
	}
	return c, nil
}

func registerWorker(container *dig.Container) error {
	return provideAll(container, provideOrdersConsumer)
}
