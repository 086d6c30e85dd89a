package app

import (
	"go.uber.org/dig"

	"agrimarket-delivery/internal/config"
	"agrimarket-delivery/internal/logx"
	"agrimarket-delivery/internal/transport/kafka"
	"agrimarket-delivery/internal/ws"
)

func registerMessaging(container *dig.Container) error {
	return provideAll(container, provideStatusProducer, provideHub)
}

// provideStatusProducer returns nil when no brokers or topic are configured.
func provideStatusProducer(cfg *config.Config, logger logx.Logger, lc *lifecycle) (*kafka.StatusProducer, error) {
	p, err := kafka.NewStatusProducer(logger, cfg.Kafka.Brokers, cfg.Kafka.DeliveryTopic)
	if err != nil {
		return nil, err
	}
	if p == nil {
		logger.Info("kafka status events disabled")
		return nil, nil
	}
	lc.add("kafka producer", p.Close)
	return p, nil
}

func provideHub(cfg *config.Config, logger logx.Logger, lc *lifecycle) *ws.Hub {
	h := ws.NewHub(logger, cfg.CORS.Origins)
	lc.add("websocket hub", func() error {
		h.Close()
		return nil
	})
	return h
}
