package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"agrimarket-delivery/internal/logx"
	"agrimarket-delivery/internal/service/delivery"
	"agrimarket-delivery/internal/service/orders"
	"agrimarket-delivery/internal/transport/kafka"
	"agrimarket-delivery/internal/ws"
)

type operationTimeout time.Duration

type deliveryIn struct {
	dig.In
	Store        store
	Timeout      operationTimeout
	Logger       logx.Logger
	Cache        delivery.Cache `optional:"true"`
	Hub          *ws.Hub
	Producer     *kafka.StatusProducer  `optional:"true"`
	Transitions  *prometheus.CounterVec `name:"delivery_status_transitions_total"`
	CacheResults *prometheus.CounterVec `name:"delivery_cache_results_total"`
}

func newDeliveryService(in deliveryIn) *delivery.Service {
	pubs := delivery.Publishers{in.Hub}
	if in.Producer != nil {
		pubs = append(pubs, in.Producer)
	}
	opts := []delivery.Option{
		delivery.WithPublisher(pubs),
		delivery.WithMetrics(in.Transitions, in.CacheResults),
	}
	if in.Cache != nil {
		opts = append(opts, delivery.WithCache(in.Cache))
	}
	return delivery.NewDeliveryService(in.Store, delivery.NewIDFactory(), time.Duration(in.Timeout), in.Logger, opts...)
}

func newOrdersService(s store, svc *delivery.Service, timeout operationTimeout, logger logx.Logger) *orders.Service {
	return orders.NewService(s, svc, time.Duration(timeout), logger)
}

func newOrdersProcessor(s store, svc *delivery.Service, logger logx.Logger) *orders.Processor {
	return orders.NewProcessor(svc, s, logger)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		newDeliveryService,
		newOrdersService,
		newOrdersProcessor,
	)
}
