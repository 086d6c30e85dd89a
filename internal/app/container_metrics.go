package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"agrimarket-delivery/internal/metrics"
)

type metricsOut struct {
	dig.Out
	Registry     *prometheus.Registry
	RateLimited  prometheus.Counter     `name:"rate_limit_exceeded_total"`
	Transitions  *prometheus.CounterVec `name:"delivery_status_transitions_total"`
	CacheResults *prometheus.CounterVec `name:"delivery_cache_results_total"`
}

// newMetrics registers every collector on a private registry so containers do not share state.
func newMetrics() (metricsOut, error) {
	reg := prometheus.NewRegistry()
	out := metricsOut{
		Registry:     reg,
		RateLimited:  metrics.NewRateLimitExceededTotal(),
		Transitions:  metrics.NewDeliveryTransitionsTotal(),
		CacheResults: metrics.NewCacheResultsTotal(),
	}
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		out.RateLimited,
		out.Transitions,
		out.CacheResults,
	} {
		if err := reg.Register(c); err != nil {
			return metricsOut{}, err
		}
	}
	return out, nil
}

type metricsHandler http.Handler

func registerMetrics(container *dig.Container) error {
	return provideAll(container,
		newMetrics,
		func(reg *prometheus.Registry) metricsHandler {
			return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
		},
	)
}
