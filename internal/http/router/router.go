package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"agrimarket-delivery/internal/http/handlers"
	obs "agrimarket-delivery/internal/http/middleware"
	"agrimarket-delivery/internal/logx"
)

const defaultRequestTimeout = 5 * time.Second

// Deps collects what the router mounts.
type Deps struct {
	Base       *handlers.Handlers
	Deliveries *handlers.DeliveryHandler
	Orders     *handlers.OrderHandler
	Logger     logx.Logger

	// RateLimit is applied to /api routes when set.
	RateLimit func(http.Handler) http.Handler
	// Metrics is served on /metrics; promhttp.Handler() when nil.
	Metrics        http.Handler
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = logx.Nop()
	}
	if d.Metrics == nil {
		d.Metrics = promhttp.Handler()
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = defaultRequestTimeout
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.Observability(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(d.CORSOrigins))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	r.Method(http.MethodGet, "/metrics", d.Metrics)
	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	r.Route("/api", func(api chi.Router) {
		if d.RateLimit != nil {
			api.Use(d.RateLimit)
		}

		// websocket upgrades outlive the request timeout
		api.Get("/delivery/{deliveryId}/ws", d.Deliveries.Stream)

		api.Group(func(g chi.Router) {
			g.Use(middleware.Timeout(d.RequestTimeout))

			g.Get("/delivery/drivers", d.Deliveries.Drivers)
			g.Get("/delivery/by-order/{orderId}", d.Deliveries.GetByOrderID)
			g.Get("/delivery/{deliveryId}", d.Deliveries.GetByID)
			g.Post("/delivery/{deliveryId}/assign-driver", d.Deliveries.AssignDriver)
			g.Patch("/delivery/{deliveryId}/update-status", d.Deliveries.UpdateStatus)
			g.Get("/delivery/{deliveryId}/next-statuses", d.Deliveries.NextStatuses)

			g.Get("/marketplace/orders/{orderId}", d.Orders.Get)
			g.Put("/marketplace/orders/{orderId}", d.Orders.Update)
		})
	})

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler
}
