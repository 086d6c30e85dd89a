package app

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/dig"

	"agrimarket-delivery/internal/config"
	"agrimarket-delivery/internal/http/handlers"
	"agrimarket-delivery/internal/http/middleware/ratelimit"
	"agrimarket-delivery/internal/http/pprofserver"
	"agrimarket-delivery/internal/http/router"
	"agrimarket-delivery/internal/logx"
	"agrimarket-delivery/internal/ws"
)

// debugServer is the optional pprof listener; Server is nil when disabled.
type debugServer struct {
	*http.Server
}

type routerIn struct {
	dig.In
	Config     *config.Config
	Logger     logx.Logger
	Base       *handlers.Handlers
	Deliveries *handlers.DeliveryHandler
	Orders     *handlers.OrderHandler
	RateLimit  *ratelimit.Middleware
	Metrics    metricsHandler
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Base:        in.Base,
		Deliveries:  in.Deliveries,
		Orders:      in.Orders,
		Logger:      in.Logger,
		RateLimit:   in.RateLimit.Handler(),
		Metrics:     in.Metrics,
		CORSOrigins: in.Config.CORS.Origins,
	})
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			// no WriteTimeout: websocket connections set their own write deadlines
			IdleTimeout: 60 * time.Second,
		}
	}
	debugProvider := func(cfg *config.Config) debugServer {
		return debugServer{pprofserver.New(pprofserver.Config{
			Addr: cfg.Pprof.Addr,
			User: cfg.Pprof.User,
			Pass: cfg.Pprof.Pass,
		})}
	}
	return provideAll(container,
		func(h *ws.Hub) handlers.StatusStreamer { return h },
		handlers.New,
		handlers.NewDeliveryUsecase,
		handlers.NewDeliveryHandler,
		handlers.NewOrderUsecase,
		handlers.NewOrderHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouter,
		serverProvider,
		debugProvider,
	)
}
