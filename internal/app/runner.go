package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/dig"

	"agrimarket-delivery/internal/logx"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the HTTP service
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the HTTP server using the provided DI container
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Error("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		panic(err)
	}
}

func run(container *dig.Container) error {
	return container.Invoke(appRun)
}

func appRun(ctx context.Context, server *http.Server, debug debugServer, lc *lifecycle, logger logx.Logger) error {
	defer lc.closeAll(logger)

	errCh := make(chan error, 2)
	startServer(server, logger, "delivery api", errCh)
	if debug.Server != nil {
		startServer(debug.Server, logger, "pprof", errCh)
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down service-delivery")
		runErr = ctx.Err()
	case runErr = <-errCh:
		logger.Error("server stopped", logx.Err(runErr))
	}

	gracefulShutdown(server, logger, shutdownTimeout)
	if debug.Server != nil {
		gracefulShutdown(debug.Server, logger, shutdownTimeout)
	}
	return runErr
}

func startServer(server *http.Server, logger logx.Logger, name string, errCh chan<- error) {
	go func() {
		logger.Info("listening", logx.String("server", name), logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.Err(err))
	}
}
