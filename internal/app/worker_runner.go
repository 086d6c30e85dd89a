package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/dig"

	"agrimarket-delivery/internal/logx"
	"agrimarket-delivery/internal/transport/kafka"
)

// WorkerRunner runs the Kafka orders consumer
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun consumes order events until the container context is done
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(ctx context.Context, lc *lifecycle, logger logx.Logger, consumer *kafka.Consumer) error {
	if lc != nil {
		defer lc.closeAll(logger)
	}
	if consumer == nil {
		return fmt.Errorf("kafka consumer is nil: worker container misconfigured")
	}

	logger.Info("service-delivery-worker started")
	return consumer.Run(ctx)
}
