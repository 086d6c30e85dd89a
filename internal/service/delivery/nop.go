package delivery

import (
	"context"

	"agrimarket-delivery/internal/domain"
)

type nopCache struct{}

func (nopCache) Get(context.Context, string) (*domain.Delivery, error) { return nil, nil }
func (nopCache) Set(context.Context, *domain.Delivery) error           { return nil }
func (nopCache) Delete(context.Context, string) error                  { return nil }

// Publishers fans a status event out to every publisher.
// All publishers are called; the first error is returned.
type Publishers []EventPublisher

// Publish implements EventPublisher.
func (ps Publishers) Publish(ctx context.Context, e domain.StatusEvent) error {
	var first error
	for _, p := range ps {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil && first == nil {
			first = err
		}
	}
	return first
}
