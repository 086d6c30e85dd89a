package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/roster"
	"agrimarket-delivery/internal/service/delivery"
)

type stubDeliveryUsecase struct {
	getByIDFn      func(ctx context.Context, id string) (*domain.Delivery, error)
	getByOrderIDFn func(ctx context.Context, orderID string) (*domain.Delivery, error)
	assignFn       func(ctx context.Context, id string, in delivery.AssignDriverInput) (*domain.Delivery, error)
	updateStatusFn func(ctx context.Context, id, status, note string) (*domain.Delivery, error)
	nextFn         func(ctx context.Context, id string) ([]domain.DeliveryStatus, error)
}

func (s *stubDeliveryUsecase) GetByID(ctx context.Context, id string) (*domain.Delivery, error) {
	if s.getByIDFn == nil {
		panic("GetByID not expected in this test")
	}
	return s.getByIDFn(ctx, id)
}

func (s *stubDeliveryUsecase) GetByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error) {
	if s.getByOrderIDFn == nil {
		panic("GetByOrderID not expected in this test")
	}
	return s.getByOrderIDFn(ctx, orderID)
}

func (s *stubDeliveryUsecase) AssignDriver(ctx context.Context, id string, in delivery.AssignDriverInput) (*domain.Delivery, error) {
	if s.assignFn == nil {
		panic("AssignDriver not expected in this test")
	}
	return s.assignFn(ctx, id, in)
}

func (s *stubDeliveryUsecase) UpdateStatus(ctx context.Context, id, status, note string) (*domain.Delivery, error) {
	if s.updateStatusFn == nil {
		panic("UpdateStatus not expected in this test")
	}
	return s.updateStatusFn(ctx, id, status, note)
}

func (s *stubDeliveryUsecase) NextStatuses(ctx context.Context, id string) ([]domain.DeliveryStatus, error) {
	if s.nextFn == nil {
		panic("NextStatuses not expected in this test")
	}
	return s.nextFn(ctx, id)
}

func (s *stubDeliveryUsecase) Roster() []roster.DefaultDriver { return roster.All() }

type stubOrderUsecase struct {
	getFn    func(ctx context.Context, id string) (*domain.Order, error)
	updateFn func(ctx context.Context, id, status string) (*domain.Order, error)
}

func (s *stubOrderUsecase) Get(ctx context.Context, id string) (*domain.Order, error) {
	if s.getFn == nil {
		panic("Get not expected in this test")
	}
	return s.getFn(ctx, id)
}

func (s *stubOrderUsecase) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if s.updateFn == nil {
		panic("UpdateStatus not expected in this test")
	}
	return s.updateFn(ctx, id, status)
}

type stubStreamer struct {
	served string
}

func (s *stubStreamer) Serve(w http.ResponseWriter, _ *http.Request, deliveryID string) {
	s.served = deliveryID
	w.WriteHeader(http.StatusSwitchingProtocols)
}

func withParam(r *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
}
