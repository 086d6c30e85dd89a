package console_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"agrimarket-delivery/internal/console"
	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/gateway/marketplace"
	"agrimarket-delivery/internal/http/wire"
	"agrimarket-delivery/internal/logx"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

var errNotFound = &marketplace.StatusError{Code: http.StatusNotFound, Message: "delivery not found"}

type sleeps struct {
	mu  sync.Mutex
	got []time.Duration
}

func (s *sleeps) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, d)
	return nil
}

func (s *sleeps) delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.got...)
}

func testConfig() console.Config {
	return console.Config{
		RequestTimeout:  time.Second,
		ResolveDelay:    100 * time.Millisecond,
		MaxDelay:        300 * time.Millisecond,
		ResolveAttempts: 4,
	}
}

func newConsole(api console.API, out *bytes.Buffer, s *sleeps) *console.Console {
	if s == nil {
		s = &sleeps{}
	}
	return console.New(api, console.NewWriterNotifier(out), logx.Nop(), testConfig(),
		console.WithClock(func() time.Time { return fixedNow }),
		console.WithSleep(s.sleep),
	)
}

func pendingDelivery() *domain.Delivery {
	return &domain.Delivery{
		ID:             "del-1",
		OrderID:        "ord-1",
		TrackingNumber: "AGM-20260310-0A1B2C3D",
		Status:         domain.StatusPending,
	}
}

func assignedDelivery() *domain.Delivery {
	d := pendingDelivery()
	d.Status = domain.StatusPickupAssigned
	d.Driver = &domain.Driver{ID: "drv-001", Name: "Juan Dela Cruz", Phone: "+639171234567"}
	d.Vehicle = &domain.Vehicle{Type: domain.VehicleMotorcycle, Plate: "ABC 1234"}
	return d
}

func strPtr(s string) *string { return &s }

func TestConsole_Open_DirectLookup(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(assignedDelivery(), nil)

	c := newConsole(api, &bytes.Buffer{}, nil)

	d, err := c.Open(context.Background(), " ord-1 ")
	require.NoError(t, err)
	require.Equal(t, "del-1", d.ID)

	v := c.View()
	require.Equal(t, "ord-1", v.OrderID)
	require.Equal(t, console.ModeAssigned, v.Mode)
	require.Equal(t, "drv-001", v.Form.SelectedDriverID)
	require.Equal(t, domain.VehicleMotorcycle, v.Form.VehicleType)
	require.Equal(t, []domain.DeliveryStatus{domain.StatusPickupInProgress, domain.StatusCancelled}, v.Next)
}

func TestConsole_Open_UsesOrderDeliveryID(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	gomock.InOrder(
		api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(nil, errNotFound),
		api.EXPECT().GetOrder(gomock.Any(), "ord-1").
			Return(&domain.Order{ID: "ord-1", Status: domain.OrderConfirmed, DeliveryID: strPtr("del-1")}, nil),
		api.EXPECT().GetDelivery(gomock.Any(), "del-1").Return(pendingDelivery(), nil),
	)

	c := newConsole(api, &bytes.Buffer{}, nil)

	_, err := c.Open(context.Background(), "ord-1")
	require.NoError(t, err)
	require.Equal(t, console.ModeAssign, c.View().Mode)
	require.Empty(t, c.View().Form.SelectedDriverID)
}

func TestConsole_Open_ConfirmsOrderAndPolls(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	gomock.InOrder(
		api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(nil, errNotFound),
		api.EXPECT().GetOrder(gomock.Any(), "ord-1").Return(&domain.Order{ID: "ord-1", Status: domain.OrderPending}, nil),
		api.EXPECT().UpdateOrderStatus(gomock.Any(), "ord-1", domain.OrderConfirmed).
			Return(&domain.Order{ID: "ord-1", Status: domain.OrderConfirmed}, nil),
		api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(nil, errNotFound).Times(2),
		api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(pendingDelivery(), nil),
	)

	s := &sleeps{}
	c := newConsole(api, &bytes.Buffer{}, s)

	d, err := c.Open(context.Background(), "ord-1")
	require.NoError(t, err)
	require.Equal(t, "del-1", d.ID)
	require.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}, s.delays())
	require.Equal(t, console.ModeAssign, c.View().Mode)
}

func TestConsole_Open_ConfirmedOrderCarriesDeliveryID(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(nil, errNotFound)
	api.EXPECT().GetOrder(gomock.Any(), "ord-1").Return(&domain.Order{ID: "ord-1", Status: domain.OrderPending}, nil)
	api.EXPECT().UpdateOrderStatus(gomock.Any(), "ord-1", domain.OrderConfirmed).
		Return(&domain.Order{ID: "ord-1", Status: domain.OrderConfirmed, DeliveryID: strPtr("del-1")}, nil)
	api.EXPECT().GetDelivery(gomock.Any(), "del-1").Return(pendingDelivery(), nil)

	s := &sleeps{}
	c := newConsole(api, &bytes.Buffer{}, s)

	_, err := c.Open(context.Background(), "ord-1")
	require.NoError(t, err)
	require.Empty(t, s.delays())
}

func TestConsole_Open_ConfirmFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(nil, errNotFound)
	api.EXPECT().GetOrder(gomock.Any(), "ord-1").Return(&domain.Order{ID: "ord-1", Status: domain.OrderPending}, nil)
	api.EXPECT().UpdateOrderStatus(gomock.Any(), "ord-1", domain.OrderConfirmed).
		Return(nil, &marketplace.StatusError{Code: http.StatusInternalServerError})

	out := &bytes.Buffer{}
	c := newConsole(api, out, nil)

	_, err := c.Open(context.Background(), "ord-1")
	require.ErrorIs(t, err, console.ErrConfirmFirst)

	v := c.View()
	require.Equal(t, console.ModeError, v.Mode)
	require.Equal(t, console.ErrConfirmFirst.Error(), v.Err)
	require.Nil(t, v.Delivery)
	require.Contains(t, out.String(), "[error] "+console.ErrConfirmFirst.Error())
}

func TestConsole_Open_ClosedOrderIsNotConfirmed(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	// no UpdateOrderStatus expectation: a cancelled order is never confirmed
	api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(nil, errNotFound)
	api.EXPECT().GetOrder(gomock.Any(), "ord-1").Return(&domain.Order{ID: "ord-1", Status: domain.OrderCancelled}, nil)

	out := &bytes.Buffer{}
	c := newConsole(api, out, nil)

	_, err := c.Open(context.Background(), "ord-1")
	require.ErrorIs(t, err, console.ErrOrderClosed)

	v := c.View()
	require.Equal(t, console.ModeError, v.Mode)
	require.Contains(t, v.Err, "order ord-1 is cancelled")
	require.Contains(t, out.String(), "[error] ")
}

func TestConsole_Open_NotReadyAfterPolling(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	api.EXPECT().GetOrder(gomock.Any(), "ord-1").Return(&domain.Order{ID: "ord-1"}, nil)
	api.EXPECT().UpdateOrderStatus(gomock.Any(), "ord-1", domain.OrderConfirmed).Return(&domain.Order{ID: "ord-1"}, nil)
	// one direct lookup plus four polls
	api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(nil, errNotFound).Times(5)

	s := &sleeps{}
	c := newConsole(api, &bytes.Buffer{}, s)

	_, err := c.Open(context.Background(), "ord-1")
	require.ErrorIs(t, err, console.ErrNotReady)
	require.Len(t, s.delays(), 4)
	require.Equal(t, 300*time.Millisecond, s.delays()[3])
	require.Equal(t, console.ErrNotReady.Error(), c.View().Err)
}

func TestConsole_Open_OtherErrorStops(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").
		Return(nil, &marketplace.StatusError{Code: http.StatusBadGateway, Message: "upstream down"})

	c := newConsole(api, &bytes.Buffer{}, nil)

	_, err := c.Open(context.Background(), "ord-1")
	require.Error(t, err)
	require.Equal(t, "upstream down", c.View().Err)
}

func TestConsole_Open_EmptyOrderID(t *testing.T) {
	t.Parallel()

	c := newConsole(NewMockAPI(gomock.NewController(t)), &bytes.Buffer{}, nil)

	_, err := c.Open(context.Background(), "  ")
	var fe *console.FormError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "order_id", fe.Field)
}

func TestConsole_Assign_ValidationSendsNothing(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(pendingDelivery(), nil)
	// no AssignDriver expectation: a call would fail the test

	out := &bytes.Buffer{}
	c := newConsole(api, out, nil)
	_, err := c.Open(context.Background(), "ord-1")
	require.NoError(t, err)

	err = c.Assign(context.Background())
	var fe *console.FormError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "please select a driver", fe.Message)

	require.NoError(t, c.SelectDriver("drv-002"))
	past := fixedNow.Add(-time.Hour)
	c.SetSchedule(&past, "")

	err = c.Assign(context.Background())
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "estimated_delivery_time", fe.Field)
	require.Equal(t, "estimated delivery time cannot be in the past", fe.Message)
	require.Contains(t, out.String(), "[error] estimated delivery time cannot be in the past")
	require.Equal(t, console.ModeAssign, c.View().Mode)
}

func TestConsole_Assign_Success(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(pendingDelivery(), nil)

	eta := fixedNow.Add(4 * time.Hour)
	api.EXPECT().AssignDriver(gomock.Any(), "del-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, req wire.AssignDriverRequest) (*domain.Delivery, error) {
			require.Equal(t, "drv-001", req.DriverID)
			require.Equal(t, "Juan Dela Cruz", req.DriverName)
			require.Equal(t, domain.VehicleMotorcycle, req.VehicleType)
			require.Equal(t, "fragile eggs", req.SellerNotes)
			require.NotNil(t, req.EstimatedDeliveryTime)
			require.True(t, req.EstimatedDeliveryTime.Equal(eta))
			d := assignedDelivery()
			d.EstimatedDeliveryTime = req.EstimatedDeliveryTime
			d.SellerNotes = req.SellerNotes
			return d, nil
		})

	out := &bytes.Buffer{}
	c := newConsole(api, out, nil)
	_, err := c.Open(context.Background(), "ord-1")
	require.NoError(t, err)

	require.NoError(t, c.SelectDriver("drv-001"))
	c.SetSchedule(&eta, "fragile eggs")
	require.NoError(t, c.Assign(context.Background()))

	v := c.View()
	require.Equal(t, console.ModeAssigned, v.Mode)
	require.Equal(t, domain.StatusPickupAssigned, v.Delivery.Status)
	require.Equal(t, "fragile eggs", v.Form.SellerNotes)
	require.Contains(t, out.String(), "[ok] Juan Dela Cruz assigned to AGM-20260310-0A1B2C3D")

	c.EditAssignment()
	require.Equal(t, console.ModeAssign, c.View().Mode)
}

func TestConsole_Assign_FailureKeepsForm(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(pendingDelivery(), nil)
	api.EXPECT().AssignDriver(gomock.Any(), "del-1", gomock.Any()).
		Return(nil, &marketplace.StatusError{Code: http.StatusBadRequest, Message: "driver_phone: invalid phone number"})

	out := &bytes.Buffer{}
	c := newConsole(api, out, nil)
	_, err := c.Open(context.Background(), "ord-1")
	require.NoError(t, err)
	require.NoError(t, c.SelectDriver("drv-003"))

	require.Error(t, c.Assign(context.Background()))

	v := c.View()
	require.Equal(t, console.ModeAssign, v.Mode)
	require.Equal(t, "drv-003", v.Form.SelectedDriverID)
	require.Equal(t, domain.StatusPending, v.Delivery.Status)
	require.Contains(t, out.String(), "[error] driver_phone: invalid phone number")
}

func TestConsole_SelectDriver_Unknown(t *testing.T) {
	t.Parallel()

	c := newConsole(NewMockAPI(gomock.NewController(t)), &bytes.Buffer{}, nil)

	var fe *console.FormError
	require.ErrorAs(t, c.SelectDriver("drv-999"), &fe)
}

func TestConsole_Transition_NotAllowedSendsNothing(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(pendingDelivery(), nil)

	c := newConsole(api, &bytes.Buffer{}, nil)
	_, err := c.Open(context.Background(), "ord-1")
	require.NoError(t, err)

	err = c.Transition(context.Background(), domain.StatusDelivered, "")
	require.ErrorIs(t, err, console.ErrIllegalTransition)
	require.Equal(t, domain.StatusPending, c.View().Delivery.Status)
}

func TestConsole_Transition_ShowsReloadedMilestone(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)

	inProgress := assignedDelivery()
	inProgress.Status = domain.StatusPickupInProgress

	// the update response lacks the milestone the server stamps on commit
	response := assignedDelivery()
	response.Status = domain.StatusPickedUp

	pickedUpAt := fixedNow.Add(7 * time.Minute)
	reloaded := assignedDelivery()
	reloaded.Status = domain.StatusPickedUp
	reloaded.PickedUpAt = &pickedUpAt
	reloaded.DeliveryNotes = "sacks of rice loaded"

	gomock.InOrder(
		api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(inProgress, nil),
		api.EXPECT().UpdateStatus(gomock.Any(), "del-1", domain.StatusPickedUp, "sacks of rice loaded").Return(response, nil),
		api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(reloaded, nil),
	)

	out := &bytes.Buffer{}
	c := newConsole(api, out, nil)
	_, err := c.Open(context.Background(), "ord-1")
	require.NoError(t, err)

	require.NoError(t, c.Transition(context.Background(), domain.StatusPickedUp, "sacks of rice loaded"))

	v := c.View()
	require.Equal(t, domain.StatusPickedUp, v.Delivery.Status)
	require.NotNil(t, v.Delivery.PickedUpAt)
	require.True(t, v.Delivery.PickedUpAt.Equal(pickedUpAt))
	require.Equal(t, "sacks of rice loaded", v.Delivery.DeliveryNotes)
	require.Equal(t, []domain.DeliveryStatus{domain.StatusAtOriginHub, domain.StatusCancelled}, v.Next)
	require.Contains(t, out.String(), "[ok] status updated to")
}

func TestConsole_Transition_ReloadFailureShowsResponse(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)

	moved := assignedDelivery()
	moved.Status = domain.StatusPickupInProgress
	gomock.InOrder(
		api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(assignedDelivery(), nil),
		api.EXPECT().UpdateStatus(gomock.Any(), "del-1", domain.StatusPickupInProgress, "").Return(moved, nil),
		api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").
			Return(nil, &marketplace.StatusError{Code: http.StatusBadGateway}),
	)

	c := newConsole(api, &bytes.Buffer{}, nil)
	_, err := c.Open(context.Background(), "ord-1")
	require.NoError(t, err)

	require.NoError(t, c.Transition(context.Background(), domain.StatusPickupInProgress, ""))

	v := c.View()
	require.Equal(t, domain.StatusPickupInProgress, v.Delivery.Status)
	require.Equal(t, []domain.DeliveryStatus{domain.StatusPickedUp, domain.StatusCancelled}, v.Next)
}

func TestConsole_Transition_FailureKeepsState(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(assignedDelivery(), nil)
	api.EXPECT().UpdateStatus(gomock.Any(), "del-1", domain.StatusCancelled, "").
		Return(nil, &marketplace.StatusError{
			Code:    http.StatusConflict,
			Message: "invalid status transition from delivered to cancelled",
		})

	out := &bytes.Buffer{}
	c := newConsole(api, out, nil)
	_, err := c.Open(context.Background(), "ord-1")
	require.NoError(t, err)

	require.Error(t, c.Transition(context.Background(), domain.StatusCancelled, ""))
	require.Equal(t, domain.StatusPickupAssigned, c.View().Delivery.Status)
	require.Contains(t, out.String(), "[error] invalid status transition from delivered to cancelled")
}

func TestConsole_Busy(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)

	entered := make(chan struct{})
	unblock := make(chan struct{})
	api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").
		DoAndReturn(func(context.Context, string) (*domain.Delivery, error) {
			close(entered)
			<-unblock
			return pendingDelivery(), nil
		})

	c := newConsole(api, &bytes.Buffer{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.Open(context.Background(), "ord-1")
		done <- err
	}()
	<-entered

	_, err := c.Open(context.Background(), "ord-2")
	require.ErrorIs(t, err, console.ErrBusy)
	require.ErrorIs(t, c.Assign(context.Background()), console.ErrBusy)
	require.ErrorIs(t, c.Transition(context.Background(), domain.StatusCancelled, ""), console.ErrBusy)

	close(unblock)
	require.NoError(t, <-done)
	require.Equal(t, "del-1", c.View().Delivery.ID)
}

func TestConsole_ActionsNeedDelivery(t *testing.T) {
	t.Parallel()

	c := newConsole(NewMockAPI(gomock.NewController(t)), &bytes.Buffer{}, nil)

	require.ErrorIs(t, c.Assign(context.Background()), console.ErrNoDelivery)
	require.ErrorIs(t, c.Transition(context.Background(), domain.StatusCancelled, ""), console.ErrNoDelivery)
}

func TestConsole_GenericMessageWithoutServerText(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	api.EXPECT().GetDeliveryByOrder(gomock.Any(), "ord-1").Return(nil, errors.New("dial tcp: connection refused"))

	out := &bytes.Buffer{}
	c := newConsole(api, out, nil)

	_, err := c.Open(context.Background(), "ord-1")
	require.Error(t, err)
	require.True(t, strings.HasSuffix(strings.TrimSpace(out.String()), "[error] failed to load delivery"))
}
