package kafka_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/service/orders"
	"agrimarket-delivery/internal/transport/kafka"
)

func TestToDomain_TrimsAndCopiesFields(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	dto := kafka.EventDTO{
		OrderID:         "  order-1  ",
		Status:          "  created  ",
		BuyerID:         " buyer-1 ",
		DeliveryAddress: domain.Address{City: "Makati"},
		CreatedAt:       ts,
	}

	got := kafka.ToDomain(dto)

	require.Equal(t, orders.Event{
		OrderID:         "order-1",
		Status:          "created",
		BuyerID:         "buyer-1",
		DeliveryAddress: domain.Address{City: "Makati"},
		CreatedAt:       ts,
	}, got)
}

func TestFromStatusEvent(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 1, 2, 11, 4, 5, 0, time.FixedZone("PHT", 8*3600))
	got := kafka.FromStatusEvent(domain.StatusEvent{
		DeliveryID: "del-1", OrderID: "ord-1", TrackingNumber: "AGM-1",
		From: domain.StatusPickedUp, To: domain.StatusAtOriginHub, At: at,
	})

	require.Equal(t, "picked_up", got.From)
	require.Equal(t, "at_origin_hub", got.To)
	require.Equal(t, time.UTC, got.At.Location())
	require.True(t, got.At.Equal(at))
}
