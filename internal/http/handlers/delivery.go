package handlers

import (
	"net/http"

	"agrimarket-delivery/internal/http/wire"
	"agrimarket-delivery/internal/logx"
	"agrimarket-delivery/internal/service/delivery"
)

// DeliveryHandler handles HTTP requests for delivery resources.
type DeliveryHandler struct {
	usecase  deliveryUsecase
	streamer StatusStreamer
	logger   logx.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler; streamer may be nil.
func NewDeliveryHandler(logger logx.Logger, uc deliveryUsecase, streamer StatusStreamer) *DeliveryHandler {
	return &DeliveryHandler{usecase: uc, streamer: streamer, logger: logger}
}

// GetByOrderID handles GET /api/delivery/by-order/{orderId}.
func (h *DeliveryHandler) GetByOrderID(w http.ResponseWriter, r *http.Request) {
	orderID, err := idFromURL(r, "orderId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	d, err := h.usecase.GetByOrderID(r.Context(), orderID)
	if err != nil {
		writeServiceError(h.logger, w, r, err, "delivery not found")
		return
	}
	writeData(h.logger, w, r, http.StatusOK, wire.DeliveryData{Delivery: wire.FromDelivery(d)})
}

// GetByID handles GET /api/delivery/{deliveryId}.
func (h *DeliveryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "deliveryId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid delivery id")
		return
	}
	d, err := h.usecase.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err, "delivery not found")
		return
	}
	writeData(h.logger, w, r, http.StatusOK, wire.DeliveryData{Delivery: wire.FromDelivery(d)})
}

// AssignDriver handles POST /api/delivery/{deliveryId}/assign-driver.
func (h *DeliveryHandler) AssignDriver(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "deliveryId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid delivery id")
		return
	}
	var req wire.AssignDriverRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	d, err := h.usecase.AssignDriver(r.Context(), id, delivery.AssignDriverInput{
		DriverID:              req.DriverID,
		DriverName:            req.DriverName,
		DriverPhone:           req.DriverPhone,
		DriverEmail:           req.DriverEmail,
		VehicleType:           req.VehicleType,
		VehiclePlate:          req.VehiclePlate,
		VehicleDescription:    req.VehicleDescription,
		EstimatedDeliveryTime: req.EstimatedDeliveryTime,
		SellerNotes:           req.SellerNotes,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err, "delivery not found")
		return
	}
	writeData(h.logger, w, r, http.StatusOK, wire.DeliveryData{Delivery: wire.FromDelivery(d)})
}

// UpdateStatus handles PATCH /api/delivery/{deliveryId}/update-status.
func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "deliveryId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid delivery id")
		return
	}
	var req wire.UpdateStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	d, err := h.usecase.UpdateStatus(r.Context(), id, req.Status, req.Notes)
	if err != nil {
		writeServiceError(h.logger, w, r, err, "delivery not found")
		return
	}
	writeData(h.logger, w, r, http.StatusOK, wire.DeliveryData{Delivery: wire.FromDelivery(d)})
}

// NextStatuses handles GET /api/delivery/{deliveryId}/next-statuses.
func (h *DeliveryHandler) NextStatuses(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "deliveryId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid delivery id")
		return
	}
	next, err := h.usecase.NextStatuses(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err, "delivery not found")
		return
	}
	writeData(h.logger, w, r, http.StatusOK, wire.FromNextStatuses(next))
}

// Drivers handles GET /api/delivery/drivers.
func (h *DeliveryHandler) Drivers(w http.ResponseWriter, r *http.Request) {
	writeData(h.logger, w, r, http.StatusOK, wire.FromRoster(h.usecase.Roster()))
}

// Stream handles GET /api/delivery/{deliveryId}/ws.
func (h *DeliveryHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if h.streamer == nil {
		writeError(h.logger, w, r, http.StatusNotFound, "live updates disabled")
		return
	}
	id, err := idFromURL(r, "deliveryId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid delivery id")
		return
	}
	if _, err := h.usecase.GetByID(r.Context(), id); err != nil {
		writeServiceError(h.logger, w, r, err, "delivery not found")
		return
	}
	h.streamer.Serve(w, r, id)
}
