package handlers

import (
	"net/http"

	"agrimarket-delivery/internal/http/wire"
	"agrimarket-delivery/internal/logx"
)

// OrderHandler serves the marketplace order endpoints the delivery workflow depends on.
type OrderHandler struct {
	usecase orderUsecase
	logger  logx.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(logger logx.Logger, uc orderUsecase) *OrderHandler {
	return &OrderHandler{usecase: uc, logger: logger}
}

// Get handles GET /api/marketplace/orders/{orderId}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "orderId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	o, err := h.usecase.Get(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err, "order not found")
		return
	}
	writeData(h.logger, w, r, http.StatusOK, wire.OrderData{Order: wire.FromOrder(o)})
}

// Update handles PUT /api/marketplace/orders/{orderId}.
// Confirming an order creates its delivery; the response carries delivery_id.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "orderId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	var req wire.UpdateOrderRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	o, err := h.usecase.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(h.logger, w, r, err, "order not found")
		return
	}
	writeData(h.logger, w, r, http.StatusOK, wire.OrderData{Order: wire.FromOrder(o)})
}
