package deliveryservice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quickeats/platform/internal/domain/deliveries"
	"github.com/quickeats/platform/internal/ports"
)

// Handler adapts HTTP requests to the DeliveryService.
type Handler struct {
	svc    ports.DeliveryService
	logger *zap.SugaredLogger
}

// NewHandler wires the HTTP handler around the DeliveryService.
func NewHandler(svc ports.DeliveryService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the delivery routes.
func (h *Handler) Register(r chi.Router) {
	r.Patch("/deliveries/{id}/status", h.updateStatus)
	r.Get("/deliveries/{id}", h.getDelivery)
	r.Get("/deliveries/order/{orderID}", h.getByOrder)
	r.Get("/deliveries", h.listDeliveries)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type deliveryResponse struct {
	ID              int64      `json:"id"`
	OrderID         int64      `json:"order_id"`
	Status          string     `json:"status"`
	DriverName      string     `json:"driver_name"`
	DriverPhone     string     `json:"driver_phone"`
	PickupAddress   string     `json:"pickup_address"`
	DeliveryAddress string     `json:"delivery_address"`
	AssignedAt      *time.Time `json:"assigned_at,omitempty"`
	PickedUpAt      *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toDeliveryResponse(d *deliveries.Delivery) deliveryResponse {
	return deliveryResponse{
		ID:              d.ID,
		OrderID:         d.OrderID,
		Status:          string(d.Status),
		DriverName:      d.DriverName,
		DriverPhone:     d.DriverPhone,
		PickupAddress:   d.PickupAddress,
		DeliveryAddress: d.DeliveryAddress,
		AssignedAt:      d.AssignedAt,
		PickedUpAt:      d.PickedUpAt,
		DeliveredAt:     d.DeliveredAt,
		CreatedAt:       d.CreatedAt,
	}
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid delivery id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	status, ok := deliveries.ParseStatus(req.Status)
	if !ok {
		h.httpError(w, http.StatusBadRequest, "unknown delivery status: "+req.Status)
		return
	}

	delivery, err := h.svc.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, toDeliveryResponse(delivery))
}

func (h *Handler) getDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid delivery id")
		return
	}

	delivery, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, toDeliveryResponse(delivery))
}

func (h *Handler) getByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	delivery, err := h.svc.GetByOrderID(r.Context(), orderID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, toDeliveryResponse(delivery))
}

func (h *Handler) listDeliveries(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		h.httpError(w, http.StatusBadRequest, "status query parameter is required")
		return
	}
	status, ok := deliveries.ParseStatus(raw)
	if !ok {
		h.httpError(w, http.StatusBadRequest, "unknown delivery status: "+raw)
		return
	}

	list, err := h.svc.ListByStatus(r.Context(), status)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	out := make([]deliveryResponse, 0, len(list))
	for i := range list {
		out = append(out, toDeliveryResponse(&list[i]))
	}
	h.jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		h.httpError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrIllegalTransition):
		h.httpError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Errorw("request failed", "error", err)
		h.httpError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) httpError(w http.ResponseWriter, status int, msg string) {
	h.jsonResponse(w, status, map[string]string{"error": msg})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data any) {
	buf, err := json.Marshal(data)
	if err != nil {
		h.logger.Errorw("failed to encode response", "error", err)
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}
