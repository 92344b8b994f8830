package orderservice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quickeats/platform/internal/domain/orders"
	"github.com/quickeats/platform/internal/ports"
)

// Handler adapts HTTP requests to the OrderService.
type Handler struct {
	svc    ports.OrderService
	logger *zap.SugaredLogger
}

// NewHandler wires the HTTP handler around the OrderService.
func NewHandler(svc ports.OrderService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the order routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/orders", h.placeOrder)
	r.Post("/orders/{id}/cancel", h.cancelOrder)
	r.Patch("/orders/{id}/status", h.updateStatus)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders", h.listOrders)
}

// --- request/response DTOs ---

type placeOrderRequest struct {
	CustomerUsername    string                  `json:"customer_username"`
	RestaurantID        int64                   `json:"restaurant_id"`
	DeliveryAddress     *string                 `json:"delivery_address,omitempty"`
	SpecialInstructions *string                 `json:"special_instructions,omitempty"`
	Items               []placeOrderItemRequest `json:"items"`
}

type placeOrderItemRequest struct {
	MenuItemID          int64   `json:"menu_item_id"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions *string `json:"special_instructions,omitempty"`
}

type cancelOrderRequest struct {
	Username string `json:"username"`
	Reason   string `json:"reason,omitempty"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

type orderItemResponse struct {
	MenuItemID int64   `json:"menu_item_id"`
	ItemName   string  `json:"item_name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	Subtotal   float64 `json:"subtotal"`
}

type orderResponse struct {
	ID                    int64               `json:"id"`
	CustomerID            int64               `json:"customer_id"`
	CustomerName          string              `json:"customer_name"`
	RestaurantID          int64               `json:"restaurant_id"`
	RestaurantName        string              `json:"restaurant_name"`
	RestaurantAddress     string              `json:"restaurant_address"`
	DeliveryAddress       string              `json:"delivery_address"`
	EstimatedDeliveryTime time.Time           `json:"estimated_delivery_time"`
	Items                 []orderItemResponse `json:"items,omitempty"`
	TotalAmount           float64             `json:"total_amount"`
	Status                string              `json:"status"`
	CreatedAt             time.Time           `json:"created_at"`
}

func toOrderResponse(o *orders.Order) orderResponse {
	resp := orderResponse{
		ID:                    o.ID,
		CustomerID:            o.CustomerID,
		CustomerName:          o.CustomerName,
		RestaurantID:          o.RestaurantID,
		RestaurantName:        o.RestaurantName,
		RestaurantAddress:     o.RestaurantAddress,
		DeliveryAddress:       o.DeliveryAddress,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		TotalAmount:           o.TotalAmount.ToFloat2(),
		Status:                string(o.Status),
		CreatedAt:             o.CreatedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			MenuItemID: it.MenuItemID,
			ItemName:   it.ItemName,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice.ToFloat2(),
			Subtotal:   it.Subtotal.ToFloat2(),
		})
	}
	return resp
}

// --- handlers ---

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.CustomerUsername == "" || req.RestaurantID == 0 {
		h.httpError(w, http.StatusBadRequest, "customer_username and restaurant_id are required")
		return
	}

	cmd := ports.PlaceOrderCommand{
		CustomerUsername:    req.CustomerUsername,
		RestaurantID:        req.RestaurantID,
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
	}
	for _, it := range req.Items {
		cmd.Items = append(cmd.Items, ports.OrderItemInput{
			MenuItemID:          it.MenuItemID,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
		})
	}

	order, err := h.svc.PlaceOrder(r.Context(), cmd)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, toOrderResponse(order))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req cancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Username == "" {
		h.httpError(w, http.StatusBadRequest, "username is required")
		return
	}

	order, err := h.svc.CancelOrder(r.Context(), id, req.Username, req.Reason)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	status, ok := orders.ParseStatus(req.Status)
	if !ok {
		h.httpError(w, http.StatusBadRequest, "unknown order status: "+req.Status)
		return
	}

	order, err := h.svc.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var (
		list []orders.Order
		err  error
	)
	switch {
	case r.URL.Query().Get("username") != "":
		list, err = h.svc.ListCustomerOrders(r.Context(), r.URL.Query().Get("username"))
	case r.URL.Query().Get("restaurant_id") != "":
		var restaurantID int64
		restaurantID, err = strconv.ParseInt(r.URL.Query().Get("restaurant_id"), 10, 64)
		if err != nil {
			h.httpError(w, http.StatusBadRequest, "invalid restaurant_id")
			return
		}
		list, err = h.svc.ListRestaurantOrders(r.Context(), restaurantID)
	default:
		h.httpError(w, http.StatusBadRequest, "username or restaurant_id query parameter is required")
		return
	}
	if err != nil {
		h.serviceError(w, err)
		return
	}

	out := make([]orderResponse, 0, len(list))
	for i := range list {
		out = append(out, toOrderResponse(&list[i]))
	}
	h.jsonResponse(w, http.StatusOK, out)
}

// --- helpers ---

func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		h.httpError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ports.ErrUnavailable):
		h.httpError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, ErrNotOwner):
		h.httpError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotCancellable), errors.Is(err, ErrRestaurantClosed),
		errors.Is(err, ErrIllegalTransition):
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
