package customerservice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quickeats/platform/internal/domain/customers"
	"github.com/quickeats/platform/internal/ports"
)

// Handler adapts HTTP requests to the CustomerService.
type Handler struct {
	svc    ports.CustomerService
	logger *zap.SugaredLogger
}

// NewHandler wires the HTTP handler around the CustomerService.
func NewHandler(svc ports.CustomerService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the customer routes. The username route doubles as the
// lookup endpoint for the other services.
func (h *Handler) Register(r chi.Router) {
	r.Post("/customers", h.registerCustomer)
	r.Get("/customers/{id}", h.getCustomer)
	r.Get("/customers/username/{username}", h.getByUsername)
}

type registerCustomerRequest struct {
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	DeliveryAddress string `json:"delivery_address"`
}

type customerResponse struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	DeliveryAddress string    `json:"delivery_address"`
	Role            string    `json:"role"`
	CreatedAt       time.Time `json:"created_at"`
}

func toCustomerResponse(c *customers.Customer) customerResponse {
	return customerResponse{
		ID:              c.ID,
		Username:        c.Username,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Email:           c.Email,
		DeliveryAddress: c.DeliveryAddress,
		Role:            string(c.Role),
		CreatedAt:       c.CreatedAt,
	}
}

func (h *Handler) registerCustomer(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Username == "" || req.Email == "" || req.DeliveryAddress == "" {
		h.httpError(w, http.StatusBadRequest, "username, email and delivery_address are required")
		return
	}

	customer, err := h.svc.Register(r.Context(), ports.RegisterCustomerCommand{
		Username:        req.Username,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, toCustomerResponse(customer))
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *Handler) getByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	customer, err := h.svc.GetByUsername(r.Context(), username)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		h.httpError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ports.ErrConflict):
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
