package restaurantservice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quickeats/platform/internal/domain/orders"
	"github.com/quickeats/platform/internal/domain/restaurants"
	"github.com/quickeats/platform/internal/ports"
)

// Handler adapts HTTP requests to the RestaurantService.
type Handler struct {
	svc    ports.RestaurantService
	logger *zap.SugaredLogger
}

// NewHandler wires the HTTP handler around the RestaurantService.
func NewHandler(svc ports.RestaurantService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the restaurant routes. The menu item route doubles as
// the lookup endpoint for the order service.
func (h *Handler) Register(r chi.Router) {
	r.Post("/restaurants", h.createRestaurant)
	r.Get("/restaurants/{id}", h.getRestaurant)
	r.Get("/restaurants", h.searchByCity)
	r.Post("/restaurants/{id}/menu-items", h.addMenuItem)
	r.Get("/restaurants/{id}/menu", h.getMenu)
	r.Get("/menu-items/{id}", h.getMenuItem)
}

type createRestaurantRequest struct {
	OwnerUsername            string `json:"owner_username"`
	Name                     string `json:"name"`
	Description              string `json:"description,omitempty"`
	CuisineType              string `json:"cuisine_type"`
	Address                  string `json:"address"`
	City                     string `json:"city"`
	Phone                    string `json:"phone,omitempty"`
	EstimatedDeliveryMinutes int    `json:"estimated_delivery_minutes"`
}

type addMenuItemRequest struct {
	OwnerUsername string  `json:"owner_username"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price"`
	Category      string  `json:"category,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
}

type restaurantResponse struct {
	ID                       int64     `json:"id"`
	Name                     string    `json:"name"`
	Description              string    `json:"description,omitempty"`
	CuisineType              string    `json:"cuisine_type"`
	Address                  string    `json:"address"`
	City                     string    `json:"city"`
	Phone                    string    `json:"phone,omitempty"`
	EstimatedDeliveryMinutes int       `json:"estimated_delivery_minutes"`
	Active                   bool      `json:"active"`
	OwnerID                  int64     `json:"owner_id"`
	CreatedAt                time.Time `json:"created_at"`
}

type menuItemResponse struct {
	ID           int64   `json:"id"`
	RestaurantID int64   `json:"restaurant_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	Category     string  `json:"category,omitempty"`
	ImageURL     string  `json:"image_url,omitempty"`
	Available    bool    `json:"available"`
}

func toRestaurantResponse(r *restaurants.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:                       r.ID,
		Name:                     r.Name,
		Description:              r.Description,
		CuisineType:              r.CuisineType,
		Address:                  r.Address,
		City:                     r.City,
		Phone:                    r.Phone,
		EstimatedDeliveryMinutes: r.EstimatedDeliveryMinutes,
		Active:                   r.Active,
		OwnerID:                  r.OwnerID,
		CreatedAt:                r.CreatedAt,
	}
}

func toMenuItemResponse(item *restaurants.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:           item.ID,
		RestaurantID: item.RestaurantID,
		Name:         item.Name,
		Description:  item.Description,
		Price:        item.Price.ToFloat2(),
		Category:     item.Category,
		ImageURL:     item.ImageURL,
		Available:    item.Available,
	}
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var req createRestaurantRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.OwnerUsername == "" || req.Name == "" || req.Address == "" || req.City == "" {
		h.httpError(w, http.StatusBadRequest, "owner_username, name, address and city are required")
		return
	}

	restaurant, err := h.svc.CreateRestaurant(r.Context(), req.OwnerUsername, ports.CreateRestaurantCommand{
		Name:                     req.Name,
		Description:              req.Description,
		CuisineType:              req.CuisineType,
		Address:                  req.Address,
		City:                     req.City,
		Phone:                    req.Phone,
		EstimatedDeliveryMinutes: req.EstimatedDeliveryMinutes,
	})
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, toRestaurantResponse(restaurant))
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}

	restaurant, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, toRestaurantResponse(restaurant))
}

func (h *Handler) searchByCity(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		h.httpError(w, http.StatusBadRequest, "city query parameter is required")
		return
	}

	list, err := h.svc.SearchByCity(r.Context(), city)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	out := make([]restaurantResponse, 0, len(list))
	for i := range list {
		out = append(out, toRestaurantResponse(&list[i]))
	}
	h.jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) addMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}

	var req addMenuItemRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.OwnerUsername == "" || req.Name == "" || req.Price <= 0 {
		h.httpError(w, http.StatusBadRequest, "owner_username, name and a positive price are required")
		return
	}

	item, err := h.svc.AddMenuItem(r.Context(), id, req.OwnerUsername, ports.MenuItemCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       orders.NewMoneyFromFloat2(req.Price),
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, toMenuItemResponse(item))
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}

	items, err := h.svc.GetMenu(r.Context(), id)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	out := make([]menuItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toMenuItemResponse(&items[i]))
	}
	h.jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.httpError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}

	item, err := h.svc.GetMenuItem(r.Context(), id)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, toMenuItemResponse(item))
}

func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		h.httpError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ports.ErrUnavailable):
		h.httpError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, ErrNotOwner):
		h.httpError(w, http.StatusForbidden, err.Error())
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
