package orderservice

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickeats/platform/internal/domain/orders"
	"github.com/quickeats/platform/internal/shared/logger"
)

func newTestRouter(repo *fakeOrdersRepo) chi.Router {
	svc := newTestService(repo, &recordingPublisher{})
	router := chi.NewRouter()
	NewHandler(svc, logger.NewNop()).Register(router)
	return router
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	repo := newFakeOrdersRepo()
	repo.byID[5] = &orders.Order{ID: 5, Status: orders.StatusPlaced}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/orders/5/status", strings.NewReader(`{"status":"CONFIRMED"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"CONFIRMED"`)
	assert.Equal(t, orders.StatusConfirmed, repo.byID[5].Status)
}

func TestUpdateOrderStatusEndpointRejectsDeliveryOwned(t *testing.T) {
	repo := newFakeOrdersRepo()
	repo.byID[5] = &orders.Order{ID: 5, Status: orders.StatusReadyForPickup}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/orders/5/status", strings.NewReader(`{"status":"DELIVERED"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, orders.StatusReadyForPickup, repo.byID[5].Status)
}

func TestUpdateOrderStatusEndpointUnknownStatus(t *testing.T) {
	router := newTestRouter(newFakeOrdersRepo())

	req := httptest.NewRequest(http.MethodPatch, "/orders/5/status", strings.NewReader(`{"status":"REFUNDED"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrdersByRestaurantEndpoint(t *testing.T) {
	repo := newFakeOrdersRepo()
	repo.byID[1] = &orders.Order{ID: 1, RestaurantID: 3, RestaurantName: "Thai Garden", Status: orders.StatusPlaced}
	repo.byID[2] = &orders.Order{ID: 2, RestaurantID: 9, RestaurantName: "Other Place", Status: orders.StatusPlaced}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/orders?restaurant_id=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thai Garden")
	assert.NotContains(t, rec.Body.String(), "Other Place")
}

func TestListOrdersEndpointRequiresFilter(t *testing.T) {
	router := newTestRouter(newFakeOrdersRepo())

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
