package deliveryservice

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickeats/platform/internal/domain/deliveries"
	"github.com/quickeats/platform/internal/shared/logger"
)

func newTestRouter(repo *fakeDeliveriesRepo) chi.Router {
	svc := New(fakeUOW{}, repo, &recordingPublisher{}, logger.NewNop())
	router := chi.NewRouter()
	NewHandler(svc, logger.NewNop()).Register(router)
	return router
}

func TestUpdateStatusEndpoint(t *testing.T) {
	repo := newFakeDeliveriesRepo()
	repo.byOrderID[42] = &deliveries.Delivery{ID: 1, OrderID: 42, Status: deliveries.StatusAssigned}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/deliveries/1/status", strings.NewReader(`{"status":"PICKED_UP"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"PICKED_UP"`)
	assert.Equal(t, deliveries.StatusPickedUp, repo.byOrderID[42].Status)
}

func TestUpdateStatusEndpointRejectsRegression(t *testing.T) {
	repo := newFakeDeliveriesRepo()
	repo.byOrderID[42] = &deliveries.Delivery{ID: 1, OrderID: 42, Status: deliveries.StatusInTransit}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/deliveries/1/status", strings.NewReader(`{"status":"PICKED_UP"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateStatusEndpointUnknownStatus(t *testing.T) {
	router := newTestRouter(newFakeDeliveriesRepo())

	req := httptest.NewRequest(http.MethodPatch, "/deliveries/1/status", strings.NewReader(`{"status":"TELEPORTED"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDeliveryByOrderEndpoint(t *testing.T) {
	repo := newFakeDeliveriesRepo()
	repo.byOrderID[42] = &deliveries.Delivery{ID: 1, OrderID: 42, Status: deliveries.StatusAssigned, DriverName: "Carlos Martinez"}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/deliveries/order/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Carlos Martinez")
}

func TestGetDeliveryNotFound(t *testing.T) {
	router := newTestRouter(newFakeDeliveriesRepo())

	req := httptest.NewRequest(http.MethodGet, "/deliveries/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
