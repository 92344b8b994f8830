package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerAllChecksPass(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	h := Handler(Checker{Name: "postgres", Check: ok}, Checker{Name: "rabbitmq", Check: ok})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandlerNamesFailingCheck(t *testing.T) {
	h := Handler(
		Checker{Name: "postgres", Check: func(ctx context.Context) error { return nil }},
		Checker{Name: "rabbitmq", Check: func(ctx context.Context) error { return errors.New("broker down") }},
	)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"check":"rabbitmq"`)
	assert.Contains(t, rec.Body.String(), "broker down")
}

func TestHandlerNoChecks(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
