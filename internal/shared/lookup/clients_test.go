package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickeats/platform/internal/ports"
)

func TestCustomerClientGetByUsername(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers/username/john_doe", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"username":"john_doe","first_name":"John","last_name":"Doe","delivery_address":"42 Elm St"}`))
	}))
	defer srv.Close()

	snap, err := NewCustomerClient(srv.URL).GetByUsername(context.Background(), "john_doe")
	require.NoError(t, err)
	assert.Equal(t, int64(7), snap.ID)
	assert.Equal(t, "John", snap.FirstName)
	assert.Equal(t, "42 Elm St", snap.DeliveryAddress)
}

func TestCustomerClientNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewCustomerClient(srv.URL).GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRestaurantClientUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewRestaurantClient(srv.URL).GetRestaurant(context.Background(), 1)
	assert.ErrorIs(t, err, ports.ErrUnavailable)
}

func TestRestaurantClientGetMenuItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/menu-items/12", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":12,"restaurant_id":3,"name":"Pad Thai","price":11.5,"available":true}`))
	}))
	defer srv.Close()

	item, err := NewRestaurantClient(srv.URL).GetMenuItem(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, int64(3), item.RestaurantID)
	assert.Equal(t, 11.5, item.Price)
	assert.True(t, item.Available)
}

func TestClientUnreachableHost(t *testing.T) {
	_, err := NewCustomerClient("http://127.0.0.1:1").GetByUsername(context.Background(), "john")
	assert.ErrorIs(t, err, ports.ErrUnavailable)
}
