package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/quickeats/platform/internal/ports"
)

// HTTP clients for the synchronous lookups between services. They are used
// only to fetch reference data before building an event payload or
// validating a command; consumers of events never call back here.

const requestTimeout = 5 * time.Second

type client struct {
	baseURL string
	http    *http.Client
}

func (c *client) getJSON(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ports.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: unexpected status %d from %s", ports.ErrUnavailable, resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ports.ErrUnavailable, path, err)
	}
	return nil
}

// CustomerClient resolves customers through the customer service API.
type CustomerClient struct {
	client
}

// NewCustomerClient builds a client against the customer service base URL.
func NewCustomerClient(baseURL string) *CustomerClient {
	return &CustomerClient{client{baseURL: baseURL, http: &http.Client{}}}
}

var _ ports.CustomerDirectory = (*CustomerClient)(nil)

// GetByUsername fetches a customer snapshot by username.
func (c *CustomerClient) GetByUsername(ctx context.Context, username string) (*ports.CustomerSnapshot, error) {
	var snap ports.CustomerSnapshot
	if err := c.getJSON(ctx, "/customers/username/"+username, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// RestaurantClient resolves restaurants and menu items through the
// restaurant service API.
type RestaurantClient struct {
	client
}

// NewRestaurantClient builds a client against the restaurant service base URL.
func NewRestaurantClient(baseURL string) *RestaurantClient {
	return &RestaurantClient{client{baseURL: baseURL, http: &http.Client{}}}
}

var _ ports.RestaurantDirectory = (*RestaurantClient)(nil)

// GetRestaurant fetches a restaurant snapshot by id.
func (c *RestaurantClient) GetRestaurant(ctx context.Context, id int64) (*ports.RestaurantSnapshot, error) {
	var snap ports.RestaurantSnapshot
	if err := c.getJSON(ctx, fmt.Sprintf("/restaurants/%d", id), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetMenuItem fetches a menu item snapshot by id.
func (c *RestaurantClient) GetMenuItem(ctx context.Context, id int64) (*ports.MenuItemSnapshot, error) {
	var snap ports.MenuItemSnapshot
	if err := c.getJSON(ctx, fmt.Sprintf("/menu-items/%d", id), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
