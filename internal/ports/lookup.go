package ports

import "context"

// Snapshots returned by synchronous lookups between services. They exist
// only to build event payloads and validate commands; nothing stores a live
// reference to another service's entity.

type CustomerSnapshot struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	DeliveryAddress string `json:"delivery_address"`
}

// FullName joins first and last name the way order records store it.
func (c *CustomerSnapshot) FullName() string {
	return c.FirstName + " " + c.LastName
}

type RestaurantSnapshot struct {
	ID                       int64  `json:"id"`
	Name                     string `json:"name"`
	Address                  string `json:"address"`
	Active                   bool   `json:"active"`
	EstimatedDeliveryMinutes int    `json:"estimated_delivery_minutes"`
}

type MenuItemSnapshot struct {
	ID           int64   `json:"id"`
	RestaurantID int64   `json:"restaurant_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Available    bool    `json:"available"`
}

// CustomerDirectory is the customer service seen from outside.
type CustomerDirectory interface {
	GetByUsername(ctx context.Context, username string) (*CustomerSnapshot, error)
}

// RestaurantDirectory is the restaurant service seen from outside.
type RestaurantDirectory interface {
	GetRestaurant(ctx context.Context, id int64) (*RestaurantSnapshot, error)
	GetMenuItem(ctx context.Context, id int64) (*MenuItemSnapshot, error)
}
