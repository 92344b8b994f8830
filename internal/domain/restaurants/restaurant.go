package restaurants

import (
	"time"

	"github.com/quickeats/platform/internal/domain/orders"
)

// Restaurant is the restaurant service's aggregate. OwnerID references a
// customer by value; ownership checks go through the customer lookup, never
// a shared table.
type Restaurant struct {
	ID                       int64
	Name                     string
	Description              string
	CuisineType              string
	Address                  string
	City                     string
	Phone                    string
	EstimatedDeliveryMinutes int
	Active                   bool
	OwnerID                  int64
	CreatedAt                time.Time
}

// MenuItem is one dish on a restaurant's menu.
type MenuItem struct {
	ID           int64
	RestaurantID int64
	Name         string
	Description  string
	Price        orders.Money
	Category     string
	ImageURL     string
	Available    bool
}
