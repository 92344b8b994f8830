package customers

import "time"

// Role is the customer's platform role.
type Role string

const (
	RoleCustomer        Role = "CUSTOMER"
	RoleRestaurantOwner Role = "RESTAURANT_OWNER"
)

// Customer is the customer service's aggregate.
type Customer struct {
	ID              int64
	Username        string
	FirstName       string
	LastName        string
	Email           string
	DeliveryAddress string
	Role            Role
	CreatedAt       time.Time
}
