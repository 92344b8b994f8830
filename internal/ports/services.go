package ports

import (
	"context"

	"github.com/quickeats/platform/internal/domain/customers"
	"github.com/quickeats/platform/internal/domain/deliveries"
	"github.com/quickeats/platform/internal/domain/orders"
	"github.com/quickeats/platform/internal/domain/restaurants"
)

// OrderService drives the order lifecycle: place, cancel, kitchen status
// updates, query. Placing and cancelling publish events after commit;
// kitchen updates stay local because the delivery side never reacts to
// them.
type OrderService interface {
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*orders.Order, error)
	CancelOrder(ctx context.Context, orderID int64, username, reason string) (*orders.Order, error)
	// UpdateStatus moves an order through the kitchen-owned statuses
	// (CONFIRMED, PREPARING, READY_FOR_PICKUP); the remaining statuses
	// only move via delivery events or the cancel command.
	UpdateStatus(ctx context.Context, orderID int64, next orders.OrderStatus) (*orders.Order, error)
	GetOrder(ctx context.Context, id int64) (*orders.Order, error)
	ListCustomerOrders(ctx context.Context, username string) ([]orders.Order, error)
	ListRestaurantOrders(ctx context.Context, restaurantID int64) ([]orders.Order, error)
}

type PlaceOrderCommand struct {
	CustomerUsername    string
	RestaurantID        int64
	DeliveryAddress     *string // defaults to the customer's stored address
	SpecialInstructions *string
	Items               []OrderItemInput
}

type OrderItemInput struct {
	MenuItemID          int64
	Quantity            int
	SpecialInstructions *string
}

// DeliveryService drives the delivery lifecycle through local commands.
// Status updates publish DeliveryStatusUpdated after commit.
type DeliveryService interface {
	UpdateStatus(ctx context.Context, deliveryID int64, next deliveries.DeliveryStatus) (*deliveries.Delivery, error)
	GetByID(ctx context.Context, id int64) (*deliveries.Delivery, error)
	GetByOrderID(ctx context.Context, orderID int64) (*deliveries.Delivery, error)
	ListByStatus(ctx context.Context, status deliveries.DeliveryStatus) ([]deliveries.Delivery, error)
}

// CustomerService registers and resolves customers.
type CustomerService interface {
	Register(ctx context.Context, cmd RegisterCustomerCommand) (*customers.Customer, error)
	GetByID(ctx context.Context, id int64) (*customers.Customer, error)
	GetByUsername(ctx context.Context, username string) (*customers.Customer, error)
}

type RegisterCustomerCommand struct {
	Username        string
	FirstName       string
	LastName        string
	Email           string
	DeliveryAddress string
}

// RestaurantService manages restaurants and menus. Creation publishes
// RestaurantCreated after commit.
type RestaurantService interface {
	CreateRestaurant(ctx context.Context, ownerUsername string, cmd CreateRestaurantCommand) (*restaurants.Restaurant, error)
	GetByID(ctx context.Context, id int64) (*restaurants.Restaurant, error)
	SearchByCity(ctx context.Context, city string) ([]restaurants.Restaurant, error)
	AddMenuItem(ctx context.Context, restaurantID int64, ownerUsername string, cmd MenuItemCommand) (*restaurants.MenuItem, error)
	GetMenu(ctx context.Context, restaurantID int64) ([]restaurants.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (*restaurants.MenuItem, error)
}

type CreateRestaurantCommand struct {
	Name                     string
	Description              string
	CuisineType              string
	Address                  string
	City                     string
	Phone                    string
	EstimatedDeliveryMinutes int
}

type MenuItemCommand struct {
	Name        string
	Description string
	Price       orders.Money
	Category    string
	ImageURL    string
}
