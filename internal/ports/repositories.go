package ports

import (
	"context"
	"time"

	"github.com/quickeats/platform/internal/domain/customers"
	"github.com/quickeats/platform/internal/domain/deliveries"
	"github.com/quickeats/platform/internal/domain/orders"
	"github.com/quickeats/platform/internal/domain/restaurants"
)

// UnitOfWork wraps a function in a DB transaction. Each service owns its
// store exclusively; there is no cross-service transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OrderRepository persists orders and their items. Lookups return
// ErrNotFound when no row matches.
type OrderRepository interface {
	Create(ctx context.Context, o *orders.Order) error
	GetByID(ctx context.Context, id int64) (*orders.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]orders.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]orders.Order, error)
	// UpdateStatusCAS moves id from expected to next; applied=false means
	// the row was no longer in the expected status (idempotent skip).
	UpdateStatusCAS(ctx context.Context, id int64, expected, next orders.OrderStatus) (applied bool, err error)
}

// DeliveryRepository persists deliveries keyed by id and by order id.
type DeliveryRepository interface {
	Create(ctx context.Context, d *deliveries.Delivery) error
	GetByID(ctx context.Context, id int64) (*deliveries.Delivery, error)
	GetByOrderID(ctx context.Context, orderID int64) (*deliveries.Delivery, error)
	ListByStatus(ctx context.Context, status deliveries.DeliveryStatus) ([]deliveries.Delivery, error)
	// UpdateStatusCAS moves id from expected to next, stamping
	// picked_up_at / delivered_at when next warrants it.
	UpdateStatusCAS(ctx context.Context, id int64, expected, next deliveries.DeliveryStatus, now time.Time) (applied bool, err error)
}

// CustomerRepository persists customers.
type CustomerRepository interface {
	Create(ctx context.Context, c *customers.Customer) error
	GetByID(ctx context.Context, id int64) (*customers.Customer, error)
	GetByUsername(ctx context.Context, username string) (*customers.Customer, error)
	// PromoteToOwner flips role CUSTOMER -> RESTAURANT_OWNER; applied=false
	// means the customer already held the owner role (idempotent skip).
	PromoteToOwner(ctx context.Context, id int64) (applied bool, err error)
}

// RestaurantRepository persists restaurants and menu items.
type RestaurantRepository interface {
	Create(ctx context.Context, r *restaurants.Restaurant) error
	GetByID(ctx context.Context, id int64) (*restaurants.Restaurant, error)
	ListByCity(ctx context.Context, city string) ([]restaurants.Restaurant, error)
	AddMenuItem(ctx context.Context, item *restaurants.MenuItem) error
	GetMenuItem(ctx context.Context, id int64) (*restaurants.MenuItem, error)
	ListMenu(ctx context.Context, restaurantID int64) ([]restaurants.MenuItem, error)
}
