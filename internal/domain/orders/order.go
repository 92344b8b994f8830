package orders

import "time"

// OrderItem is a single line of an order. MenuItemID, ItemName, and
// UnitPrice are copied from the restaurant's menu at order time; the menu
// changing later does not touch placed orders.
type OrderItem struct {
	ID                  int64
	OrderID             int64
	MenuItemID          int64
	ItemName            string
	Quantity            int
	UnitPrice           Money
	Subtotal            Money
	SpecialInstructions *string
}

// Order is the order service's aggregate. The customer and restaurant
// fields are a denormalized snapshot captured at creation and never
// re-synced with their owning services.
type Order struct {
	ID                    int64
	CustomerID            int64
	CustomerName          string
	RestaurantID          int64
	RestaurantName        string
	RestaurantAddress     string
	DeliveryAddress       string
	SpecialInstructions   *string
	EstimatedDeliveryTime time.Time
	Items                 []OrderItem
	TotalAmount           Money
	Status                OrderStatus
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// SetTotalAmount recomputes the total from item subtotals.
func (order *Order) SetTotalAmount() {
	var sum Money
	for _, it := range order.Items {
		sum += it.Subtotal
	}
	order.TotalAmount = sum
}

// Cancellable reports whether a local cancel command is still allowed.
// After the kitchen starts preparing, cancellation only happens through a
// FAILED delivery event.
func (order *Order) Cancellable() bool {
	return order.Status == StatusPlaced || order.Status == StatusConfirmed
}
