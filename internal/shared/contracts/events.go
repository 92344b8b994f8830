package contracts

import "time"

// Events are flat, versionless snapshots of cross-service data frozen at
// publication time. Consumers keep their own copy of these definitions in
// spirit; nothing here is a shared compiled contract, only a JSON shape.
// An event is never mutated after construction.

// OrderPlacedEvent is published to "order.exchange" with key "order.placed"
// after the order row and its items are committed. It carries everything the
// delivery service needs, so consuming it requires no callbacks.
type OrderPlacedEvent struct {
	OrderID               int64     `json:"order_id"`
	CustomerID            int64     `json:"customer_id"`
	CustomerName          string    `json:"customer_name"`
	RestaurantID          int64     `json:"restaurant_id"`
	RestaurantName        string    `json:"restaurant_name"`
	RestaurantAddress     string    `json:"restaurant_address"` // pickup address for the driver
	DeliveryAddress       string    `json:"delivery_address"`   // where to deliver
	EstimatedDeliveryTime time.Time `json:"estimated_delivery_time"`
}

// OrderCancelledEvent is published to "order.exchange" with key "order.cancelled".
type OrderCancelledEvent struct {
	OrderID    int64  `json:"order_id"`
	CustomerID int64  `json:"customer_id"`
	Reason     string `json:"reason,omitempty"`
}

// DeliveryStatusUpdatedEvent is published to "delivery.exchange" with key
// "delivery.status.updated" whenever a delivery changes status locally.
type DeliveryStatusUpdatedEvent struct {
	DeliveryID int64     `json:"delivery_id"`
	OrderID    int64     `json:"order_id"`
	NewStatus  string    `json:"new_status"` // ASSIGNED, PICKED_UP, DELIVERED, FAILED
	UpdatedAt  time.Time `json:"updated_at"`
}

// RestaurantCreatedEvent is published to "restaurant.exchange" with key
// "restaurant.created"; the customer service promotes the owner on its own.
type RestaurantCreatedEvent struct {
	RestaurantID   int64  `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	OwnerID        int64  `json:"owner_id"`
	OwnerUsername  string `json:"owner_username"`
}
