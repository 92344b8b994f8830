package deliveries

import "time"

// Delivery is the delivery service's aggregate. OrderID is a foreign
// reference by value; the addresses are copied from the triggering
// OrderPlaced event and never refreshed. At most one delivery exists per
// order.
type Delivery struct {
	ID              int64
	OrderID         int64
	Status          DeliveryStatus
	DriverName      string
	DriverPhone     string
	PickupAddress   string
	DeliveryAddress string
	AssignedAt      *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
