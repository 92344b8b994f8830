package orders

// OrderStatus is the current position of an order in its lifecycle.
type OrderStatus string

const (
	StatusPlaced         OrderStatus = "PLACED"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

// rank orders the forward progression; CANCELLED sits outside the line and
// is reachable from any non-terminal status.
var rank = map[OrderStatus]int{
	StatusPlaced:         0,
	StatusConfirmed:      1,
	StatusPreparing:      2,
	StatusReadyForPickup: 3,
	StatusOutForDelivery: 4,
	StatusDelivered:      5,
}

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether from -> to is a legal move: strictly
// forward along the line, or to CANCELLED from any non-terminal status.
func CanTransition(from, to OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	rf, okf := rank[from]
	rt, okt := rank[to]
	return okf && okt && rt > rf
}

// ParseStatus validates a wire-format status name.
func ParseStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPlaced, StatusConfirmed, StatusPreparing, StatusReadyForPickup,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return OrderStatus(s), true
	default:
		return "", false
	}
}

// FromDeliveryStatus maps a delivery-side status name to the order status
// it implies. ok=false means the event is a no-op for the order (ASSIGNED
// and any unknown value are ignored, never an error).
func FromDeliveryStatus(deliveryStatus string) (OrderStatus, bool) {
	switch deliveryStatus {
	case "PICKED_UP":
		return StatusOutForDelivery, true
	case "DELIVERED":
		return StatusDelivered, true
	case "FAILED":
		return StatusCancelled, true
	default:
		return "", false
	}
}
