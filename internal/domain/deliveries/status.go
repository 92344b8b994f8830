package deliveries

// DeliveryStatus is the current position of a delivery in its lifecycle.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "PENDING"
	StatusAssigned  DeliveryStatus = "ASSIGNED"
	StatusPickedUp  DeliveryStatus = "PICKED_UP"
	StatusInTransit DeliveryStatus = "IN_TRANSIT"
	StatusDelivered DeliveryStatus = "DELIVERED"
	StatusFailed    DeliveryStatus = "FAILED"
)

var rank = map[DeliveryStatus]int{
	StatusPending:   0,
	StatusAssigned:  1,
	StatusPickedUp:  2,
	StatusInTransit: 3,
	StatusDelivered: 4,
}

// IsTerminal reports whether the delivery absorbs all further events.
func (s DeliveryStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusFailed
}

// CanTransition reports whether from -> to is a legal move: strictly
// forward along PENDING..DELIVERED, or to FAILED from any non-terminal
// status.
func CanTransition(from, to DeliveryStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StatusFailed {
		return true
	}
	rf, okf := rank[from]
	rt, okt := rank[to]
	return okf && okt && rt > rf
}

// ParseStatus validates a wire-format status name.
func ParseStatus(s string) (DeliveryStatus, bool) {
	switch DeliveryStatus(s) {
	case StatusPending, StatusAssigned, StatusPickedUp, StatusInTransit, StatusDelivered, StatusFailed:
		return DeliveryStatus(s), true
	default:
		return "", false
	}
}
