package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetTotalAmount(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{Quantity: 2, UnitPrice: 1250, Subtotal: 2500},
			{Quantity: 1, UnitPrice: 999, Subtotal: 999},
		},
	}
	order.SetTotalAmount()
	assert.Equal(t, Money(3499), order.TotalAmount)
	assert.Equal(t, 34.99, order.TotalAmount.ToFloat2())
}

func TestCancellable(t *testing.T) {
	for status, want := range map[OrderStatus]bool{
		StatusPlaced:         true,
		StatusConfirmed:      true,
		StatusPreparing:      false,
		StatusReadyForPickup: false,
		StatusOutForDelivery: false,
		StatusDelivered:      false,
		StatusCancelled:      false,
	} {
		order := &Order{Status: status}
		assert.Equal(t, want, order.Cancellable(), "status %s", status)
	}
}

func TestNewMoneyFromFloat2(t *testing.T) {
	assert.Equal(t, Money(1005), NewMoneyFromFloat2(10.05))
	assert.Equal(t, Money(1), NewMoneyFromFloat2(0.0099))
	assert.Equal(t, Money(0), NewMoneyFromFloat2(0))
}
