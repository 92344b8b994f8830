package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"placed to confirmed", StatusPlaced, StatusConfirmed, true},
		{"placed skips ahead", StatusPlaced, StatusOutForDelivery, true},
		{"confirmed to preparing", StatusConfirmed, StatusPreparing, true},
		{"ready to out for delivery", StatusReadyForPickup, StatusOutForDelivery, true},
		{"out for delivery to delivered", StatusOutForDelivery, StatusDelivered, true},
		{"no regression", StatusPreparing, StatusConfirmed, false},
		{"no self transition", StatusPreparing, StatusPreparing, false},
		{"cancel from placed", StatusPlaced, StatusCancelled, true},
		{"cancel from out for delivery", StatusOutForDelivery, StatusCancelled, true},
		{"delivered absorbs everything", StatusDelivered, StatusCancelled, false},
		{"cancelled absorbs everything", StatusCancelled, StatusConfirmed, false},
		{"unknown target", StatusPlaced, OrderStatus("REFUNDED"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPlaced.IsTerminal())
	assert.False(t, StatusOutForDelivery.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	got, ok := ParseStatus("PREPARING")
	assert.True(t, ok)
	assert.Equal(t, StatusPreparing, got)

	_, ok = ParseStatus("REFUNDED")
	assert.False(t, ok)

	_, ok = ParseStatus("")
	assert.False(t, ok)
}

func TestFromDeliveryStatus(t *testing.T) {
	tests := []struct {
		delivery string
		want     OrderStatus
		ok       bool
	}{
		{"PICKED_UP", StatusOutForDelivery, true},
		{"DELIVERED", StatusDelivered, true},
		{"FAILED", StatusCancelled, true},
		{"ASSIGNED", "", false},
		{"IN_TRANSIT", "", false},
		{"bogus", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.delivery, func(t *testing.T) {
			got, ok := FromDeliveryStatus(tt.delivery)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
