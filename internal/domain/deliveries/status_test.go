package deliveries

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from DeliveryStatus
		to   DeliveryStatus
		want bool
	}{
		{"pending to assigned", StatusPending, StatusAssigned, true},
		{"assigned to picked up", StatusAssigned, StatusPickedUp, true},
		{"picked up to in transit", StatusPickedUp, StatusInTransit, true},
		{"in transit to delivered", StatusInTransit, StatusDelivered, true},
		{"assigned skips ahead", StatusAssigned, StatusDelivered, true},
		{"no regression", StatusInTransit, StatusPickedUp, false},
		{"no self transition", StatusAssigned, StatusAssigned, false},
		{"fail from assigned", StatusAssigned, StatusFailed, true},
		{"fail from in transit", StatusInTransit, StatusFailed, true},
		{"delivered absorbs everything", StatusDelivered, StatusFailed, false},
		{"failed absorbs everything", StatusFailed, StatusAssigned, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestParseStatus(t *testing.T) {
	got, ok := ParseStatus("PICKED_UP")
	assert.True(t, ok)
	assert.Equal(t, StatusPickedUp, got)

	_, ok = ParseStatus("picked_up")
	assert.False(t, ok)

	_, ok = ParseStatus("")
	assert.False(t, ok)
}

func TestPickDriver(t *testing.T) {
	pinned := func(n int) int { return 2 }
	driver := PickDriver(DefaultRoster, pinned)
	assert.Equal(t, "Mike Chen", driver.Name)
	assert.Equal(t, "+1-555-0103", driver.Phone)
}

func TestRandomPickerInRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		idx := RandomPicker(len(DefaultRoster))
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, len(DefaultRoster))
	}
}
