package deliveries

import "math/rand"

// Driver is one entry of the fixed courier roster.
type Driver struct {
	Name  string
	Phone string
}

// DefaultRoster is the fixed set of couriers deliveries are assigned from.
var DefaultRoster = []Driver{
	{Name: "Carlos Martinez", Phone: "+1-555-0101"},
	{Name: "Sarah Johnson", Phone: "+1-555-0102"},
	{Name: "Mike Chen", Phone: "+1-555-0103"},
	{Name: "Priya Patel", Phone: "+1-555-0104"},
	{Name: "James Wilson", Phone: "+1-555-0105"},
}

// Picker selects an index in [0, n). Injectable so tests can pin the pick.
type Picker func(n int) int

// RandomPicker selects pseudo-randomly.
func RandomPicker(n int) int {
	return rand.Intn(n)
}

// PickDriver selects a driver from the roster using the given picker.
func PickDriver(roster []Driver, pick Picker) Driver {
	return roster[pick(len(roster))]
}
