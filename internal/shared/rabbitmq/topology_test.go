package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryTopologyShape(t *testing.T) {
	topo := DeliveryTopology()

	require.Len(t, topo.Queues, 2)
	require.Len(t, topo.Bindings, 2)

	keys := map[string]string{}
	for _, b := range topo.Bindings {
		keys[b.Queue] = b.Key
	}
	assert.Equal(t, KeyOrderPlaced, keys[QueueDeliveryOrderPlaced])
	assert.Equal(t, KeyOrderCancelled, keys[QueueDeliveryOrderCancelled])

	for _, q := range topo.Queues {
		assert.Equal(t, ExchangeOrder+".dlx", q.DLX)
	}
}

func TestEachConsumerQueueBindsOneLiteralKey(t *testing.T) {
	for _, topo := range []Topology{
		CustomerTopology(), OrderTopology(), DeliveryTopology(),
	} {
		seen := map[string]int{}
		for _, b := range topo.Bindings {
			seen[b.Queue]++
			assert.NotContains(t, b.Key, "*")
			assert.NotContains(t, b.Key, "#")
		}
		for queue, n := range seen {
			assert.Equal(t, 1, n, "queue %s", queue)
		}
	}
}

func TestRestaurantTopologyDeclaresOnlyItsExchange(t *testing.T) {
	topo := RestaurantTopology()
	require.Len(t, topo.Exchanges, 1)
	assert.Equal(t, ExchangeRestaurant, topo.Exchanges[0].Name)
	assert.Empty(t, topo.Queues)
}
