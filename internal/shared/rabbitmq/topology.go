package rabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange, queue, and routing-key names for the whole platform. Routing
// keys map 1:1 to event kinds, so consumers bind literal keys, never
// wildcards.
const (
	ExchangeOrder      = "order.exchange"
	ExchangeDelivery   = "delivery.exchange"
	ExchangeRestaurant = "restaurant.exchange"

	KeyOrderPlaced           = "order.placed"
	KeyOrderCancelled        = "order.cancelled"
	KeyDeliveryStatusUpdated = "delivery.status.updated"
	KeyRestaurantCreated     = "restaurant.created"

	QueueCustomerRestaurant     = "customer.restaurant.queue"
	QueueOrderDeliveryStatus    = "order.delivery.status.queue"
	QueueDeliveryOrderPlaced    = "delivery.order.placed.queue"
	QueueDeliveryOrderCancelled = "delivery.order.cancelled.queue"
)

// Exchange declares a topic exchange.
type Exchange struct {
	Name string
}

// Queue declares a durable queue. DLX names the dead-letter exchange for
// messages rejected without requeue (malformed or poison payloads).
type Queue struct {
	Name string
	DLX  string
}

// Binding routes Exchange -> Queue for one literal routing key.
type Binding struct {
	Queue    string
	Exchange string
	Key      string
}

// Topology is the pure declaration of one service's broker footprint.
// Declaring it is idempotent: identical re-declaration is a no-op, a
// parameter conflict is a startup error.
type Topology struct {
	Exchanges []Exchange
	Queues    []Queue
	Bindings  []Binding
}

// Declare creates every exchange, queue, and binding on the channel. For a
// queue with a DLX set it also declares the dead-letter exchange and a
// companion "<queue>.dlq" bound to it.
func (t Topology) Declare(ch *amqp.Channel) error {
	for _, ex := range t.Exchanges {
		if err := ch.ExchangeDeclare(ex.Name, "topic", true, false, false, false, nil); err != nil {
			return err
		}
	}

	for _, q := range t.Queues {
		var args amqp.Table
		if q.DLX != "" {
			if err := ch.ExchangeDeclare(q.DLX, "topic", true, false, false, false, nil); err != nil {
				return err
			}
			if _, err := ch.QueueDeclare(q.Name+".dlq", true, false, false, false, nil); err != nil {
				return err
			}
			if err := ch.QueueBind(q.Name+".dlq", "#", q.DLX, false, nil); err != nil {
				return err
			}
			args = amqp.Table{"x-dead-letter-exchange": q.DLX}
		}
		if _, err := ch.QueueDeclare(q.Name, true, false, false, false, args); err != nil {
			return err
		}
	}

	for _, b := range t.Bindings {
		if err := ch.QueueBind(b.Queue, b.Key, b.Exchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}

// Per-service topologies. A service declares the exchanges it publishes to
// plus the ones it consumes from, so startup order between services does
// not matter.

// RestaurantTopology: publishes restaurant.created.
func RestaurantTopology() Topology {
	return Topology{
		Exchanges: []Exchange{{Name: ExchangeRestaurant}},
	}
}

// CustomerTopology: consumes restaurant.created.
func CustomerTopology() Topology {
	return Topology{
		Exchanges: []Exchange{{Name: ExchangeRestaurant}},
		Queues:    []Queue{{Name: QueueCustomerRestaurant, DLX: ExchangeRestaurant + ".dlx"}},
		Bindings: []Binding{
			{Queue: QueueCustomerRestaurant, Exchange: ExchangeRestaurant, Key: KeyRestaurantCreated},
		},
	}
}

// OrderTopology: publishes order.placed / order.cancelled, consumes
// delivery.status.updated.
func OrderTopology() Topology {
	return Topology{
		Exchanges: []Exchange{{Name: ExchangeOrder}, {Name: ExchangeDelivery}},
		Queues:    []Queue{{Name: QueueOrderDeliveryStatus, DLX: ExchangeDelivery + ".dlx"}},
		Bindings: []Binding{
			{Queue: QueueOrderDeliveryStatus, Exchange: ExchangeDelivery, Key: KeyDeliveryStatusUpdated},
		},
	}
}

// DeliveryTopology: publishes delivery.status.updated, consumes
// order.placed and order.cancelled on separate queues.
func DeliveryTopology() Topology {
	return Topology{
		Exchanges: []Exchange{{Name: ExchangeOrder}, {Name: ExchangeDelivery}},
		Queues: []Queue{
			{Name: QueueDeliveryOrderPlaced, DLX: ExchangeOrder + ".dlx"},
			{Name: QueueDeliveryOrderCancelled, DLX: ExchangeOrder + ".dlx"},
		},
		Bindings: []Binding{
			{Queue: QueueDeliveryOrderPlaced, Exchange: ExchangeOrder, Key: KeyOrderPlaced},
			{Queue: QueueDeliveryOrderCancelled, Exchange: ExchangeOrder, Key: KeyOrderCancelled},
		},
	}
}
