package ports

import "context"

// Publisher routes a serialized event to an exchange with a routing key.
// It is called synchronously after the local state change has committed;
// the caller never waits for consumer processing.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
}
