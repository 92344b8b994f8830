package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// HandlerFunc processes one message body. The returned error drives the
// ack policy: nil acks, Retryable requeues, Drop acks-and-warns, anything
// else dead-letters the message.
type HandlerFunc func(ctx context.Context, body []byte) error

// Dispatcher consumes one queue with a small bounded worker pool. Workers
// share no mutable state; parallelism is safe only because every handler is
// idempotent and operates on keys.
type Dispatcher struct {
	client  *Client
	queue   string
	workers int
	handler HandlerFunc
	logger  *zap.SugaredLogger
}

// NewDispatcher builds a dispatcher for (queue, handler). workers bounds
// in-flight messages and doubles as the channel prefetch.
func NewDispatcher(client *Client, queue string, workers int, handler HandlerFunc, log *zap.SugaredLogger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		client:  client,
		queue:   queue,
		workers: workers,
		handler: handler,
		logger:  log.With("queue", queue),
	}
}

// Run blocks until ctx is cancelled, continuously (re)subscribing to the
// queue with exponential backoff between attempts.
func (d *Dispatcher) Run(ctx context.Context) {
	const (
		retryBaseDelay = time.Second
		retryMaxDelay  = 30 * time.Second
	)

	backoff := retryBaseDelay
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ch, err := d.client.NewConsumerChannel(d.workers)
		if err != nil {
			d.logger.Errorw("failed to open consumer channel", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff, retryMaxDelay)
			continue
		}

		consumerTag := fmt.Sprintf("%s.consumer", d.queue)
		deliveries, err := ch.Consume(d.queue, consumerTag, false, false, false, false, nil)
		if err != nil {
			_ = ch.Close()
			d.logger.Errorw("failed to start consuming", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff, retryMaxDelay)
			continue
		}

		// reset backoff after a successful subscribe
		backoff = retryBaseDelay
		d.logger.Infow("consuming", "workers", d.workers)

		// worker pool drains the shared deliveries channel; when the
		// channel closes (connection loss or cancel) workers exit and we
		// resubscribe
		var wg sync.WaitGroup
		wg.Add(d.workers)
		for i := 0; i < d.workers; i++ {
			go func() {
				defer wg.Done()
				for delivery := range deliveries {
					d.dispatch(ctx, delivery)
				}
			}()
		}

		select {
		case <-ctx.Done():
			// stop consuming; broker requeues any unacked in-flight
			_ = ch.Cancel(consumerTag, false)
			_ = ch.Close()
			wg.Wait()
			return
		case <-chanClosed(ch):
		}

		wg.Wait()
		_ = ch.Close()

		if !sleepWithContext(ctx, backoff) {
			return
		}
		backoff = nextBackoff(backoff, retryMaxDelay)
	}
}

// dispatch runs the handler for one delivery and applies the ack policy.
func (d *Dispatcher) dispatch(ctx context.Context, delivery amqp.Delivery) {
	err := d.handler(ctx, delivery.Body)
	switch {
	case err == nil:
		if ackErr := delivery.Ack(false); ackErr != nil {
			d.logger.Errorw("failed to ack message", "error", ackErr)
		}
	case IsDrop(err):
		// target will never appear; redelivery cannot help
		d.logger.Warnw("message dropped", "reason", err.Error())
		_ = delivery.Ack(false)
	case IsRetryable(err):
		d.logger.Errorw("processing failed, requeueing", "error", err)
		_ = delivery.Nack(false, true)
	default:
		d.logger.Errorw("processing failed, dead-lettering", "error", err)
		_ = delivery.Nack(false, false)
	}
}

// chanClosed adapts NotifyClose to a plain signal channel.
func chanClosed(ch *amqp.Channel) <-chan struct{} {
	done := make(chan struct{})
	closed := ch.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		<-closed
		close(done)
	}()
	return done
}

// sleepWithContext sleeps for d or returns false early if ctx is done.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// nextBackoff doubles the backoff capped at max.
func nextBackoff(curr, max time.Duration) time.Duration {
	n := curr * 2
	if n > max {
		return max
	}
	return n
}
