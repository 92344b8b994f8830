package orderservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/quickeats/platform/internal/domain/orders"
	"github.com/quickeats/platform/internal/ports"
	"github.com/quickeats/platform/internal/shared/contracts"
	"github.com/quickeats/platform/internal/shared/rabbitmq"
)

// Listener consumes delivery.status.updated and moves the order machine
// forward. It is the only way an order reaches OUT_FOR_DELIVERY or
// DELIVERED; the order service never polls the delivery service.
type Listener struct {
	uow    ports.UnitOfWork
	repo   ports.OrderRepository
	logger *zap.SugaredLogger
}

// NewListener creates the delivery-status listener.
func NewListener(uow ports.UnitOfWork, repo ports.OrderRepository, logger *zap.SugaredLogger) *Listener {
	return &Listener{uow: uow, repo: repo, logger: logger}
}

// HandleDeliveryStatusUpdated applies one DeliveryStatusUpdated event.
// Safe under redelivery: a terminal or already-advanced order absorbs the
// event, and an unknown order id is dropped silently (a late OrderPlaced
// retry can legally lose the race against its own status updates).
func (l *Listener) HandleDeliveryStatusUpdated(ctx context.Context, body []byte) error {
	var event contracts.DeliveryStatusUpdatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode DeliveryStatusUpdated: %w", err)
	}

	next, ok := orders.FromDeliveryStatus(event.NewStatus)
	if !ok {
		// ASSIGNED and unknown values are no-ops for the order
		l.logger.Debugw("delivery status ignored",
			"order_id", event.OrderID, "new_status", event.NewStatus)
		return nil
	}

	err := l.uow.WithinTx(ctx, func(txCtx context.Context) error {
		order, err := l.repo.GetByID(txCtx, event.OrderID)
		if err != nil {
			return err
		}

		if order.Status.IsTerminal() || !orders.CanTransition(order.Status, next) {
			// absorbed: forward-only progression, never regress
			l.logger.Debugw("order absorbs delivery status event",
				"order_id", order.ID, "status", order.Status, "incoming", next)
			return nil
		}

		applied, err := l.repo.UpdateStatusCAS(txCtx, order.ID, order.Status, next)
		if err != nil {
			return err
		}
		if !applied {
			// another worker got there first; same outcome
			return nil
		}

		l.logger.Infow("order status updated from delivery event",
			"order_id", order.ID, "from", order.Status, "to", next,
			"delivery_id", event.DeliveryID)
		return nil
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ports.ErrNotFound):
		return rabbitmq.Drop(fmt.Errorf("order %d not found for delivery status event", event.OrderID))
	default:
		return rabbitmq.Retryable(err)
	}
}
