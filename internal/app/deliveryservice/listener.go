package deliveryservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quickeats/platform/internal/domain/deliveries"
	"github.com/quickeats/platform/internal/ports"
	"github.com/quickeats/platform/internal/shared/contracts"
	"github.com/quickeats/platform/internal/shared/rabbitmq"
)

// Listener consumes order lifecycle events. OrderPlaced creates the
// delivery and assigns a driver; OrderCancelled fails any delivery
// still in flight. Both handlers tolerate redelivery.
type Listener struct {
	uow    ports.UnitOfWork
	repo   ports.DeliveryRepository
	roster []deliveries.Driver
	pick   deliveries.Picker
	logger *zap.SugaredLogger
}

// NewListener creates the listener. A nil picker falls back to the
// random one.
func NewListener(uow ports.UnitOfWork, repo ports.DeliveryRepository, roster []deliveries.Driver, pick deliveries.Picker, logger *zap.SugaredLogger) *Listener {
	if pick == nil {
		pick = deliveries.RandomPicker
	}
	return &Listener{uow: uow, repo: repo, roster: roster, pick: pick, logger: logger}
}

// HandleOrderPlaced assigns a driver and creates the delivery record.
// A delivery already present for the order means the event is a
// redelivery and the message is absorbed.
func (listener *Listener) HandleOrderPlaced(ctx context.Context, body []byte) error {
	var event contracts.OrderPlacedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode order placed event: %w", err)
	}

	now := time.Now().UTC()
	driver := deliveries.PickDriver(listener.roster, listener.pick)

	err := listener.uow.WithinTx(ctx, func(txCtx context.Context) error {
		_, err := listener.repo.GetByOrderID(txCtx, event.OrderID)
		if err == nil {
			listener.logger.Debugw("delivery already exists", "order_id", event.OrderID)
			return nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return err
		}

		delivery := &deliveries.Delivery{
			OrderID:         event.OrderID,
			Status:          deliveries.StatusAssigned,
			DriverName:      driver.Name,
			DriverPhone:     driver.Phone,
			PickupAddress:   event.RestaurantAddress,
			DeliveryAddress: event.DeliveryAddress,
			AssignedAt:      &now,
		}
		if err := listener.repo.Create(txCtx, delivery); err != nil {
			if errors.Is(err, ports.ErrConflict) {
				listener.logger.Debugw("delivery created concurrently", "order_id", event.OrderID)
				return nil
			}
			return err
		}

		listener.logger.Infow("delivery assigned",
			"delivery_id", delivery.ID, "order_id", event.OrderID, "driver", driver.Name)
		return nil
	})
	if err != nil {
		return rabbitmq.Retryable(err)
	}
	return nil
}

// HandleOrderCancelled fails the delivery for a cancelled order unless
// it already reached a terminal status.
func (listener *Listener) HandleOrderCancelled(ctx context.Context, body []byte) error {
	var event contracts.OrderCancelledEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode order cancelled event: %w", err)
	}

	err := listener.uow.WithinTx(ctx, func(txCtx context.Context) error {
		delivery, err := listener.repo.GetByOrderID(txCtx, event.OrderID)
		if err != nil {
			return err
		}

		if delivery.Status.IsTerminal() {
			listener.logger.Debugw("delivery already terminal",
				"delivery_id", delivery.ID, "status", delivery.Status)
			return nil
		}

		now := time.Now().UTC()
		applied, err := listener.repo.UpdateStatusCAS(txCtx, delivery.ID, delivery.Status, deliveries.StatusFailed, now)
		if err != nil {
			return err
		}
		if applied {
			listener.logger.Infow("delivery failed after order cancellation",
				"delivery_id", delivery.ID, "order_id", event.OrderID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			listener.logger.Warnw("no delivery for cancelled order", "order_id", event.OrderID)
			return rabbitmq.Drop(err)
		}
		return rabbitmq.Retryable(err)
	}
	return nil
}
