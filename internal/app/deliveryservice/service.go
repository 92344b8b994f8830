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

var ErrIllegalTransition = errors.New("illegal delivery status transition")

// Service implements ports.DeliveryService. Local status commands drive
// the delivery machine and announce each change on the delivery exchange;
// the order service reacts on its own.
type Service struct {
	uow       ports.UnitOfWork
	repo      ports.DeliveryRepository
	publisher ports.Publisher
	logger    *zap.SugaredLogger
}

var _ ports.DeliveryService = (*Service)(nil)

// New creates the delivery service with its dependencies.
func New(uow ports.UnitOfWork, repo ports.DeliveryRepository, publisher ports.Publisher, logger *zap.SugaredLogger) *Service {
	return &Service{uow: uow, repo: repo, publisher: publisher, logger: logger}
}

// UpdateStatus applies a local status command and publishes
// DeliveryStatusUpdated after the commit.
func (service *Service) UpdateStatus(ctx context.Context, deliveryID int64, next deliveries.DeliveryStatus) (*deliveries.Delivery, error) {
	now := time.Now().UTC()

	var delivery *deliveries.Delivery
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		delivery, err = service.repo.GetByID(txCtx, deliveryID)
		if err != nil {
			return err
		}

		if !deliveries.CanTransition(delivery.Status, next) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, delivery.Status, next)
		}

		applied, err := service.repo.UpdateStatusCAS(txCtx, deliveryID, delivery.Status, next, now)
		if err != nil {
			return err
		}
		if !applied {
			return fmt.Errorf("%w: status changed concurrently", ErrIllegalTransition)
		}

		delivery.Status = next
		switch next {
		case deliveries.StatusPickedUp:
			delivery.PickedUpAt = &now
		case deliveries.StatusDelivered:
			delivery.DeliveredAt = &now
		}
		delivery.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.publishStatusUpdate(ctx, delivery, now)

	return delivery, nil
}

// GetByID loads one delivery.
func (service *Service) GetByID(ctx context.Context, id int64) (*deliveries.Delivery, error) {
	var out *deliveries.Delivery
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = service.repo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByOrderID loads the delivery assigned to an order.
func (service *Service) GetByOrderID(ctx context.Context, orderID int64) (*deliveries.Delivery, error) {
	var out *deliveries.Delivery
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = service.repo.GetByOrderID(txCtx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListByStatus lists deliveries in one status.
func (service *Service) ListByStatus(ctx context.Context, status deliveries.DeliveryStatus) ([]deliveries.Delivery, error) {
	var out []deliveries.Delivery
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = service.repo.ListByStatus(txCtx, status)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// publishStatusUpdate announces a committed status change. A publish
// failure is logged and accepted as the known at-least-once gap.
func (service *Service) publishStatusUpdate(ctx context.Context, delivery *deliveries.Delivery, now time.Time) {
	event := contracts.DeliveryStatusUpdatedEvent{
		DeliveryID: delivery.ID,
		OrderID:    delivery.OrderID,
		NewStatus:  string(delivery.Status),
		UpdatedAt:  now,
	}

	body, err := json.Marshal(event)
	if err != nil {
		service.logger.Errorw("failed to marshal status update", "delivery_id", delivery.ID, "error", err)
		return
	}
	if err := service.publisher.Publish(ctx, rabbitmq.ExchangeDelivery, rabbitmq.KeyDeliveryStatusUpdated, body); err != nil {
		service.logger.Errorw("failed to publish status update", "delivery_id", delivery.ID, "error", err)
		return
	}
	service.logger.Infow("delivery status published",
		"delivery_id", delivery.ID, "order_id", delivery.OrderID, "new_status", delivery.Status)
}
