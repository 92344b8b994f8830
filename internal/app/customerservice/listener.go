package customerservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/quickeats/platform/internal/ports"
	"github.com/quickeats/platform/internal/shared/contracts"
	"github.com/quickeats/platform/internal/shared/rabbitmq"
)

// Listener consumes RestaurantCreated events and promotes the owner
// to the RESTAURANT_OWNER role. Promotion is a role CAS, so redelivery
// is a no-op.
type Listener struct {
	uow    ports.UnitOfWork
	repo   ports.CustomerRepository
	logger *zap.SugaredLogger
}

// NewListener creates the listener.
func NewListener(uow ports.UnitOfWork, repo ports.CustomerRepository, logger *zap.SugaredLogger) *Listener {
	return &Listener{uow: uow, repo: repo, logger: logger}
}

// HandleRestaurantCreated promotes the restaurant owner.
func (listener *Listener) HandleRestaurantCreated(ctx context.Context, body []byte) error {
	var event contracts.RestaurantCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode restaurant created event: %w", err)
	}

	err := listener.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := listener.repo.GetByID(txCtx, event.OwnerID); err != nil {
			return err
		}

		applied, err := listener.repo.PromoteToOwner(txCtx, event.OwnerID)
		if err != nil {
			return err
		}
		if applied {
			listener.logger.Infow("customer promoted to restaurant owner",
				"customer_id", event.OwnerID, "restaurant_id", event.RestaurantID)
		} else {
			listener.logger.Debugw("customer already a restaurant owner", "customer_id", event.OwnerID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			listener.logger.Warnw("owner not found for created restaurant",
				"customer_id", event.OwnerID, "restaurant_id", event.RestaurantID)
			return rabbitmq.Drop(err)
		}
		return rabbitmq.Retryable(err)
	}
	return nil
}
