package orderservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quickeats/platform/internal/domain/orders"
	"github.com/quickeats/platform/internal/ports"
	"github.com/quickeats/platform/internal/shared/contracts"
	"github.com/quickeats/platform/internal/shared/rabbitmq"
)

var (
	ErrRestaurantClosed  = errors.New("restaurant is currently not accepting orders")
	ErrNotCancellable    = errors.New("order can no longer be cancelled")
	ErrNotOwner          = errors.New("you can only cancel your own orders")
	ErrIllegalTransition = errors.New("illegal order status transition")
)

// kitchenStatuses are the statuses a restaurant moves an order through by
// hand. OUT_FOR_DELIVERY, DELIVERED, and CANCELLED only arrive through
// delivery events or the cancel command.
var kitchenStatuses = map[orders.OrderStatus]bool{
	orders.StatusConfirmed:      true,
	orders.StatusPreparing:      true,
	orders.StatusReadyForPickup: true,
}

// Service implements ports.OrderService.
type Service struct {
	uow         ports.UnitOfWork
	repo        ports.OrderRepository
	customers   ports.CustomerDirectory
	restaurants ports.RestaurantDirectory
	publisher   ports.Publisher
	logger      *zap.SugaredLogger
}

var _ ports.OrderService = (*Service)(nil)

// New creates the order service with its dependencies.
func New(
	uow ports.UnitOfWork,
	repo ports.OrderRepository,
	customers ports.CustomerDirectory,
	restaurants ports.RestaurantDirectory,
	publisher ports.Publisher,
	logger *zap.SugaredLogger,
) *Service {
	return &Service{
		uow:         uow,
		repo:        repo,
		customers:   customers,
		restaurants: restaurants,
		publisher:   publisher,
		logger:      logger,
	}
}

// PlaceOrder resolves the customer and restaurant snapshots, validates the
// items, persists the order, and publishes OrderPlaced after the commit.
// The event carries everything the delivery service needs; nobody calls
// back for more.
func (service *Service) PlaceOrder(ctx context.Context, cmd ports.PlaceOrderCommand) (*orders.Order, error) {
	if len(cmd.Items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}

	// reference data needed to build the snapshot; these lookups happen
	// before the transaction, never inside a consumer
	customer, err := service.customers.GetByUsername(ctx, cmd.CustomerUsername)
	if err != nil {
		return nil, fmt.Errorf("resolve customer %q: %w", cmd.CustomerUsername, err)
	}
	restaurant, err := service.restaurants.GetRestaurant(ctx, cmd.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("resolve restaurant %d: %w", cmd.RestaurantID, err)
	}
	if !restaurant.Active {
		return nil, ErrRestaurantClosed
	}

	now := time.Now().UTC()
	order := &orders.Order{
		CustomerID:            customer.ID,
		CustomerName:          customer.FullName(),
		RestaurantID:          restaurant.ID,
		RestaurantName:        restaurant.Name,
		RestaurantAddress:     restaurant.Address,
		DeliveryAddress:       customer.DeliveryAddress,
		SpecialInstructions:   cmd.SpecialInstructions,
		EstimatedDeliveryTime: now.Add(time.Duration(restaurant.EstimatedDeliveryMinutes) * time.Minute),
	}
	if cmd.DeliveryAddress != nil && *cmd.DeliveryAddress != "" {
		order.DeliveryAddress = *cmd.DeliveryAddress
	}

	for _, in := range cmd.Items {
		if in.Quantity < 1 {
			return nil, fmt.Errorf("menu item %d: quantity must be positive", in.MenuItemID)
		}
		menuItem, err := service.restaurants.GetMenuItem(ctx, in.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("resolve menu item %d: %w", in.MenuItemID, err)
		}
		if !menuItem.Available {
			return nil, fmt.Errorf("menu item %q is not available", menuItem.Name)
		}
		if menuItem.RestaurantID != restaurant.ID {
			return nil, fmt.Errorf("menu item %q does not belong to restaurant %q", menuItem.Name, restaurant.Name)
		}

		unitPrice := orders.NewMoneyFromFloat2(menuItem.Price)
		order.Items = append(order.Items, orders.OrderItem{
			MenuItemID:          menuItem.ID,
			ItemName:            menuItem.Name,
			Quantity:            in.Quantity,
			UnitPrice:           unitPrice,
			Subtotal:            unitPrice * orders.Money(in.Quantity),
			SpecialInstructions: in.SpecialInstructions,
		})
	}
	order.SetTotalAmount()

	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.repo.Create(txCtx, order)
	})
	if err != nil {
		return nil, err
	}

	service.publishOrderPlaced(ctx, order)

	return order, nil
}

// CancelOrder cancels an order still in a cancellable status and publishes
// OrderCancelled after the commit.
func (service *Service) CancelOrder(ctx context.Context, orderID int64, username, reason string) (*orders.Order, error) {
	customer, err := service.customers.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("resolve customer %q: %w", username, err)
	}

	var order *orders.Order
	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		order, err = service.repo.GetByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.CustomerID != customer.ID {
			return ErrNotOwner
		}
		if !order.Cancellable() {
			return fmt.Errorf("%w: status %s", ErrNotCancellable, order.Status)
		}

		applied, err := service.repo.UpdateStatusCAS(txCtx, orderID, order.Status, orders.StatusCancelled)
		if err != nil {
			return err
		}
		if !applied {
			return fmt.Errorf("%w: status changed concurrently", ErrNotCancellable)
		}
		order.Status = orders.StatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.publish(ctx, rabbitmq.ExchangeOrder, rabbitmq.KeyOrderCancelled, contracts.OrderCancelledEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Reason:     reason,
	})

	return order, nil
}

// UpdateStatus applies a kitchen status command: CONFIRMED, PREPARING, or
// READY_FOR_PICKUP, guarded by the forward-only machine. No event is
// published; the delivery side does not react to kitchen progress.
func (service *Service) UpdateStatus(ctx context.Context, orderID int64, next orders.OrderStatus) (*orders.Order, error) {
	if !kitchenStatuses[next] {
		return nil, fmt.Errorf("%w: %s is not a kitchen status", ErrIllegalTransition, next)
	}

	var order *orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = service.repo.GetByID(txCtx, orderID)
		if err != nil {
			return err
		}

		if !orders.CanTransition(order.Status, next) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.Status, next)
		}

		applied, err := service.repo.UpdateStatusCAS(txCtx, orderID, order.Status, next)
		if err != nil {
			return err
		}
		if !applied {
			return fmt.Errorf("%w: status changed concurrently", ErrIllegalTransition)
		}
		order.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Infow("order status updated", "order_id", orderID, "new_status", next)
	return order, nil
}

// GetOrder loads one order with its items.
func (service *Service) GetOrder(ctx context.Context, id int64) (*orders.Order, error) {
	var order *orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = service.repo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListCustomerOrders returns a customer's orders, newest first.
func (service *Service) ListCustomerOrders(ctx context.Context, username string) ([]orders.Order, error) {
	customer, err := service.customers.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("resolve customer %q: %w", username, err)
	}

	var out []orders.Order
	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		out, err = service.repo.ListByCustomer(txCtx, customer.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListRestaurantOrders returns a restaurant's orders, newest first.
func (service *Service) ListRestaurantOrders(ctx context.Context, restaurantID int64) ([]orders.Order, error) {
	var out []orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = service.repo.ListByRestaurant(txCtx, restaurantID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (service *Service) publishOrderPlaced(ctx context.Context, order *orders.Order) {
	service.publish(ctx, rabbitmq.ExchangeOrder, rabbitmq.KeyOrderPlaced, contracts.OrderPlacedEvent{
		OrderID:               order.ID,
		CustomerID:            order.CustomerID,
		CustomerName:          order.CustomerName,
		RestaurantID:          order.RestaurantID,
		RestaurantName:        order.RestaurantName,
		RestaurantAddress:     order.RestaurantAddress,
		DeliveryAddress:       order.DeliveryAddress,
		EstimatedDeliveryTime: order.EstimatedDeliveryTime,
	})
}

// publish serializes and sends one event. The local commit already
// succeeded, so a publish failure is logged and accepted as the known
// at-least-once gap rather than rolled back.
func (service *Service) publish(ctx context.Context, exchange, key string, event any) {
	body, err := json.Marshal(event)
	if err != nil {
		service.logger.Errorw("failed to marshal event", "routing_key", key, "error", err)
		return
	}
	if err := service.publisher.Publish(ctx, exchange, key, body); err != nil {
		service.logger.Errorw("failed to publish event", "routing_key", key, "error", err)
		return
	}
	service.logger.Infow("event published", "exchange", exchange, "routing_key", key)
}
