package restaurantservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/quickeats/platform/internal/domain/restaurants"
	"github.com/quickeats/platform/internal/ports"
	"github.com/quickeats/platform/internal/shared/contracts"
	"github.com/quickeats/platform/internal/shared/rabbitmq"
)

var ErrNotOwner = errors.New("customer does not own this restaurant")

// Service implements ports.RestaurantService. Creating a restaurant
// publishes RestaurantCreated; the customer service promotes the owner
// on its own.
type Service struct {
	uow       ports.UnitOfWork
	repo      ports.RestaurantRepository
	customers ports.CustomerDirectory
	publisher ports.Publisher
	logger    *zap.SugaredLogger
}

var _ ports.RestaurantService = (*Service)(nil)

// New creates the restaurant service with its dependencies.
func New(uow ports.UnitOfWork, repo ports.RestaurantRepository, customers ports.CustomerDirectory, publisher ports.Publisher, logger *zap.SugaredLogger) *Service {
	return &Service{uow: uow, repo: repo, customers: customers, publisher: publisher, logger: logger}
}

// CreateRestaurant resolves the owner through the customer service,
// stores the restaurant and announces it on the restaurant exchange.
func (service *Service) CreateRestaurant(ctx context.Context, ownerUsername string, cmd ports.CreateRestaurantCommand) (*restaurants.Restaurant, error) {
	owner, err := service.customers.GetByUsername(ctx, ownerUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner %q: %w", ownerUsername, err)
	}

	restaurant := &restaurants.Restaurant{
		Name:                     cmd.Name,
		Description:              cmd.Description,
		CuisineType:              cmd.CuisineType,
		Address:                  cmd.Address,
		City:                     cmd.City,
		Phone:                    cmd.Phone,
		EstimatedDeliveryMinutes: cmd.EstimatedDeliveryMinutes,
		OwnerID:                  owner.ID,
	}

	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.repo.Create(txCtx, restaurant)
	})
	if err != nil {
		return nil, err
	}

	service.publishRestaurantCreated(ctx, restaurant, owner.Username)

	return restaurant, nil
}

// GetByID loads one restaurant.
func (service *Service) GetByID(ctx context.Context, id int64) (*restaurants.Restaurant, error) {
	var out *restaurants.Restaurant
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

// SearchByCity lists active restaurants in a city.
func (service *Service) SearchByCity(ctx context.Context, city string) ([]restaurants.Restaurant, error) {
	var out []restaurants.Restaurant
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = service.repo.ListByCity(txCtx, city)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddMenuItem appends a menu item after verifying the caller owns the
// restaurant.
func (service *Service) AddMenuItem(ctx context.Context, restaurantID int64, ownerUsername string, cmd ports.MenuItemCommand) (*restaurants.MenuItem, error) {
	owner, err := service.customers.GetByUsername(ctx, ownerUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner %q: %w", ownerUsername, err)
	}

	item := &restaurants.MenuItem{
		RestaurantID: restaurantID,
		Name:         cmd.Name,
		Description:  cmd.Description,
		Price:        cmd.Price,
		Category:     cmd.Category,
		ImageURL:     cmd.ImageURL,
	}

	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		restaurant, err := service.repo.GetByID(txCtx, restaurantID)
		if err != nil {
			return err
		}
		if restaurant.OwnerID != owner.ID {
			return ErrNotOwner
		}
		return service.repo.AddMenuItem(txCtx, item)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Infow("menu item added",
		"menu_item_id", item.ID, "restaurant_id", restaurantID, "name", item.Name)
	return item, nil
}

// GetMenu lists the available menu of a restaurant.
func (service *Service) GetMenu(ctx context.Context, restaurantID int64) ([]restaurants.MenuItem, error) {
	var out []restaurants.MenuItem
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := service.repo.GetByID(txCtx, restaurantID); err != nil {
			return err
		}
		var err error
		out, err = service.repo.ListMenu(txCtx, restaurantID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetMenuItem loads one menu item. The order service calls this through
// the HTTP lookup endpoint.
func (service *Service) GetMenuItem(ctx context.Context, id int64) (*restaurants.MenuItem, error) {
	var out *restaurants.MenuItem
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = service.repo.GetMenuItem(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// publishRestaurantCreated announces a committed restaurant. A publish
// failure is logged and accepted as the known at-least-once gap.
func (service *Service) publishRestaurantCreated(ctx context.Context, restaurant *restaurants.Restaurant, ownerUsername string) {
	event := contracts.RestaurantCreatedEvent{
		RestaurantID:   restaurant.ID,
		RestaurantName: restaurant.Name,
		OwnerID:        restaurant.OwnerID,
		OwnerUsername:  ownerUsername,
	}

	body, err := json.Marshal(event)
	if err != nil {
		service.logger.Errorw("failed to marshal restaurant created event", "restaurant_id", restaurant.ID, "error", err)
		return
	}
	if err := service.publisher.Publish(ctx, rabbitmq.ExchangeRestaurant, rabbitmq.KeyRestaurantCreated, body); err != nil {
		service.logger.Errorw("failed to publish restaurant created event", "restaurant_id", restaurant.ID, "error", err)
		return
	}
	service.logger.Infow("restaurant created published",
		"restaurant_id", restaurant.ID, "owner_id", restaurant.OwnerID)
}
