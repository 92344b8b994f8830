package customerservice

import (
	"context"

	"go.uber.org/zap"

	"github.com/quickeats/platform/internal/domain/customers"
	"github.com/quickeats/platform/internal/ports"
)

// Service implements ports.CustomerService.
type Service struct {
	uow    ports.UnitOfWork
	repo   ports.CustomerRepository
	logger *zap.SugaredLogger
}

var _ ports.CustomerService = (*Service)(nil)

// New creates the customer service.
func New(uow ports.UnitOfWork, repo ports.CustomerRepository, logger *zap.SugaredLogger) *Service {
	return &Service{uow: uow, repo: repo, logger: logger}
}

// Register creates a customer with the CUSTOMER role. A taken username
// surfaces as ports.ErrConflict.
func (service *Service) Register(ctx context.Context, cmd ports.RegisterCustomerCommand) (*customers.Customer, error) {
	customer := &customers.Customer{
		Username:        cmd.Username,
		FirstName:       cmd.FirstName,
		LastName:        cmd.LastName,
		Email:           cmd.Email,
		DeliveryAddress: cmd.DeliveryAddress,
	}

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.repo.Create(txCtx, customer)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Infow("customer registered", "customer_id", customer.ID, "username", customer.Username)
	return customer, nil
}

// GetByID loads one customer.
func (service *Service) GetByID(ctx context.Context, id int64) (*customers.Customer, error) {
	var out *customers.Customer
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

// GetByUsername resolves a customer by username. The order and
// restaurant services call this through the HTTP lookup endpoint.
func (service *Service) GetByUsername(ctx context.Context, username string) (*customers.Customer, error) {
	var out *customers.Customer
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = service.repo.GetByUsername(txCtx, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
