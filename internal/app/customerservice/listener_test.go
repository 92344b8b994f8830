package customerservice

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickeats/platform/internal/domain/customers"
	"github.com/quickeats/platform/internal/ports"
	"github.com/quickeats/platform/internal/shared/contracts"
	"github.com/quickeats/platform/internal/shared/logger"
	"github.com/quickeats/platform/internal/shared/rabbitmq"
)

type fakeUOW struct{}

func (fakeUOW) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCustomersRepo struct {
	byID map[int64]*customers.Customer
	err  error
}

func (r *fakeCustomersRepo) Create(ctx context.Context, c *customers.Customer) error {
	panic("not used")
}

func (r *fakeCustomersRepo) GetByID(ctx context.Context, id int64) (*customers.Customer, error) {
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.byID[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return c, nil
}

func (r *fakeCustomersRepo) GetByUsername(ctx context.Context, username string) (*customers.Customer, error) {
	panic("not used")
}

func (r *fakeCustomersRepo) PromoteToOwner(ctx context.Context, id int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	c, ok := r.byID[id]
	if !ok {
		return false, ports.ErrNotFound
	}
	if c.Role == customers.RoleRestaurantOwner {
		return false, nil
	}
	c.Role = customers.RoleRestaurantOwner
	return true, nil
}

func restaurantCreatedBody(t *testing.T, ownerID int64) []byte {
	t.Helper()
	body, err := json.Marshal(contracts.RestaurantCreatedEvent{
		RestaurantID:   10,
		RestaurantName: "Thai Garden",
		OwnerID:        ownerID,
		OwnerUsername:  "jane_smith",
	})
	require.NoError(t, err)
	return body
}

func TestHandleRestaurantCreatedPromotesOnce(t *testing.T) {
	repo := &fakeCustomersRepo{byID: map[int64]*customers.Customer{
		5: {ID: 5, Username: "jane_smith", Role: customers.RoleCustomer},
	}}
	listener := NewListener(fakeUOW{}, repo, logger.NewNop())
	body := restaurantCreatedBody(t, 5)

	require.NoError(t, listener.HandleRestaurantCreated(context.Background(), body))
	assert.Equal(t, customers.RoleRestaurantOwner, repo.byID[5].Role)

	// redelivery of the same event changes nothing and still acks
	require.NoError(t, listener.HandleRestaurantCreated(context.Background(), body))
	assert.Equal(t, customers.RoleRestaurantOwner, repo.byID[5].Role)
}

func TestHandleRestaurantCreatedUnknownOwnerIsDropped(t *testing.T) {
	repo := &fakeCustomersRepo{byID: map[int64]*customers.Customer{}}
	listener := NewListener(fakeUOW{}, repo, logger.NewNop())

	err := listener.HandleRestaurantCreated(context.Background(), restaurantCreatedBody(t, 99))
	require.Error(t, err)
	assert.True(t, rabbitmq.IsDrop(err))
	assert.False(t, rabbitmq.IsRetryable(err))
}

func TestHandleRestaurantCreatedRepoFailureIsRetryable(t *testing.T) {
	repo := &fakeCustomersRepo{err: errors.New("connection reset")}
	listener := NewListener(fakeUOW{}, repo, logger.NewNop())

	err := listener.HandleRestaurantCreated(context.Background(), restaurantCreatedBody(t, 5))
	require.Error(t, err)
	assert.True(t, rabbitmq.IsRetryable(err))
}

func TestHandleRestaurantCreatedMalformedBody(t *testing.T) {
	listener := NewListener(fakeUOW{}, &fakeCustomersRepo{}, logger.NewNop())

	err := listener.HandleRestaurantCreated(context.Background(), []byte("{not json"))
	require.Error(t, err)
	assert.False(t, rabbitmq.IsRetryable(err))
	assert.False(t, rabbitmq.IsDrop(err))
}
