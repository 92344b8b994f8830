package restaurantservice

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickeats/platform/internal/domain/orders"
	"github.com/quickeats/platform/internal/domain/restaurants"
	"github.com/quickeats/platform/internal/ports"
	"github.com/quickeats/platform/internal/shared/contracts"
	"github.com/quickeats/platform/internal/shared/logger"
	"github.com/quickeats/platform/internal/shared/rabbitmq"
)

type fakeUOW struct{}

func (fakeUOW) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordedPublish struct {
	Exchange string
	Key      string
	Body     []byte
}

type recordingPublisher struct {
	published []recordedPublish
}

func (p *recordingPublisher) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	p.published = append(p.published, recordedPublish{Exchange: exchange, Key: routingKey, Body: body})
	return nil
}

type fakeCustomerDirectory struct {
	byUsername map[string]*ports.CustomerSnapshot
}

func (d *fakeCustomerDirectory) GetByUsername(ctx context.Context, username string) (*ports.CustomerSnapshot, error) {
	c, ok := d.byUsername[username]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return c, nil
}

type fakeRestaurantsRepo struct {
	byID       map[int64]*restaurants.Restaurant
	menu       map[int64]*restaurants.MenuItem
	nextID     int64
	nextItemID int64
}

func newFakeRestaurantsRepo() *fakeRestaurantsRepo {
	return &fakeRestaurantsRepo{
		byID:       map[int64]*restaurants.Restaurant{},
		menu:       map[int64]*restaurants.MenuItem{},
		nextID:     1,
		nextItemID: 1,
	}
}

func (r *fakeRestaurantsRepo) Create(ctx context.Context, rest *restaurants.Restaurant) error {
	rest.ID = r.nextID
	rest.Active = true
	r.nextID++
	r.byID[rest.ID] = rest
	return nil
}

func (r *fakeRestaurantsRepo) GetByID(ctx context.Context, id int64) (*restaurants.Restaurant, error) {
	rest, ok := r.byID[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return rest, nil
}

func (r *fakeRestaurantsRepo) ListByCity(ctx context.Context, city string) ([]restaurants.Restaurant, error) {
	var out []restaurants.Restaurant
	for _, rest := range r.byID {
		if rest.City == city && rest.Active {
			out = append(out, *rest)
		}
	}
	return out, nil
}

func (r *fakeRestaurantsRepo) AddMenuItem(ctx context.Context, item *restaurants.MenuItem) error {
	item.ID = r.nextItemID
	item.Available = true
	r.nextItemID++
	r.menu[item.ID] = item
	return nil
}

func (r *fakeRestaurantsRepo) GetMenuItem(ctx context.Context, id int64) (*restaurants.MenuItem, error) {
	item, ok := r.menu[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return item, nil
}

func (r *fakeRestaurantsRepo) ListMenu(ctx context.Context, restaurantID int64) ([]restaurants.MenuItem, error) {
	var out []restaurants.MenuItem
	for _, item := range r.menu {
		if item.RestaurantID == restaurantID && item.Available {
			out = append(out, *item)
		}
	}
	return out, nil
}

func newTestService(repo *fakeRestaurantsRepo, pub *recordingPublisher) *Service {
	customers := &fakeCustomerDirectory{byUsername: map[string]*ports.CustomerSnapshot{
		"jane_smith": {ID: 5, Username: "jane_smith", FirstName: "Jane", LastName: "Smith"},
		"john_doe":   {ID: 7, Username: "john_doe", FirstName: "John", LastName: "Doe"},
	}}
	return New(fakeUOW{}, repo, customers, pub, logger.NewNop())
}

func TestCreateRestaurantPublishesEvent(t *testing.T) {
	repo := newFakeRestaurantsRepo()
	pub := &recordingPublisher{}
	svc := newTestService(repo, pub)

	restaurant, err := svc.CreateRestaurant(context.Background(), "jane_smith", ports.CreateRestaurantCommand{
		Name:                     "Thai Garden",
		CuisineType:              "Thai",
		Address:                  "1 Market St",
		City:                     "Springfield",
		EstimatedDeliveryMinutes: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), restaurant.OwnerID)
	assert.True(t, restaurant.Active)

	require.Len(t, pub.published, 1)
	assert.Equal(t, rabbitmq.ExchangeRestaurant, pub.published[0].Exchange)
	assert.Equal(t, rabbitmq.KeyRestaurantCreated, pub.published[0].Key)

	var event contracts.RestaurantCreatedEvent
	require.NoError(t, json.Unmarshal(pub.published[0].Body, &event))
	assert.Equal(t, restaurant.ID, event.RestaurantID)
	assert.Equal(t, "Thai Garden", event.RestaurantName)
	assert.Equal(t, int64(5), event.OwnerID)
	assert.Equal(t, "jane_smith", event.OwnerUsername)
}

func TestCreateRestaurantUnknownOwner(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(newFakeRestaurantsRepo(), pub)

	_, err := svc.CreateRestaurant(context.Background(), "ghost", ports.CreateRestaurantCommand{
		Name: "Nowhere", Address: "0 Void St", City: "Springfield",
	})
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.Empty(t, pub.published)
}

func TestAddMenuItem(t *testing.T) {
	repo := newFakeRestaurantsRepo()
	svc := newTestService(repo, &recordingPublisher{})

	restaurant, err := svc.CreateRestaurant(context.Background(), "jane_smith", ports.CreateRestaurantCommand{
		Name: "Thai Garden", Address: "1 Market St", City: "Springfield",
	})
	require.NoError(t, err)

	item, err := svc.AddMenuItem(context.Background(), restaurant.ID, "jane_smith", ports.MenuItemCommand{
		Name:  "Pad Thai",
		Price: orders.NewMoneyFromFloat2(11.50),
	})
	require.NoError(t, err)
	assert.Equal(t, restaurant.ID, item.RestaurantID)
	assert.True(t, item.Available)

	menu, err := svc.GetMenu(context.Background(), restaurant.ID)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "Pad Thai", menu[0].Name)
}

func TestAddMenuItemRejectsNonOwner(t *testing.T) {
	repo := newFakeRestaurantsRepo()
	svc := newTestService(repo, &recordingPublisher{})

	restaurant, err := svc.CreateRestaurant(context.Background(), "jane_smith", ports.CreateRestaurantCommand{
		Name: "Thai Garden", Address: "1 Market St", City: "Springfield",
	})
	require.NoError(t, err)

	_, err = svc.AddMenuItem(context.Background(), restaurant.ID, "john_doe", ports.MenuItemCommand{
		Name:  "Pad Thai",
		Price: orders.NewMoneyFromFloat2(11.50),
	})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestSearchByCity(t *testing.T) {
	repo := newFakeRestaurantsRepo()
	svc := newTestService(repo, &recordingPublisher{})

	_, err := svc.CreateRestaurant(context.Background(), "jane_smith", ports.CreateRestaurantCommand{
		Name: "Thai Garden", Address: "1 Market St", City: "Springfield",
	})
	require.NoError(t, err)
	_, err = svc.CreateRestaurant(context.Background(), "jane_smith", ports.CreateRestaurantCommand{
		Name: "Burger Barn", Address: "2 Main St", City: "Shelbyville",
	})
	require.NoError(t, err)

	found, err := svc.SearchByCity(context.Background(), "Springfield")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Thai Garden", found[0].Name)
}
