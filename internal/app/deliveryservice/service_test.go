package deliveryservice

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickeats/platform/internal/domain/deliveries"
	"github.com/quickeats/platform/internal/ports"
	"github.com/quickeats/platform/internal/shared/contracts"
	"github.com/quickeats/platform/internal/shared/logger"
	"github.com/quickeats/platform/internal/shared/rabbitmq"
)

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

func TestUpdateStatusPublishesEvent(t *testing.T) {
	repo := newFakeDeliveriesRepo()
	repo.byOrderID[42] = &deliveries.Delivery{ID: 1, OrderID: 42, Status: deliveries.StatusAssigned}
	pub := &recordingPublisher{}
	svc := New(fakeUOW{}, repo, pub, logger.NewNop())

	updated, err := svc.UpdateStatus(context.Background(), 1, deliveries.StatusPickedUp)
	require.NoError(t, err)
	assert.Equal(t, deliveries.StatusPickedUp, updated.Status)
	require.NotNil(t, updated.PickedUpAt)

	require.Len(t, pub.published, 1)
	assert.Equal(t, rabbitmq.ExchangeDelivery, pub.published[0].Exchange)
	assert.Equal(t, rabbitmq.KeyDeliveryStatusUpdated, pub.published[0].Key)

	var event contracts.DeliveryStatusUpdatedEvent
	require.NoError(t, json.Unmarshal(pub.published[0].Body, &event))
	assert.Equal(t, int64(1), event.DeliveryID)
	assert.Equal(t, int64(42), event.OrderID)
	assert.Equal(t, "PICKED_UP", event.NewStatus)
}

func TestUpdateStatusRejectsRegression(t *testing.T) {
	repo := newFakeDeliveriesRepo()
	repo.byOrderID[42] = &deliveries.Delivery{ID: 1, OrderID: 42, Status: deliveries.StatusInTransit}
	pub := &recordingPublisher{}
	svc := New(fakeUOW{}, repo, pub, logger.NewNop())

	_, err := svc.UpdateStatus(context.Background(), 1, deliveries.StatusPickedUp)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Empty(t, pub.published)
	assert.Equal(t, deliveries.StatusInTransit, repo.byOrderID[42].Status)
}

func TestUpdateStatusTerminalDeliveryRejectsEverything(t *testing.T) {
	repo := newFakeDeliveriesRepo()
	repo.byOrderID[42] = &deliveries.Delivery{ID: 1, OrderID: 42, Status: deliveries.StatusFailed}
	svc := New(fakeUOW{}, repo, &recordingPublisher{}, logger.NewNop())

	_, err := svc.UpdateStatus(context.Background(), 1, deliveries.StatusDelivered)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestUpdateStatusUnknownDelivery(t *testing.T) {
	svc := New(fakeUOW{}, newFakeDeliveriesRepo(), &recordingPublisher{}, logger.NewNop())

	_, err := svc.UpdateStatus(context.Background(), 7, deliveries.StatusPickedUp)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestGetByOrderID(t *testing.T) {
	repo := newFakeDeliveriesRepo()
	repo.byOrderID[42] = &deliveries.Delivery{ID: 1, OrderID: 42, Status: deliveries.StatusAssigned}
	svc := New(fakeUOW{}, repo, &recordingPublisher{}, logger.NewNop())

	d, err := svc.GetByOrderID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.ID)

	_, err = svc.GetByOrderID(context.Background(), 43)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
