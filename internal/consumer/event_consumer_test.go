package consumer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellkit/session-service/internal/models"
	"github.com/wellkit/session-service/internal/recurrence"
	"github.com/wellkit/session-service/internal/service"
)

type mockScheduleService struct {
	createEventFn            func(ctx context.Context, event *models.Event) error
	getEventFn               func(ctx context.Context, id uint) (*models.Event, error)
	updateEventFn            func(ctx context.Context, event *models.Event) error
	regenerateInstancesFn    func(ctx context.Context, eventID uint) ([]models.EventInstance, error)
	listEventsFn             func(ctx context.Context) ([]models.Event, error)
	listInstancesFn          func(ctx context.Context, eventID uint) ([]models.EventInstance, error)
	updateInstanceCapacityFn func(ctx context.Context, instanceID uint, capacity int) (*models.EventInstance, error)
}

func (m *mockScheduleService) CreateEvent(ctx context.Context, event *models.Event) error {
	return m.createEventFn(ctx, event)
}

func (m *mockScheduleService) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	return m.getEventFn(ctx, id)
}

func (m *mockScheduleService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return m.listEventsFn(ctx)
}

func (m *mockScheduleService) UpdateEvent(ctx context.Context, event *models.Event) error {
	return m.updateEventFn(ctx, event)
}

func (m *mockScheduleService) RegenerateInstances(ctx context.Context, eventID uint) ([]models.EventInstance, error) {
	return m.regenerateInstancesFn(ctx, eventID)
}

func (m *mockScheduleService) ListInstances(ctx context.Context, eventID uint) ([]models.EventInstance, error) {
	return m.listInstancesFn(ctx, eventID)
}

func (m *mockScheduleService) UpdateInstanceCapacity(ctx context.Context, instanceID uint, capacity int) (*models.EventInstance, error) {
	return m.updateInstanceCapacityFn(ctx, instanceID, capacity)
}

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func deliveryFor(t *testing.T, event models.Event) (amqp.Delivery, *fakeAcknowledger) {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	ack := &fakeAcknowledger{}
	return amqp.Delivery{Acknowledger: ack, Body: body}, ack
}

func catalogEvent() models.Event {
	return models.Event{
		ID:           7,
		Name:         "Morning Yoga",
		TimeOfDay:    "08:00",
		Capacity:     10,
		Recurrence:   models.RecurrenceInterval,
		IntervalDays: 7,
		StartDate:    time.Now().AddDate(0, 0, 1),
		AdminID:      "admin-1",
	}
}

func TestConsumerCreatesUnknownEvent(t *testing.T) {
	var created *models.Event
	svc := &mockScheduleService{
		getEventFn: func(ctx context.Context, id uint) (*models.Event, error) {
			return nil, service.ErrEventNotFound
		},
		createEventFn: func(ctx context.Context, event *models.Event) error {
			created = event
			return nil
		},
	}
	ec := NewEventConsumer(svc)

	msg, ack := deliveryFor(t, catalogEvent())
	ec.handleMessage(msg)

	require.NotNil(t, created)
	assert.Equal(t, uint(7), created.ID)
	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
}

func TestConsumerUpdatesKnownEventAndRegenerates(t *testing.T) {
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var updated *models.Event
	var regenerated uint
	svc := &mockScheduleService{
		getEventFn: func(ctx context.Context, id uint) (*models.Event, error) {
			return &models.Event{ID: id, CreatedAt: createdAt}, nil
		},
		updateEventFn: func(ctx context.Context, event *models.Event) error {
			updated = event
			return nil
		},
		regenerateInstancesFn: func(ctx context.Context, eventID uint) ([]models.EventInstance, error) {
			regenerated = eventID
			return nil, nil
		},
	}
	ec := NewEventConsumer(svc)

	msg, ack := deliveryFor(t, catalogEvent())
	ec.handleMessage(msg)

	require.NotNil(t, updated)
	assert.Equal(t, createdAt, updated.CreatedAt, "creation timestamp must survive catalog updates")
	assert.Equal(t, uint(7), regenerated)
	assert.True(t, ack.acked)
}

func TestConsumerDropsInvalidRuleWithoutRequeue(t *testing.T) {
	svc := &mockScheduleService{
		getEventFn: func(ctx context.Context, id uint) (*models.Event, error) {
			return nil, service.ErrEventNotFound
		},
		createEventFn: func(ctx context.Context, event *models.Event) error {
			return recurrence.ErrInvalidPattern
		},
	}
	ec := NewEventConsumer(svc)

	msg, ack := deliveryFor(t, catalogEvent())
	ec.handleMessage(msg)

	assert.False(t, ack.acked)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue, "a bad rule cannot be fixed by redelivery")
}

func TestConsumerRequeuesTransientFailure(t *testing.T) {
	svc := &mockScheduleService{
		getEventFn: func(ctx context.Context, id uint) (*models.Event, error) {
			return &models.Event{ID: id}, nil
		},
		updateEventFn: func(ctx context.Context, event *models.Event) error {
			return assert.AnError
		},
	}
	ec := NewEventConsumer(svc)

	msg, ack := deliveryFor(t, catalogEvent())
	ec.handleMessage(msg)

	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)
}

func TestConsumerRejectsMalformedPayload(t *testing.T) {
	ack := &fakeAcknowledger{}
	ec := NewEventConsumer(&mockScheduleService{})

	ec.handleMessage(amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")})

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}
