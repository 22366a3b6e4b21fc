package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wellkit/session-service/internal/models"
	"github.com/wellkit/session-service/internal/recurrence"
	"github.com/wellkit/session-service/internal/service"
)

// EventConsumer applies event records pushed by the external catalog (the
// CRUD collaborator) and regenerates instances whenever a rule or window
// changes.
type EventConsumer struct {
	schedule service.ScheduleService
}

func NewEventConsumer(schedule service.ScheduleService) *EventConsumer {
	return &EventConsumer{schedule: schedule}
}

// Start listens for messages and syncs events into the local schedule.
func (ec *EventConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			ec.handleMessage(msg)
		}
		log.Println("[EventConsumer] channel closed, stopping consumer")
	}()
}

func (ec *EventConsumer) handleMessage(msg amqp.Delivery) {
	var event models.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("[EventConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	if err := ec.syncEvent(context.Background(), &event); err != nil {
		if errors.Is(err, recurrence.ErrInvalidPattern) {
			// Bad rule from the catalog. Requeueing cannot fix it.
			log.Printf("[EventConsumer] rejected event %d: %v", event.ID, err)
			msg.Nack(false, false)
			return
		}
		log.Printf("[EventConsumer] failed to sync event %d: %v", event.ID, err)
		msg.Nack(false, true)
		return
	}

	log.Printf("[EventConsumer] synced event %d: %s", event.ID, event.Name)
	msg.Ack(false)
}

// syncEvent creates unseen events with a full instance seed, and updates known
// ones before reconciling their instances against the new rule.
func (ec *EventConsumer) syncEvent(ctx context.Context, event *models.Event) error {
	existing, err := ec.schedule.GetEvent(ctx, event.ID)
	if errors.Is(err, service.ErrEventNotFound) {
		return ec.schedule.CreateEvent(ctx, event)
	}
	if err != nil {
		return err
	}

	event.CreatedAt = existing.CreatedAt
	if err := ec.schedule.UpdateEvent(ctx, event); err != nil {
		return err
	}
	_, err = ec.schedule.RegenerateInstances(ctx, event.ID)
	return err
}
