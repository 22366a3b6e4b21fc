package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wellkit/session-service/internal/models"
	"github.com/wellkit/session-service/internal/recurrence"
	"github.com/wellkit/session-service/internal/repository"
	"gorm.io/gorm"
)

// ScheduleService owns events and the generation of their concrete instances
// from the recurrence rule.
type ScheduleService interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	RegenerateInstances(ctx context.Context, eventID uint) ([]models.EventInstance, error)
	ListInstances(ctx context.Context, eventID uint) ([]models.EventInstance, error)
	UpdateInstanceCapacity(ctx context.Context, instanceID uint, capacity int) (*models.EventInstance, error)
}

type scheduleService struct {
	eventRepo repository.EventRepository
}

func NewScheduleService(eventRepo repository.EventRepository) ScheduleService {
	return &scheduleService{eventRepo: eventRepo}
}

// CreateEvent persists the event and seeds one instance per occurrence of its
// recurrence rule, each inheriting the event's capacity.
func (s *scheduleService) CreateEvent(ctx context.Context, event *models.Event) error {
	occurrences, err := expand(event)
	if err != nil {
		return err
	}

	return s.eventRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.eventRepo.Create(ctx, tx, event); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		for _, at := range occurrences {
			instance := &models.EventInstance{
				EventID:  event.ID,
				StartsAt: at,
				Capacity: event.Capacity,
			}
			if err := s.eventRepo.CreateInstance(ctx, tx, instance); err != nil {
				return fmt.Errorf("create instance: %w", err)
			}
		}
		return nil
	})
}

func (s *scheduleService) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *scheduleService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.eventRepo.FindAll(ctx)
}

// UpdateEvent saves the event and, when the rule or window changed, the caller
// follows up with RegenerateInstances. Already-generated instances keep their
// own capacity; only the template changes here.
func (s *scheduleService) UpdateEvent(ctx context.Context, event *models.Event) error {
	if _, err := expand(event); err != nil {
		return err
	}
	return s.eventRepo.Save(ctx, s.eventRepo.GetDB(), event)
}

// RegenerateInstances reconciles the stored instances with the event's current
// rule. New occurrences are appended; future instances that no longer match
// and hold no registrations are removed; those holding registrations are kept
// and flagged for administrative review. Past instances are never touched.
func (s *scheduleService) RegenerateInstances(ctx context.Context, eventID uint) ([]models.EventInstance, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	occurrences, err := expand(event)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var result []models.EventInstance

	err = s.eventRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.eventRepo.FindInstancesByEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}

		wanted := make(map[int64]bool, len(occurrences))
		for _, at := range occurrences {
			wanted[at.Unix()] = true
		}
		have := make(map[int64]bool, len(existing))
		for _, inst := range existing {
			have[inst.StartsAt.Unix()] = true
		}

		for _, inst := range existing {
			if wanted[inst.StartsAt.Unix()] || inst.StartsAt.Before(now) {
				result = append(result, inst)
				continue
			}
			if inst.Registered > 0 {
				if err := s.eventRepo.FlagRuleMismatch(ctx, tx, inst.ID); err != nil {
					return err
				}
				inst.RuleMismatch = true
				result = append(result, inst)
				continue
			}
			if err := s.eventRepo.DeleteInstance(ctx, tx, inst.ID); err != nil {
				return err
			}
		}

		for _, at := range occurrences {
			if have[at.Unix()] {
				continue
			}
			instance := &models.EventInstance{
				EventID:  eventID,
				StartsAt: at,
				Capacity: event.Capacity,
			}
			if err := s.eventRepo.CreateInstance(ctx, tx, instance); err != nil {
				return fmt.Errorf("create instance: %w", err)
			}
			result = append(result, *instance)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *scheduleService) ListInstances(ctx context.Context, eventID uint) ([]models.EventInstance, error) {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.eventRepo.FindInstancesByEvent(ctx, s.eventRepo.GetDB(), eventID)
}

// UpdateInstanceCapacity adjusts a single instance's capacity. The new value
// may not undercut the seats already taken.
func (s *scheduleService) UpdateInstanceCapacity(ctx context.Context, instanceID uint, capacity int) (*models.EventInstance, error) {
	var instance *models.EventInstance

	err := s.eventRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inst, err := s.eventRepo.FindInstanceByIDForUpdate(ctx, tx, instanceID)
		if err != nil {
			return ErrInstanceNotFound
		}
		if capacity < inst.Registered {
			return ErrCapacityBelowBooked
		}
		if err := s.eventRepo.SetInstanceCapacity(ctx, tx, instanceID, capacity); err != nil {
			return err
		}
		inst.Capacity = capacity
		instance = inst
		return nil
	})
	if err != nil {
		return nil, err
	}

	return instance, nil
}

func expand(event *models.Event) ([]time.Time, error) {
	rule, err := recurrence.FromEvent(event)
	if err != nil {
		return nil, err
	}
	return recurrence.Expand(rule, event.TimeOfDay, event.StartDate, event.EndDate)
}
