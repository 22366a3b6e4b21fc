package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/wellkit/session-service/internal/models"
	"github.com/wellkit/session-service/internal/repository"
	"gorm.io/gorm"
)

// Availability is the read-only snapshot of an instance's capacity ledger.
type Availability struct {
	InstanceID uint `json:"instance_id"`
	Capacity   int  `json:"capacity"`
	Registered int  `json:"registered"`
	Available  int  `json:"available"`
}

type RegistrationService interface {
	Register(ctx context.Context, instanceID uint, userID string) (*models.Registration, error)
	Cancel(ctx context.Context, registrationID uint, userID string) (*models.Registration, error)
	Availability(ctx context.Context, instanceID uint) (*Availability, error)
	GetRegistration(ctx context.Context, id uint) (*models.Registration, error)
	ListByInstance(ctx context.Context, instanceID uint) ([]models.Registration, error)
}

type registrationService struct {
	regRepo    repository.RegistrationRepository
	eventRepo  repository.EventRepository
	assessRepo repository.AssessmentRepository
	publisher  EventPublisher
}

func NewRegistrationService(
	regRepo repository.RegistrationRepository,
	eventRepo repository.EventRepository,
	assessRepo repository.AssessmentRepository,
	publisher EventPublisher,
) RegistrationService {
	return &registrationService{
		regRepo:    regRepo,
		eventRepo:  eventRepo,
		assessRepo: assessRepo,
		publisher:  publisher,
	}
}

// Register books one seat on an instance. The instance row is locked for the
// whole check-and-increment, so concurrent calls racing for the last seat
// resolve with exactly one winner. The PRE and POST assessments are created
// alongside the registration, both pending.
func (s *registrationService) Register(ctx context.Context, instanceID uint, userID string) (*models.Registration, error) {
	var result *models.Registration

	err := s.regRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		instance, err := s.eventRepo.FindInstanceByIDForUpdate(ctx, tx, instanceID)
		if err != nil {
			return ErrInstanceNotFound
		}

		if instance.StartsAt.Before(time.Now()) {
			return ErrInstancePast
		}

		_, err = s.regRepo.FindActiveByUserAndInstance(ctx, tx, userID, instanceID)
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if instance.Registered < 0 || instance.Registered > instance.Capacity {
			log.Printf("[Registration] INVARIANT VIOLATION: instance %d registered=%d capacity=%d",
				instance.ID, instance.Registered, instance.Capacity)
			return ErrInvariantViolation
		}
		if instance.IsFull() {
			return ErrCapacityExceeded
		}

		if err := s.eventRepo.SetRegistered(ctx, tx, instanceID, instance.Registered+1); err != nil {
			return err
		}

		reg := &models.Registration{
			InstanceID: instanceID,
			UserID:     userID,
			Token:      uuid.New().String(),
			Status:     models.StatusConfirmed,
		}
		if err := s.regRepo.Create(ctx, tx, reg); err != nil {
			return err
		}

		for _, typ := range []models.AssessmentType{models.AssessmentPre, models.AssessmentPost} {
			a := &models.WellnessAssessment{
				RegistrationID: reg.ID,
				Type:           typ,
				Status:         models.AssessmentPending,
			}
			if err := s.assessRepo.Create(ctx, tx, a); err != nil {
				return err
			}
			reg.Assessments = append(reg.Assessments, *a)
		}

		result = reg
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Two unique indexes can trip the insert: the active-registration
			// index means the user raced themselves, the token index means a
			// uuid collision. The transaction has rolled back, so re-check on
			// a fresh connection to tell them apart.
			if _, dupErr := s.regRepo.FindActiveByUserAndInstance(ctx, s.regRepo.GetDB(), userID, instanceID); dupErr == nil {
				return nil, ErrAlreadyRegistered
			}
			log.Printf("[Registration] INVARIANT VIOLATION: token collision for instance %d", instanceID)
			return nil, ErrInvariantViolation
		}
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(RouteRegistrationCreated, result)
	}
	return result, nil
}

// Cancel releases the seat held by a registration. Only the owning user may
// cancel, only before the instance starts, and never after check-in.
func (s *registrationService) Cancel(ctx context.Context, registrationID uint, userID string) (*models.Registration, error) {
	var result *models.Registration

	err := s.regRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reg, err := s.regRepo.FindByIDForUpdate(ctx, tx, registrationID)
		if err != nil {
			return ErrRegistrationNotFound
		}
		if reg.UserID != userID {
			return ErrNotOwner
		}
		if reg.Status == models.StatusCancelled {
			return ErrAlreadyCancelled
		}

		if _, err := s.regRepo.FindAttendance(ctx, tx, reg.ID); err == nil {
			return ErrAlreadyAttended
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		instance, err := s.eventRepo.FindInstanceByIDForUpdate(ctx, tx, reg.InstanceID)
		if err != nil {
			return err
		}
		if instance.StartsAt.Before(time.Now()) {
			return ErrInstancePast
		}
		if instance.Registered <= 0 {
			log.Printf("[Registration] INVARIANT VIOLATION: instance %d registered=%d on cancel",
				instance.ID, instance.Registered)
			return ErrInvariantViolation
		}

		if err := s.regRepo.UpdateStatus(ctx, tx, reg.ID, models.StatusCancelled); err != nil {
			return err
		}
		if err := s.eventRepo.SetRegistered(ctx, tx, instance.ID, instance.Registered-1); err != nil {
			return err
		}

		reg.Status = models.StatusCancelled
		result = reg
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(RouteRegistrationCancelled, result)
	}
	return result, nil
}

func (s *registrationService) Availability(ctx context.Context, instanceID uint) (*Availability, error) {
	instance, err := s.eventRepo.FindInstanceByID(ctx, instanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, err
	}
	return &Availability{
		InstanceID: instance.ID,
		Capacity:   instance.Capacity,
		Registered: instance.Registered,
		Available:  instance.Available(),
	}, nil
}

func (s *registrationService) GetRegistration(ctx context.Context, id uint) (*models.Registration, error) {
	reg, err := s.regRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) ListByInstance(ctx context.Context, instanceID uint) ([]models.Registration, error) {
	return s.regRepo.FindByInstance(ctx, instanceID)
}
