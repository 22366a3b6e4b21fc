package service

import (
	"context"
	"errors"
	"time"

	"github.com/wellkit/session-service/internal/models"
	"github.com/wellkit/session-service/internal/repository"
	"gorm.io/gorm"
)

type AttendanceService interface {
	MarkAttendance(ctx context.Context, token string, adminID string) (*models.Attendance, error)
}

type attendanceService struct {
	regRepo    repository.RegistrationRepository
	assessRepo repository.AssessmentRepository
	publisher  EventPublisher
}

func NewAttendanceService(
	regRepo repository.RegistrationRepository,
	assessRepo repository.AssessmentRepository,
	publisher EventPublisher,
) AttendanceService {
	return &attendanceService{regRepo: regRepo, assessRepo: assessRepo, publisher: publisher}
}

// MarkAttendance checks a participant in by their scanned token. The
// transition is one-way: a second call for the same registration always fails
// with ErrAlreadyAttended. Check-in is gated on a completed PRE assessment.
func (s *attendanceService) MarkAttendance(ctx context.Context, token string, adminID string) (*models.Attendance, error) {
	var result *models.Attendance

	err := s.regRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reg, err := s.regRepo.FindByTokenForUpdate(ctx, tx, token)
		if err != nil {
			return ErrRegistrationNotFound
		}
		if reg.Status == models.StatusCancelled {
			return ErrRegistrationNotFound
		}

		if _, err := s.regRepo.FindAttendance(ctx, tx, reg.ID); err == nil {
			return ErrAlreadyAttended
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		pre, err := s.assessRepo.FindByRegistrationAndType(ctx, tx, reg.ID, models.AssessmentPre)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPreAssessmentMissing
			}
			return err
		}
		if pre.Status != models.AssessmentCompleted {
			return ErrPreAssessmentMissing
		}

		att := &models.Attendance{
			RegistrationID: reg.ID,
			AdminID:        adminID,
			AttendedAt:     time.Now(),
		}
		if err := s.regRepo.CreateAttendance(ctx, tx, att); err != nil {
			// Unique index on registration_id backs the row lock.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyAttended
			}
			return err
		}

		result = att
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(RouteAttendanceMarked, result)
	}
	return result, nil
}
