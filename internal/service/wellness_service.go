package service

import (
	"context"
	"errors"

	"github.com/wellkit/session-service/internal/models"
	"github.com/wellkit/session-service/internal/repository"
	"gorm.io/gorm"
)

type WellnessService interface {
	CompleteAssessment(ctx context.Context, assessmentID uint, metrics models.AssessmentMetrics) (*models.WellnessAssessment, error)
	ComputeImpact(ctx context.Context, registrationID uint) (*models.WellnessImpact, error)
}

type wellnessService struct {
	assessRepo repository.AssessmentRepository
	publisher  EventPublisher
}

func NewWellnessService(assessRepo repository.AssessmentRepository, publisher EventPublisher) WellnessService {
	return &wellnessService{assessRepo: assessRepo, publisher: publisher}
}

// CompleteAssessment records the questionnaire answers on a pending
// assessment. Completion is a guarded update, so two concurrent calls cannot
// both succeed; once completed the metrics are immutable.
func (s *wellnessService) CompleteAssessment(ctx context.Context, assessmentID uint, metrics models.AssessmentMetrics) (*models.WellnessAssessment, error) {
	for _, v := range []int{metrics.SleepQuality, metrics.StressLevel, metrics.Mood} {
		if v < 1 || v > 10 {
			return nil, ErrInvalidMetric
		}
	}

	a, err := s.assessRepo.FindByID(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}
	if a.Status == models.AssessmentCompleted {
		return nil, ErrAlreadyCompleted
	}

	affected, err := s.assessRepo.CompletePending(ctx, assessmentID, metrics)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Lost the race against a concurrent complete.
		return nil, ErrAlreadyCompleted
	}

	a.Status = models.AssessmentCompleted
	a.SleepQuality = &metrics.SleepQuality
	a.StressLevel = &metrics.StressLevel
	a.Mood = &metrics.Mood

	if s.publisher != nil {
		_ = s.publisher.Publish(RouteAssessmentCompleted, a)
	}
	return a, nil
}

// ComputeImpact derives the before/after deltas for a registration. It is a
// pure read: calling it repeatedly on the same completed pair returns
// identical results.
func (s *wellnessService) ComputeImpact(ctx context.Context, registrationID uint) (*models.WellnessImpact, error) {
	pre, err := s.findCompleted(ctx, registrationID, models.AssessmentPre)
	if err != nil {
		return nil, err
	}
	post, err := s.findCompleted(ctx, registrationID, models.AssessmentPost)
	if err != nil {
		return nil, err
	}

	impact := impactBetween(pre, post)
	impact.RegistrationID = registrationID
	return &impact, nil
}

func (s *wellnessService) findCompleted(ctx context.Context, registrationID uint, typ models.AssessmentType) (*models.WellnessAssessment, error) {
	a, err := s.assessRepo.FindByRegistrationAndType(ctx, nil, registrationID, typ)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncompleteAssessments
		}
		return nil, err
	}
	if a.Status != models.AssessmentCompleted {
		return nil, ErrIncompleteAssessments
	}
	return a, nil
}

// impactBetween computes the signed post-minus-pre delta per metric. Stress is
// an inverted metric (lower is better), so its delta is negated before it
// enters the overall average.
func impactBetween(pre, post *models.WellnessAssessment) models.WellnessImpact {
	sleep := *post.SleepQuality - *pre.SleepQuality
	stress := *post.StressLevel - *pre.StressLevel
	mood := *post.Mood - *pre.Mood

	return models.WellnessImpact{
		SleepQualityChange: sleep,
		StressLevelChange:  stress,
		MoodChange:         mood,
		OverallImpact:      float64(sleep-stress+mood) / 3,
	}
}
