package repository

import (
	"context"
	"time"

	"github.com/wellkit/session-service/internal/models"
	"gorm.io/gorm"
)

type AssessmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, a *models.WellnessAssessment) error
	FindByID(ctx context.Context, id uint) (*models.WellnessAssessment, error)
	FindByRegistrationAndType(ctx context.Context, tx *gorm.DB, registrationID uint, typ models.AssessmentType) (*models.WellnessAssessment, error)
	// CompletePending flips a PENDING assessment to COMPLETED and stores the
	// metrics in one guarded update. Returns the number of rows affected:
	// zero means the assessment was already completed by a concurrent call.
	CompletePending(ctx context.Context, id uint, metrics models.AssessmentMetrics) (int64, error)

	GetDB() *gorm.DB
}

type assessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *assessmentRepository) Create(ctx context.Context, tx *gorm.DB, a *models.WellnessAssessment) error {
	return tx.WithContext(ctx).Create(a).Error
}

func (r *assessmentRepository) FindByID(ctx context.Context, id uint) (*models.WellnessAssessment, error) {
	var a models.WellnessAssessment
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepository) FindByRegistrationAndType(ctx context.Context, tx *gorm.DB, registrationID uint, typ models.AssessmentType) (*models.WellnessAssessment, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var a models.WellnessAssessment
	err := db.WithContext(ctx).
		Where("registration_id = ? AND type = ?", registrationID, typ).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepository) CompletePending(ctx context.Context, id uint, metrics models.AssessmentMetrics) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.WellnessAssessment{}).
		Where("id = ? AND status = ?", id, models.AssessmentPending).
		Updates(map[string]any{
			"status":        models.AssessmentCompleted,
			"sleep_quality": metrics.SleepQuality,
			"stress_level":  metrics.StressLevel,
			"mood":          metrics.Mood,
			"updated_at":    time.Now(),
		})
	return result.RowsAffected, result.Error
}
