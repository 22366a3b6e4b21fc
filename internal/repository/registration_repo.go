package repository

import (
	"context"

	"github.com/wellkit/session-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RegistrationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reg *models.Registration) error
	FindByID(ctx context.Context, id uint) (*models.Registration, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error)
	FindByTokenForUpdate(ctx context.Context, tx *gorm.DB, token string) (*models.Registration, error)
	FindActiveByUserAndInstance(ctx context.Context, tx *gorm.DB, userID string, instanceID uint) (*models.Registration, error)
	FindByInstance(ctx context.Context, instanceID uint) ([]models.Registration, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.RegistrationStatus) error

	CreateAttendance(ctx context.Context, tx *gorm.DB, att *models.Attendance) error
	FindAttendance(ctx context.Context, tx *gorm.DB, registrationID uint) (*models.Attendance, error)

	GetDB() *gorm.DB
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *registrationRepository) Create(ctx context.Context, tx *gorm.DB, reg *models.Registration) error {
	return tx.WithContext(ctx).Create(reg).Error
}

func (r *registrationRepository) FindByID(ctx context.Context, id uint) (*models.Registration, error) {
	var reg models.Registration
	err := r.db.WithContext(ctx).
		Preload("Instance").
		Preload("Attendance").
		Preload("Assessments").
		First(&reg, id).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
	var reg models.Registration
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&reg, id).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// FindByTokenForUpdate resolves a registration by its scannable token and
// locks the row, serialising concurrent check-in attempts.
func (r *registrationRepository) FindByTokenForUpdate(ctx context.Context, tx *gorm.DB, token string) (*models.Registration, error) {
	var reg models.Registration
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("token = ?", token).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) FindActiveByUserAndInstance(ctx context.Context, tx *gorm.DB, userID string, instanceID uint) (*models.Registration, error) {
	var reg models.Registration
	err := tx.WithContext(ctx).
		Where("user_id = ? AND instance_id = ? AND status <> ?", userID, instanceID, models.StatusCancelled).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) FindByInstance(ctx context.Context, instanceID uint) ([]models.Registration, error) {
	var regs []models.Registration
	err := r.db.WithContext(ctx).
		Where("instance_id = ?", instanceID).
		Order("id ASC").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.RegistrationStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *registrationRepository) CreateAttendance(ctx context.Context, tx *gorm.DB, att *models.Attendance) error {
	return tx.WithContext(ctx).Create(att).Error
}

func (r *registrationRepository) FindAttendance(ctx context.Context, tx *gorm.DB, registrationID uint) (*models.Attendance, error) {
	var att models.Attendance
	err := tx.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		First(&att).Error
	if err != nil {
		return nil, err
	}
	return &att, nil
}
