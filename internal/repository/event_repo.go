package repository

import (
	"context"
	"time"

	"github.com/wellkit/session-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *models.Event) error
	Save(ctx context.Context, tx *gorm.DB, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	FindAll(ctx context.Context) ([]models.Event, error)

	CreateInstance(ctx context.Context, tx *gorm.DB, instance *models.EventInstance) error
	FindInstanceByID(ctx context.Context, id uint) (*models.EventInstance, error)
	FindInstanceByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.EventInstance, error)
	FindInstancesByEvent(ctx context.Context, tx *gorm.DB, eventID uint) ([]models.EventInstance, error)
	SetRegistered(ctx context.Context, tx *gorm.DB, instanceID uint, registered int) error
	SetInstanceCapacity(ctx context.Context, tx *gorm.DB, instanceID uint, capacity int) error
	FlagRuleMismatch(ctx context.Context, tx *gorm.DB, instanceID uint) error
	DeleteInstance(ctx context.Context, tx *gorm.DB, instanceID uint) error

	GetDB() *gorm.DB
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *eventRepository) Create(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	return tx.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Save(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	return tx.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindAll(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) CreateInstance(ctx context.Context, tx *gorm.DB, instance *models.EventInstance) error {
	return tx.WithContext(ctx).Create(instance).Error
}

func (r *eventRepository) FindInstanceByID(ctx context.Context, id uint) (*models.EventInstance, error) {
	var instance models.EventInstance
	if err := r.db.WithContext(ctx).First(&instance, id).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

// FindInstanceByIDForUpdate acquires a row-level lock on the instance within
// the given transaction. All ledger mutations go through this lock.
func (r *eventRepository) FindInstanceByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.EventInstance, error) {
	var instance models.EventInstance
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&instance, id).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *eventRepository) FindInstancesByEvent(ctx context.Context, tx *gorm.DB, eventID uint) ([]models.EventInstance, error) {
	var instances []models.EventInstance
	err := tx.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("starts_at ASC").
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *eventRepository) SetRegistered(ctx context.Context, tx *gorm.DB, instanceID uint, registered int) error {
	return tx.WithContext(ctx).
		Model(&models.EventInstance{}).
		Where("id = ?", instanceID).
		Updates(map[string]any{"registered": registered, "updated_at": time.Now()}).Error
}

func (r *eventRepository) SetInstanceCapacity(ctx context.Context, tx *gorm.DB, instanceID uint, capacity int) error {
	return tx.WithContext(ctx).
		Model(&models.EventInstance{}).
		Where("id = ?", instanceID).
		Update("capacity", capacity).Error
}

func (r *eventRepository) FlagRuleMismatch(ctx context.Context, tx *gorm.DB, instanceID uint) error {
	return tx.WithContext(ctx).
		Model(&models.EventInstance{}).
		Where("id = ?", instanceID).
		Update("rule_mismatch", true).Error
}

func (r *eventRepository) DeleteInstance(ctx context.Context, tx *gorm.DB, instanceID uint) error {
	return tx.WithContext(ctx).Delete(&models.EventInstance{}, instanceID).Error
}
