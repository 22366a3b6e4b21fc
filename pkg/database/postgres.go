package database

import (
	"log"

	"github.com/wellkit/session-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Event{},
		&models.EventInstance{},
		&models.Registration{},
		&models.Attendance{},
		&models.WellnessAssessment{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial unique index: one active registration per user per instance,
	// cancelled rows don't count.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_registration_active
		ON registrations (instance_id, user_id)
		WHERE status <> 'cancelled'
	`)

	return db
}
