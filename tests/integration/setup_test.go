//go:build integration

package integration

import (
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/wellkit/session-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5434"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "session_test_db"),
	)

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}

	dropTables()

	if err := testDB.AutoMigrate(
		&models.Event{},
		&models.EventInstance{},
		&models.Registration{},
		&models.Attendance{},
		&models.WellnessAssessment{},
	); err != nil {
		log.Fatalf("failed to auto-migrate test database: %v", err)
	}

	testDB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_registration_active
		ON registrations (instance_id, user_id)
		WHERE status <> 'cancelled'
	`)

	code := m.Run()

	dropTables()

	os.Exit(code)
}

func dropTables() {
	testDB.Exec("DROP TABLE IF EXISTS wellness_assessments")
	testDB.Exec("DROP TABLE IF EXISTS attendances")
	testDB.Exec("DROP TABLE IF EXISTS registrations")
	testDB.Exec("DROP TABLE IF EXISTS event_instances")
	testDB.Exec("DROP TABLE IF EXISTS events")
}

func cleanTables() {
	testDB.Exec("DELETE FROM wellness_assessments")
	testDB.Exec("DELETE FROM attendances")
	testDB.Exec("DELETE FROM registrations")
	testDB.Exec("DELETE FROM event_instances")
	testDB.Exec("DELETE FROM events")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
