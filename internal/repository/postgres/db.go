package postgres

import (
	"trainmate/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// Migrate creates or updates the schema. Order matters: referenced tables
// must exist before the tables that declare foreign keys against them.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Client{},
		&domain.TrainingPlan{},
		&domain.ExerciseGroup{},
		&domain.Exercise{},
		&domain.Appointment{},
		&domain.AnthropometricRecord{},
		&domain.ClientDocument{},
		&domain.Alert{},
	)
}
