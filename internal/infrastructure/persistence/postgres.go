package persistence

import (
	"carpool-service/internal/domain/entity"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgres opens the audit database and migrates the event table
func NewPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&entity.RideEvent{}); err != nil {
		return nil, err
	}

	return db, nil
}
