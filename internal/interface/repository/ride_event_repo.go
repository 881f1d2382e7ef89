package repository

import (
	"context"
	"time"

	"carpool-service/internal/domain/entity"
	"carpool-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormRideEventRepository implements the RideEventRepository interface
type GormRideEventRepository struct {
	db *gorm.DB
}

// NewGormRideEventRepository creates a new GORM ride event repository
func NewGormRideEventRepository(db *gorm.DB) repository.RideEventRepository {
	return &GormRideEventRepository{
		db: db,
	}
}

// Record appends one event to the audit trail
func (r *GormRideEventRepository) Record(ctx context.Context, event *entity.RideEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// RecentByRide returns the latest events for one ride, newest first
func (r *GormRideEventRepository) RecentByRide(ctx context.Context, rideID string, limit int) ([]entity.RideEvent, error) {
	var events []entity.RideEvent
	result := r.db.WithContext(ctx).
		Where("ride_id = ?", rideID).
		Order("created_at desc").
		Limit(limit).
		Find(&events)

	if result.Error != nil {
		return nil, result.Error
	}
	return events, nil
}
