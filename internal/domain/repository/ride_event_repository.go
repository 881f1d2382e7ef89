package repository

import (
	"context"

	"carpool-service/internal/domain/entity"
)

// RideEventRepository defines the interface for the ride audit trail
type RideEventRepository interface {
	Record(ctx context.Context, event *entity.RideEvent) error
	RecentByRide(ctx context.Context, rideID string, limit int) ([]entity.RideEvent, error)
}
