package repository

import (
	"context"

	"carpool-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user account storage operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.UserAccount) error
	// FindByEmail returns (nil, nil) when no account matches; callers use
	// the miss to branch between login and registration.
	FindByEmail(ctx context.Context, email string) (*entity.UserAccount, error)
	FindByBaseID(ctx context.Context, baseID string) (*entity.UserAccount, error)
	UpsertVehicle(ctx context.Context, baseID string, vehicle entity.Vehicle) error
	AppendNotification(ctx context.Context, baseID string, n entity.Notification) (primitive.ObjectID, error)
	RemoveNotification(ctx context.Context, baseID string, notificationID primitive.ObjectID) error
	UpdateNotificationDecision(ctx context.Context, baseID string, notificationID primitive.ObjectID, message string, accepted, declined bool) error
	Notifications(ctx context.Context, baseID string) ([]entity.Notification, error)
	IncrementRides(ctx context.Context, baseID string, delta int) error
	IncrementPickups(ctx context.Context, baseID string, delta int) error
}
