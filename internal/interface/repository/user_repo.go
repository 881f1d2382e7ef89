package repository

import (
	"context"
	"fmt"
	"time"

	"carpool-service/internal/domain/entity"
	"carpool-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements the UserRepository interface
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	collection := db.Collection("users")

	ctx := context.Background()

	emailIndex := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}

	baseIDIndex := mongo.IndexModel{
		Keys:    bson.M{"baseID": 1},
		Options: options.Index().SetUnique(true),
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		emailIndex,
		baseIDIndex,
	})

	return &MongoUserRepository{
		collection: collection,
	}
}

// Create inserts a new account. The unique email index turns a duplicate
// into entity.ErrEmailTaken.
func (r *MongoUserRepository) Create(ctx context.Context, user *entity.UserAccount) error {
	now := time.Now()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.BaseID == "" {
		user.BaseID = user.ID.Hex()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return entity.ErrEmailTaken
	}
	return err
}

// FindByEmail returns (nil, nil) when no account matches.
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*entity.UserAccount, error) {
	var user entity.UserAccount
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByBaseID finds an account by its caller-supplied identifier
func (r *MongoUserRepository) FindByBaseID(ctx context.Context, baseID string) (*entity.UserAccount, error) {
	var user entity.UserAccount
	err := r.collection.FindOne(ctx, bson.M{"baseID": baseID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, entity.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpsertVehicle updates the display name of an existing registration
// number, or appends a new entry. Idempotent per registration number.
func (r *MongoUserRepository) UpsertVehicle(ctx context.Context, baseID string, vehicle entity.Vehicle) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"baseID": baseID, "vehicles.regNum": vehicle.RegNum},
		bson.M{"$set": bson.M{
			"vehicles.$.name": vehicle.Name,
			"updatedAt":       time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	result, err = r.collection.UpdateOne(
		ctx,
		bson.M{"baseID": baseID},
		bson.M{
			"$push": bson.M{"vehicles": vehicle},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to append vehicle: %w", err)
	}
	if result.MatchedCount == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

// AppendNotification inserts at the end of the notification list.
func (r *MongoUserRepository) AppendNotification(ctx context.Context, baseID string, n entity.Notification) (primitive.ObjectID, error) {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"baseID": baseID},
		bson.M{
			"$push": bson.M{"notifications": n},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to append notification: %w", err)
	}
	if result.MatchedCount == 0 {
		return primitive.NilObjectID, entity.ErrUserNotFound
	}
	return n.ID, nil
}

// RemoveNotification deletes one notification by id. A missing
// notification is a no-op; a missing account is an error.
func (r *MongoUserRepository) RemoveNotification(ctx context.Context, baseID string, notificationID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"baseID": baseID},
		bson.M{
			"$pull": bson.M{"notifications": bson.M{"_id": notificationID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove notification: %w", err)
	}
	if result.MatchedCount == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

// UpdateNotificationDecision rewrites the message and decision flags of
// one notification in place.
func (r *MongoUserRepository) UpdateNotificationDecision(ctx context.Context, baseID string, notificationID primitive.ObjectID, message string, accepted, declined bool) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"baseID": baseID, "notifications._id": notificationID},
		bson.M{"$set": bson.M{
			"notifications.$.message":  message,
			"notifications.$.accepted": accepted,
			"notifications.$.declined": declined,
			"updatedAt":                time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if result.MatchedCount == 0 {
		return entity.ErrNotificationNotFound
	}
	return nil
}

// Notifications returns the account's notification list in insertion order.
func (r *MongoUserRepository) Notifications(ctx context.Context, baseID string) ([]entity.Notification, error) {
	var user entity.UserAccount
	opts := options.FindOne().SetProjection(bson.M{"notifications": 1})
	err := r.collection.FindOne(ctx, bson.M{"baseID": baseID}, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, entity.ErrUserNotFound
		}
		return nil, err
	}
	return user.Notifications, nil
}

// IncrementRides adds delta to the account's ride counter
func (r *MongoUserRepository) IncrementRides(ctx context.Context, baseID string, delta int) error {
	return r.increment(ctx, baseID, "nuRides", delta)
}

// IncrementPickups adds delta to the account's pickup counter
func (r *MongoUserRepository) IncrementPickups(ctx context.Context, baseID string, delta int) error {
	return r.increment(ctx, baseID, "nuPickups", delta)
}

func (r *MongoUserRepository) increment(ctx context.Context, baseID, field string, delta int) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"baseID": baseID},
		bson.M{
			"$inc": bson.M{field: delta},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", field, err)
	}
	if result.MatchedCount == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}
