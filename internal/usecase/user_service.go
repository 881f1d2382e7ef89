package usecase

import (
	"context"

	"carpool-service/internal/domain/entity"
	"carpool-service/internal/domain/repository"
	"carpool-service/pkg/logger"
	"carpool-service/pkg/validate"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService handles account, vehicle and notification-list operations
type UserService struct {
	users  repository.UserRepository
	logger logger.Logger
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository, logger logger.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// RegisterInput carries the fields collected on first role selection.
// BaseID comes from the client-side identity provider and is trusted as
// supplied; when absent the new document id is used.
type RegisterInput struct {
	BaseID          string `json:"baseID"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	PhNum           string `json:"phNum"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// Register creates a new account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.UserAccount, error) {
	if !validate.Email(in.Email) {
		return nil, entity.Invalid("email", "valid email is required")
	}
	if !validate.NotEmpty(in.FirstName) {
		return nil, entity.Invalid("firstName", "first name is required")
	}
	if !validate.Phone(in.PhNum) {
		return nil, entity.Invalid("phNum", "phone number must be 7-15 digits")
	}

	user := &entity.UserAccount{
		BaseID:          in.BaseID,
		Email:           in.Email,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		PhNum:           in.PhNum,
		ProfileImageURL: in.ProfileImageURL,
		IsActive:        true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "email", user.Email, "baseID", user.BaseID)
	return user, nil
}

// LookupByEmail returns (nil, nil) when no account matches; the client
// branches to registration on the miss.
func (s *UserService) LookupByEmail(ctx context.Context, email string) (*entity.UserAccount, error) {
	if !validate.Email(email) {
		return nil, entity.Invalid("email", "valid email is required")
	}
	return s.users.FindByEmail(ctx, email)
}

// UpsertVehicle updates the display name of an existing registration
// number or appends a new entry.
func (s *UserService) UpsertVehicle(ctx context.Context, baseID, regNum, name string) error {
	if !validate.NotEmpty(baseID) {
		return entity.Invalid("baseID", "user id is required")
	}
	if !validate.NotEmpty(regNum) {
		return entity.Invalid("regNum", "registration number is required")
	}
	if !validate.NotEmpty(name) {
		return entity.Invalid("name", "vehicle name is required")
	}

	if err := s.users.UpsertVehicle(ctx, baseID, entity.Vehicle{RegNum: regNum, Name: name}); err != nil {
		return err
	}

	s.logger.Info("vehicle registration upserted", "baseID", baseID, "regNum", regNum)
	return nil
}

// AppendNotification appends one notification to the recipient's list.
func (s *UserService) AppendNotification(ctx context.Context, baseID string, n entity.Notification) (entity.Notification, error) {
	if !validate.NotEmpty(baseID) {
		return n, entity.Invalid("baseID", "user id is required")
	}
	if n.Role == "" {
		n.Role = entity.RoleInfo
	}

	id, err := s.users.AppendNotification(ctx, baseID, n)
	if err != nil {
		return n, err
	}
	n.ID = id
	return n, nil
}

// RemoveNotification deletes one notification by id. A missing
// notification is a silent no-op; a missing account surfaces as not found.
func (s *UserService) RemoveNotification(ctx context.Context, baseID, notificationID string) error {
	if !validate.ObjectID(notificationID) {
		return entity.Invalid("notificationId", "malformed notification id")
	}
	nid, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return entity.Invalid("notificationId", "malformed notification id")
	}
	return s.users.RemoveNotification(ctx, baseID, nid)
}

// ListNotifications returns the account's notifications in insertion order.
func (s *UserService) ListNotifications(ctx context.Context, baseID string) ([]entity.Notification, error) {
	if !validate.NotEmpty(baseID) {
		return nil, entity.Invalid("baseID", "user id is required")
	}
	return s.users.Notifications(ctx, baseID)
}
