package httpapi

import (
	"context"

	"carpool-service/internal/domain/entity"
	"carpool-service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{})      {}
func (nopLogger) Info(string, ...interface{})       {}
func (nopLogger) Warn(string, ...interface{})       {}
func (nopLogger) Error(string, ...interface{})      {}
func (nopLogger) Fatal(string, ...interface{})      {}
func (nopLogger) With(...interface{}) logger.Logger { return nopLogger{} }

// memUserRepo is an in-memory UserRepository for router tests.
type memUserRepo struct {
	users map[string]*entity.UserAccount
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.UserAccount)}
}

func (m *memUserRepo) Create(ctx context.Context, user *entity.UserAccount) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return entity.ErrEmailTaken
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.BaseID == "" {
		user.BaseID = user.ID.Hex()
	}
	m.users[user.BaseID] = user
	return nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email string) (*entity.UserAccount, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) FindByBaseID(ctx context.Context, baseID string) (*entity.UserAccount, error) {
	if u, ok := m.users[baseID]; ok {
		return u, nil
	}
	return nil, entity.ErrUserNotFound
}

func (m *memUserRepo) UpsertVehicle(ctx context.Context, baseID string, vehicle entity.Vehicle) error {
	u, ok := m.users[baseID]
	if !ok {
		return entity.ErrUserNotFound
	}
	for i := range u.Vehicles {
		if u.Vehicles[i].RegNum == vehicle.RegNum {
			u.Vehicles[i].Name = vehicle.Name
			return nil
		}
	}
	u.Vehicles = append(u.Vehicles, vehicle)
	return nil
}

func (m *memUserRepo) AppendNotification(ctx context.Context, baseID string, n entity.Notification) (primitive.ObjectID, error) {
	u, ok := m.users[baseID]
	if !ok {
		return primitive.NilObjectID, entity.ErrUserNotFound
	}
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	u.Notifications = append(u.Notifications, n)
	return n.ID, nil
}

func (m *memUserRepo) RemoveNotification(ctx context.Context, baseID string, notificationID primitive.ObjectID) error {
	u, ok := m.users[baseID]
	if !ok {
		return entity.ErrUserNotFound
	}
	for i := range u.Notifications {
		if u.Notifications[i].ID == notificationID {
			u.Notifications = append(u.Notifications[:i], u.Notifications[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memUserRepo) UpdateNotificationDecision(ctx context.Context, baseID string, notificationID primitive.ObjectID, message string, accepted, declined bool) error {
	u, ok := m.users[baseID]
	if !ok {
		return entity.ErrNotificationNotFound
	}
	for i := range u.Notifications {
		if u.Notifications[i].ID == notificationID {
			u.Notifications[i].Message = message
			u.Notifications[i].Accepted = accepted
			u.Notifications[i].Declined = declined
			return nil
		}
	}
	return entity.ErrNotificationNotFound
}

func (m *memUserRepo) Notifications(ctx context.Context, baseID string) ([]entity.Notification, error) {
	u, ok := m.users[baseID]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return u.Notifications, nil
}

func (m *memUserRepo) IncrementRides(ctx context.Context, baseID string, delta int) error {
	u, ok := m.users[baseID]
	if !ok {
		return entity.ErrUserNotFound
	}
	u.NuRides += delta
	return nil
}

func (m *memUserRepo) IncrementPickups(ctx context.Context, baseID string, delta int) error {
	u, ok := m.users[baseID]
	if !ok {
		return entity.ErrUserNotFound
	}
	u.NuPickups += delta
	return nil
}

// memRideRepo is an in-memory RideRepository for router tests.
type memRideRepo struct {
	docs []*entity.RideOwnerDoc
}

func (m *memRideRepo) AppendPosting(ctx context.Context, owner entity.OwnerSummary, p entity.RidePosting) (*entity.RideOwnerDoc, error) {
	for _, d := range m.docs {
		if d.Owner.Name == owner.Name {
			d.Rides = append(d.Rides, p)
			return d, nil
		}
	}
	doc := &entity.RideOwnerDoc{ID: primitive.NewObjectID(), Owner: owner, Rides: []entity.RidePosting{p}}
	m.docs = append(m.docs, doc)
	return doc, nil
}

func (m *memRideRepo) ListActive(ctx context.Context) ([]entity.RideOwnerDoc, error) {
	var out []entity.RideOwnerDoc
	for _, d := range m.docs {
		var active []entity.RidePosting
		for _, p := range d.Rides {
			if p.IsRideActive {
				active = append(active, p)
			}
		}
		if len(active) > 0 {
			out = append(out, entity.RideOwnerDoc{ID: d.ID, Owner: d.Owner, Rides: active})
		}
	}
	return out, nil
}

func (m *memRideRepo) FindByOwnerBaseID(ctx context.Context, baseID string) (*entity.RideOwnerDoc, error) {
	for _, d := range m.docs {
		if d.Owner.BaseID == baseID {
			return d, nil
		}
	}
	return nil, entity.ErrRideNotFound
}

func (m *memRideRepo) FindByRideID(ctx context.Context, rideID string) (*entity.RideOwnerDoc, error) {
	for _, d := range m.docs {
		if d.FindPosting(rideID) != nil {
			return d, nil
		}
	}
	return nil, entity.ErrRideNotFound
}

func (m *memRideRepo) SetPostingActive(ctx context.Context, rideID string, active bool) (*entity.RideOwnerDoc, error) {
	for _, d := range m.docs {
		if p := d.FindPosting(rideID); p != nil {
			p.IsRideActive = active
			return d, nil
		}
	}
	return nil, entity.ErrRideNotFound
}

func (m *memRideRepo) NearAggregate(ctx context.Context, point entity.GeoPoint, maxDistKm float64, locType string) ([]entity.RideOwnerDoc, error) {
	// Router tests exercise the fallback path.
	return nil, nil
}

func (m *memRideRepo) CandidateIDsNear(ctx context.Context, point entity.GeoPoint, maxDistKm float64, locType string) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, d := range m.docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (m *memRideRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.RideOwnerDoc, error) {
	for _, d := range m.docs {
		if d.ID == id {
			copied := *d
			copied.Rides = append([]entity.RidePosting(nil), d.Rides...)
			return &copied, nil
		}
	}
	return nil, entity.ErrRideNotFound
}

func (m *memRideRepo) ReserveSeat(ctx context.Context, rideID string, req entity.SeatRequest) error {
	for _, d := range m.docs {
		p := d.FindPosting(rideID)
		if p == nil {
			continue
		}
		if !p.IsRideActive || p.NuSeats <= 0 {
			return entity.ErrRideFull
		}
		p.NuSeats--
		p.Requests = append(p.Requests, req)
		return nil
	}
	return entity.ErrRideFull
}

func (m *memRideRepo) SetRequestDecision(ctx context.Context, rideID, requesterID, requesterName string, accepted, declined bool) error {
	for _, d := range m.docs {
		p := d.FindPosting(rideID)
		if p == nil {
			continue
		}
		if req := p.FindRequest(requesterID, requesterName); req != nil {
			req.Accepted = accepted
			req.Declined = declined
		}
		return nil
	}
	return entity.ErrRideNotFound
}
