package usecase

import (
	"context"

	"carpool-service/internal/domain/entity"
	"carpool-service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// nopLogger satisfies logger.Logger for tests.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{})      {}
func (nopLogger) Info(string, ...interface{})       {}
func (nopLogger) Warn(string, ...interface{})       {}
func (nopLogger) Error(string, ...interface{})      {}
func (nopLogger) Fatal(string, ...interface{})      {}
func (nopLogger) With(...interface{}) logger.Logger { return nopLogger{} }

type fakeUserRepo struct {
	users map[string]*entity.UserAccount // keyed by baseID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.UserAccount)}
}

func (f *fakeUserRepo) add(u *entity.UserAccount) *entity.UserAccount {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.BaseID == "" {
		u.BaseID = u.ID.Hex()
	}
	f.users[u.BaseID] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.UserAccount) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return entity.ErrEmailTaken
		}
	}
	f.add(user)
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.UserAccount, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByBaseID(ctx context.Context, baseID string) (*entity.UserAccount, error) {
	if u, ok := f.users[baseID]; ok {
		return u, nil
	}
	return nil, entity.ErrUserNotFound
}

func (f *fakeUserRepo) UpsertVehicle(ctx context.Context, baseID string, vehicle entity.Vehicle) error {
	u, ok := f.users[baseID]
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

func (f *fakeUserRepo) AppendNotification(ctx context.Context, baseID string, n entity.Notification) (primitive.ObjectID, error) {
	u, ok := f.users[baseID]
	if !ok {
		return primitive.NilObjectID, entity.ErrUserNotFound
	}
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	u.Notifications = append(u.Notifications, n)
	return n.ID, nil
}

func (f *fakeUserRepo) RemoveNotification(ctx context.Context, baseID string, notificationID primitive.ObjectID) error {
	u, ok := f.users[baseID]
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

func (f *fakeUserRepo) UpdateNotificationDecision(ctx context.Context, baseID string, notificationID primitive.ObjectID, message string, accepted, declined bool) error {
	u, ok := f.users[baseID]
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

func (f *fakeUserRepo) Notifications(ctx context.Context, baseID string) ([]entity.Notification, error) {
	u, ok := f.users[baseID]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return u.Notifications, nil
}

func (f *fakeUserRepo) IncrementRides(ctx context.Context, baseID string, delta int) error {
	u, ok := f.users[baseID]
	if !ok {
		return entity.ErrUserNotFound
	}
	u.NuRides += delta
	return nil
}

func (f *fakeUserRepo) IncrementPickups(ctx context.Context, baseID string, delta int) error {
	u, ok := f.users[baseID]
	if !ok {
		return entity.ErrUserNotFound
	}
	u.NuPickups += delta
	return nil
}

type fakeRideRepo struct {
	docs []*entity.RideOwnerDoc
	// primaryEmpty simulates the index/key-path mismatch that makes the
	// aggregation return nothing even when matching postings exist.
	primaryEmpty bool
}

func newFakeRideRepo() *fakeRideRepo {
	return &fakeRideRepo{}
}

func (f *fakeRideRepo) AppendPosting(ctx context.Context, owner entity.OwnerSummary, p entity.RidePosting) (*entity.RideOwnerDoc, error) {
	for _, d := range f.docs {
		if d.Owner.Name == owner.Name {
			d.Rides = append(d.Rides, p)
			return d, nil
		}
	}
	doc := &entity.RideOwnerDoc{
		ID:    primitive.NewObjectID(),
		Owner: owner,
		Rides: []entity.RidePosting{p},
	}
	f.docs = append(f.docs, doc)
	return doc, nil
}

func (f *fakeRideRepo) ListActive(ctx context.Context) ([]entity.RideOwnerDoc, error) {
	var out []entity.RideOwnerDoc
	for _, d := range f.docs {
		var active []entity.RidePosting
		for _, p := range d.Rides {
			if p.IsRideActive {
				active = append(active, p)
			}
		}
		if len(active) == 0 {
			continue
		}
		out = append(out, entity.RideOwnerDoc{ID: d.ID, Owner: d.Owner, Rides: active})
	}
	return out, nil
}

func (f *fakeRideRepo) FindByOwnerBaseID(ctx context.Context, baseID string) (*entity.RideOwnerDoc, error) {
	for _, d := range f.docs {
		if d.Owner.BaseID == baseID {
			return d, nil
		}
	}
	return nil, entity.ErrRideNotFound
}

func (f *fakeRideRepo) FindByRideID(ctx context.Context, rideID string) (*entity.RideOwnerDoc, error) {
	for _, d := range f.docs {
		if d.FindPosting(rideID) != nil {
			return d, nil
		}
	}
	return nil, entity.ErrRideNotFound
}

func (f *fakeRideRepo) SetPostingActive(ctx context.Context, rideID string, active bool) (*entity.RideOwnerDoc, error) {
	for _, d := range f.docs {
		if p := d.FindPosting(rideID); p != nil {
			p.IsRideActive = active
			return d, nil
		}
	}
	return nil, entity.ErrRideNotFound
}

func (f *fakeRideRepo) NearAggregate(ctx context.Context, point entity.GeoPoint, maxDistKm float64, locType string) ([]entity.RideOwnerDoc, error) {
	if f.primaryEmpty {
		return nil, nil
	}
	var out []entity.RideOwnerDoc
	for _, d := range f.docs {
		kept := FilterPostings(d.Rides, point, maxDistKm, locType)
		if len(kept) == 0 {
			continue
		}
		out = append(out, entity.RideOwnerDoc{ID: d.ID, Owner: d.Owner, Rides: kept})
	}
	return out, nil
}

func (f *fakeRideRepo) CandidateIDsNear(ctx context.Context, point entity.GeoPoint, maxDistKm float64, locType string) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, d := range f.docs {
		for _, p := range d.Rides {
			loc := p.Start
			if locType == entity.LocEnd {
				loc = p.End
			}
			if len(loc.Coordinates) == 2 &&
				HaversineKm(point.Lat(), point.Lng(), loc.Lat(), loc.Lng()) <= maxDistKm {
				ids = append(ids, d.ID)
				break
			}
		}
	}
	return ids, nil
}

func (f *fakeRideRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.RideOwnerDoc, error) {
	for _, d := range f.docs {
		if d.ID == id {
			copied := *d
			copied.Rides = append([]entity.RidePosting(nil), d.Rides...)
			return &copied, nil
		}
	}
	return nil, entity.ErrRideNotFound
}

func (f *fakeRideRepo) ReserveSeat(ctx context.Context, rideID string, req entity.SeatRequest) error {
	for _, d := range f.docs {
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

func (f *fakeRideRepo) SetRequestDecision(ctx context.Context, rideID, requesterID, requesterName string, accepted, declined bool) error {
	for _, d := range f.docs {
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

type fakeEventRepo struct {
	events []entity.RideEvent
}

func (f *fakeEventRepo) Record(ctx context.Context, event *entity.RideEvent) error {
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeEventRepo) RecentByRide(ctx context.Context, rideID string, limit int) ([]entity.RideEvent, error) {
	var out []entity.RideEvent
	for i := len(f.events) - 1; i >= 0 && len(out) < limit; i-- {
		if f.events[i].RideID == rideID {
			out = append(out, f.events[i])
		}
	}
	return out, nil
}
