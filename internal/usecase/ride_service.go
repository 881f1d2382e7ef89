package usecase

import (
	"context"
	"fmt"
	"sort"

	"carpool-service/internal/domain/entity"
	"carpool-service/internal/domain/repository"
	"carpool-service/pkg/logger"
	"carpool-service/pkg/metrics"
	"carpool-service/pkg/validate"

	"github.com/google/uuid"
)

// RideService handles the ride ledger, the geo queries and seat requests
type RideService struct {
	rides           repository.RideRepository
	users           repository.UserRepository
	events          repository.RideEventRepository
	metrics         *metrics.Metrics
	defaultRadiusKm float64
	logger          logger.Logger
}

// NewRideService creates a new ride service. events and metrics may be nil
// when the audit database or the metrics registry is not configured.
func NewRideService(
	rides repository.RideRepository,
	users repository.UserRepository,
	events repository.RideEventRepository,
	metrics *metrics.Metrics,
	defaultRadiusKm float64,
	logger logger.Logger,
) *RideService {
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = 10
	}
	return &RideService{
		rides:           rides,
		users:           users,
		events:          events,
		metrics:         metrics,
		defaultRadiusKm: defaultRadiusKm,
		logger:          logger,
	}
}

// PostRideInput mirrors the /riding request body.
type PostRideInput struct {
	Owner entity.OwnerSummary `json:"userData"`
	Ride  entity.RidePosting  `json:"ride"`
}

// PostRide validates the posting, assigns a ride id when the client sent
// none, and appends it to the owner's ledger (created on first post).
func (s *RideService) PostRide(ctx context.Context, in PostRideInput) (*entity.RideOwnerDoc, error) {
	if !validate.NotEmpty(in.Owner.Name) {
		return nil, entity.Invalid("userData.name", "owner name is required")
	}
	if !validate.NotEmpty(in.Owner.BaseID) {
		return nil, entity.Invalid("userData.baseID", "owner id is required")
	}
	if !validate.VehicleType(in.Ride.TypeOfVeh) {
		return nil, entity.Invalid("typeOfVeh", "vehicle type must be Car or Bike")
	}
	if !validate.PositiveInt(in.Ride.NuSeats) {
		return nil, entity.Invalid("nuSeats", "number of seats must be positive")
	}
	if !validate.Coordinates(in.Ride.Start.Coordinates) {
		return nil, entity.Invalid("start", "start must be a [lng, lat] pair")
	}
	if !validate.Coordinates(in.Ride.End.Coordinates) {
		return nil, entity.Invalid("end", "end must be a [lng, lat] pair")
	}
	if !validate.FutureDate(in.Ride.Time) {
		return nil, entity.Invalid("time", "scheduled time must be in the future")
	}

	posting := in.Ride
	if posting.RideID == "" {
		posting.RideID = uuid.NewString()
	}
	posting.Start.Type = "Point"
	posting.End.Type = "Point"
	posting.IsRideActive = true
	posting.Requests = nil

	doc, err := s.rides.AppendPosting(ctx, in.Owner, posting)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RidesPosted.Inc()
	}
	s.recordEvent(ctx, entity.EventRidePosted, posting.RideID, in.Owner.BaseID, "seats="+fmt.Sprint(posting.NuSeats))
	s.logger.Info("ride posted", "rideId", posting.RideID, "owner", in.Owner.Name)
	return doc, nil
}

// ListActive returns all active postings grouped per owner, scheduled
// time ascending.
func (s *RideService) ListActive(ctx context.Context) ([]entity.RideOwnerDoc, error) {
	docs, err := s.rides.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	sortByTime(docs)
	return docs, nil
}

// OwnerRides returns one owner's full ledger, active and inactive.
func (s *RideService) OwnerRides(ctx context.Context, baseID string) (*entity.RideOwnerDoc, error) {
	if !validate.NotEmpty(baseID) {
		return nil, entity.Invalid("baseID", "owner id is required")
	}
	return s.rides.FindByOwnerBaseID(ctx, baseID)
}

// NearbyInput carries the /rides/near query parameters.
type NearbyInput struct {
	Lng       float64
	Lat       float64
	MaxDistKm float64
	LocType   string
}

// Nearby runs the two-strategy geo query: a single radius-aware
// aggregation first, then the candidate-ids-plus-refetch fallback when the
// aggregation comes back empty. The fallback pays an N+1 fetch to cover
// the gap between the declared geo index path and the nested field the
// aggregation filters on.
func (s *RideService) Nearby(ctx context.Context, in NearbyInput) ([]entity.RideOwnerDoc, error) {
	if !validate.Coordinates([]float64{in.Lng, in.Lat}) {
		return nil, entity.Invalid("lng/lat", "coordinates out of range")
	}
	if in.MaxDistKm == 0 {
		in.MaxDistKm = s.defaultRadiusKm
	}
	if in.MaxDistKm < 0 {
		return nil, entity.Invalid("maxDistKm", "radius must be positive")
	}
	if in.LocType == "" {
		in.LocType = entity.LocStart
	}
	if in.LocType != entity.LocStart && in.LocType != entity.LocEnd {
		return nil, entity.Invalid("locType", "locType must be start or end")
	}

	point := entity.NewGeoPoint(in.Lng, in.Lat)

	docs, err := s.rides.NearAggregate(ctx, point, in.MaxDistKm, in.LocType)
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		sortByTime(docs)
		return docs, nil
	}

	if s.metrics != nil {
		s.metrics.GeoFallbacks.Inc()
	}
	s.logger.Warn("nearby aggregation returned nothing, falling back to scan",
		"lng", in.Lng, "lat", in.Lat, "maxDistKm", in.MaxDistKm, "locType", in.LocType)

	return s.nearbyFallback(ctx, point, in.MaxDistKm, in.LocType)
}

// nearbyFallback fetches candidate owner documents one by one and filters
// their posting lists in application code.
func (s *RideService) nearbyFallback(ctx context.Context, point entity.GeoPoint, maxDistKm float64, locType string) ([]entity.RideOwnerDoc, error) {
	ids, err := s.rides.CandidateIDsNear(ctx, point, maxDistKm, locType)
	if err != nil {
		return nil, err
	}

	var docs []entity.RideOwnerDoc
	for _, id := range ids {
		doc, err := s.rides.FindByID(ctx, id)
		if err != nil {
			s.logger.Warn("fallback refetch miss", "id", id.Hex(), "error", err)
			continue
		}
		kept := FilterPostings(doc.Rides, point, maxDistKm, locType)
		if len(kept) == 0 {
			continue
		}
		doc.Rides = kept
		docs = append(docs, *doc)
	}

	sortByTime(docs)
	return docs, nil
}

// SoftDelete marks one posting inactive; it disappears from discovery but
// stays restorable.
func (s *RideService) SoftDelete(ctx context.Context, rideID string) (*entity.RideOwnerDoc, error) {
	doc, err := s.rides.SetPostingActive(ctx, rideID, false)
	if err != nil {
		return nil, err
	}
	s.recordEvent(ctx, entity.EventRideDeleted, rideID, doc.Owner.BaseID, "")
	return doc, nil
}

// Restore flips a soft-deleted posting back to active.
func (s *RideService) Restore(ctx context.Context, rideID string) (*entity.RideOwnerDoc, error) {
	doc, err := s.rides.SetPostingActive(ctx, rideID, true)
	if err != nil {
		return nil, err
	}
	s.recordEvent(ctx, entity.EventRideRestored, rideID, doc.Owner.BaseID, "")
	return doc, nil
}

// SeatRequestInput mirrors the /ride/request body.
type SeatRequestInput struct {
	BaseID  string `json:"baseID"`
	RideID  string `json:"rideId"`
	Message string `json:"message"`
}

// RequestSeat reserves one seat on a posting. The posting mutation is a
// single conditional document write; the requester counter update and the
// owner notification are separate writes with no rollback, logged when
// they fail after the reservation has already been persisted.
func (s *RideService) RequestSeat(ctx context.Context, in SeatRequestInput) (*entity.SeatRequest, error) {
	if !validate.NotEmpty(in.BaseID) {
		return nil, entity.Invalid("baseID", "requester id is required")
	}
	if !validate.NotEmpty(in.RideID) {
		return nil, entity.Invalid("rideId", "ride id is required")
	}

	requester, err := s.users.FindByBaseID(ctx, in.BaseID)
	if err != nil {
		return nil, err
	}

	doc, err := s.rides.FindByRideID(ctx, in.RideID)
	if err != nil {
		return nil, err
	}
	posting := doc.FindPosting(in.RideID)
	if posting == nil {
		return nil, entity.ErrRideNotFound
	}
	if !posting.IsRideActive {
		return nil, entity.ErrRideInactive
	}
	for _, existing := range posting.Requests {
		if existing.PhNum == requester.PhNum {
			return nil, entity.ErrDuplicateRequest
		}
	}
	if posting.NuSeats <= 0 {
		return nil, entity.ErrRideFull
	}

	name := requester.FirstName
	if requester.LastName != "" {
		name += " " + requester.LastName
	}
	req := entity.SeatRequest{
		Name:            name,
		PhNum:           requester.PhNum,
		ProfileImageURL: requester.ProfileImageURL,
		RequesterID:     requester.BaseID,
	}

	if err := s.rides.ReserveSeat(ctx, in.RideID, req); err != nil {
		return nil, err
	}

	// Cross-document follow-ups. No rollback on failure; the reservation
	// above is already durable.
	if err := s.users.IncrementRides(ctx, requester.BaseID, 1); err != nil {
		s.logger.Error("seat reserved but ride counter not updated",
			"rideId", in.RideID, "baseID", requester.BaseID, "error", err)
		s.recordEvent(ctx, entity.EventSeatRequested, in.RideID, requester.BaseID, "partial: counter update failed")
	}

	message := in.Message
	if message == "" {
		message = name + " requested a seat on your ride"
	}
	notification := entity.Notification{
		Name:        name,
		RideID:      in.RideID,
		Start:       posting.Start,
		End:         posting.End,
		Role:        entity.RoleRequest,
		RequesterID: requester.BaseID,
		Message:     message,
	}
	if _, err := s.users.AppendNotification(ctx, doc.Owner.BaseID, notification); err != nil {
		s.logger.Error("seat reserved but owner not notified",
			"rideId", in.RideID, "owner", doc.Owner.BaseID, "error", err)
		s.recordEvent(ctx, entity.EventSeatRequested, in.RideID, requester.BaseID, "partial: owner notification failed")
	}

	if s.metrics != nil {
		s.metrics.SeatRequests.Inc()
	}
	s.recordEvent(ctx, entity.EventSeatRequested, in.RideID, requester.BaseID, "")
	s.logger.Info("seat requested", "rideId", in.RideID, "requester", requester.BaseID)
	return &req, nil
}

func (s *RideService) recordEvent(ctx context.Context, eventType, rideID, actorID, detail string) {
	if s.events == nil {
		return
	}
	event := &entity.RideEvent{
		EventType: eventType,
		RideID:    rideID,
		ActorID:   actorID,
		Detail:    detail,
	}
	if err := s.events.Record(ctx, event); err != nil {
		s.logger.Warn("audit event not recorded", "type", eventType, "rideId", rideID, "error", err)
	}
}

// sortByTime orders each owner's postings by scheduled time ascending and
// the owner groups by their earliest posting.
func sortByTime(docs []entity.RideOwnerDoc) {
	for i := range docs {
		rides := docs[i].Rides
		sort.SliceStable(rides, func(a, b int) bool {
			return rides[a].Time.Before(rides[b].Time)
		})
	}
	sort.SliceStable(docs, func(a, b int) bool {
		if len(docs[a].Rides) == 0 || len(docs[b].Rides) == 0 {
			return len(docs[b].Rides) == 0
		}
		return docs[a].Rides[0].Time.Before(docs[b].Rides[0].Time)
	})
}
