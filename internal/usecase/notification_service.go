package usecase

import (
	"context"

	"carpool-service/internal/domain/entity"
	"carpool-service/internal/domain/repository"
	"carpool-service/pkg/logger"
	"carpool-service/pkg/metrics"
	"carpool-service/pkg/validate"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService runs the accept/decline decision workflow
type NotificationService struct {
	users   repository.UserRepository
	rides   repository.RideRepository
	events  repository.RideEventRepository
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	users repository.UserRepository,
	rides repository.RideRepository,
	events repository.RideEventRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *NotificationService {
	return &NotificationService{
		users:   users,
		rides:   rides,
		events:  events,
		metrics: metrics,
		logger:  logger,
	}
}

// DecisionInput mirrors the /updateNotification body. Accept and decline
// are mutually exclusive by convention; the service does not enforce the
// exclusivity, only that a decision was made at all.
type DecisionInput struct {
	OwnerBaseID    string `json:"userId"`
	NotificationID string `json:"notificationId"`
	Accept         bool   `json:"accept"`
	Decline        bool   `json:"decline"`
}

// Decide propagates a ride owner's decision: flags the seat request,
// rewrites the owner's notification, and notifies the requester. Each
// lookup miss along the chain is logged and the rest of the chain still
// runs; a miss never aborts the workflow.
func (s *NotificationService) Decide(ctx context.Context, in DecisionInput) error {
	if !in.Accept && !in.Decline {
		return entity.Invalid("accept/decline", "a decision is required")
	}
	if !validate.NotEmpty(in.OwnerBaseID) {
		return entity.Invalid("userId", "owner id is required")
	}
	if !validate.ObjectID(in.NotificationID) {
		return entity.Invalid("notificationId", "malformed notification id")
	}
	nid, err := primitive.ObjectIDFromHex(in.NotificationID)
	if err != nil {
		return entity.Invalid("notificationId", "malformed notification id")
	}

	owner, err := s.users.FindByBaseID(ctx, in.OwnerBaseID)
	if err != nil {
		s.logger.Warn("decision: owner account missing", "userId", in.OwnerBaseID, "error", err)
		return nil
	}

	var notification *entity.Notification
	for i := range owner.Notifications {
		if owner.Notifications[i].ID == nid {
			notification = &owner.Notifications[i]
			break
		}
	}
	if notification == nil {
		s.logger.Warn("decision: notification missing",
			"userId", in.OwnerBaseID, "notificationId", in.NotificationID)
		return nil
	}

	rideID := notification.RideID
	requesterID := notification.RequesterID
	requesterName := notification.Name

	// The request inside the posting is matched by requester id with a
	// name fallback; two requesters sharing a display name and a
	// notification without an id cannot be told apart.
	doc, err := s.rides.FindByRideID(ctx, rideID)
	if err != nil {
		s.logger.Warn("decision: posting missing", "rideId", rideID, "error", err)
	} else {
		posting := doc.FindPosting(rideID)
		if posting == nil {
			s.logger.Warn("decision: posting missing in owner document", "rideId", rideID)
		} else if req := posting.FindRequest(requesterID, requesterName); req == nil {
			s.logger.Warn("decision: seat request missing",
				"rideId", rideID, "requesterId", requesterID, "name", requesterName)
		} else if requesterID == "" {
			requesterID = req.RequesterID
		}
	}

	if err := s.rides.SetRequestDecision(ctx, rideID, requesterID, requesterName, in.Accept, in.Decline); err != nil {
		s.logger.Warn("decision: seat request flags not updated", "rideId", rideID, "error", err)
	}

	outcome := "declined"
	if in.Accept {
		outcome = "accepted"
	}

	ownerMessage := "You " + outcome + " " + requesterName + "'s seat request"
	if err := s.users.UpdateNotificationDecision(ctx, in.OwnerBaseID, nid, ownerMessage, in.Accept, in.Decline); err != nil {
		s.logger.Warn("decision: owner notification not updated",
			"userId", in.OwnerBaseID, "notificationId", in.NotificationID, "error", err)
	}

	ownerName := owner.FirstName
	if owner.LastName != "" {
		ownerName += " " + owner.LastName
	}
	reply := entity.Notification{
		Name:        ownerName,
		RideID:      rideID,
		Start:       notification.Start,
		End:         notification.End,
		Role:        entity.RoleInfo,
		RequesterID: requesterID,
		Message:     "Your seat request was " + outcome + " by " + ownerName,
		Accepted:    in.Accept,
		Declined:    in.Decline,
	}
	if _, err := s.users.AppendNotification(ctx, requesterID, reply); err != nil {
		s.logger.Warn("decision: requester not notified",
			"requesterId", requesterID, "rideId", rideID, "error", err)
	}

	if in.Accept {
		if err := s.users.IncrementPickups(ctx, in.OwnerBaseID, 1); err != nil {
			s.logger.Warn("decision: pickup counter not updated", "userId", in.OwnerBaseID, "error", err)
		}
	}

	if s.metrics != nil {
		s.metrics.Decisions.WithLabelValues(outcome).Inc()
	}
	eventType := entity.EventSeatDeclined
	if in.Accept {
		eventType = entity.EventSeatAccepted
	}
	s.recordEvent(ctx, eventType, rideID, in.OwnerBaseID, "requester="+requesterID)

	s.logger.Info("decision propagated",
		"rideId", rideID, "requesterId", requesterID, "outcome", outcome)
	return nil
}

func (s *NotificationService) recordEvent(ctx context.Context, eventType, rideID, actorID, detail string) {
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
